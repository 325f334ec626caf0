package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordService(t *testing.T) {
	service := NewPasswordService()

	hashed, err := service.Hash("s3cret-password")
	require.NoError(t, err)
	assert.Contains(t, hashed, "$argon2id$")
	assert.NotContains(t, hashed, "s3cret-password")

	t.Run("Matches", func(t *testing.T) {
		assert.True(t, service.Compare("s3cret-password", hashed))
	})

	t.Run("WrongPassword", func(t *testing.T) {
		assert.False(t, service.Compare("s3cret-passwore", hashed))
	})

	t.Run("MalformedHash", func(t *testing.T) {
		assert.False(t, service.Compare("s3cret-password", "not-a-phc-string"))
	})

	t.Run("UniqueSalts", func(t *testing.T) {
		again, err := service.Hash("s3cret-password")
		require.NoError(t, err)
		assert.NotEqual(t, hashed, again)
	})
}
