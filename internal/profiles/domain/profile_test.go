package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/pollsay/pollsay/internal/errors"
)

func TestProfileData_JSON(t *testing.T) {
	b, err := json.Marshal(ProfileData{Email: "alice@example.com", Pseudonym: "BraveOtter#a1b2c3"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"alice@example.com","pseudonym":"BraveOtter#a1b2c3"}`, string(b))
}

func TestErrors(t *testing.T) {
	assert.ErrorIs(t, ErrInvalidCredentials, apperrors.ErrUnauthorized)
	assert.ErrorIs(t, ErrProfileNotFound, apperrors.ErrNotFound)
	assert.ErrorIs(t, ErrProfileAlreadyExists, apperrors.ErrConflict)
}
