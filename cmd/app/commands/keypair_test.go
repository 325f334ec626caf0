package commands

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/pollsay/pollsay/internal/crypto/domain"
	cryptoService "github.com/pollsay/pollsay/internal/crypto/service"
)

func TestRunGenerateKeyPair(t *testing.T) {
	encryption := cryptoService.NewEncryptionService(
		cryptoService.NewAEADManager(),
		cryptoService.NewRSAKeyWrapper(cryptoDomain.MinRSAKeyBits),
		cryptoDomain.AESGCM,
	)

	t.Run("json", func(t *testing.T) {
		out := &bytes.Buffer{}
		err := RunGenerateKeyPair(encryption, newTestLogger(), out, "json")
		require.NoError(t, err)

		var pair map[string]string
		require.NoError(t, json.Unmarshal(out.Bytes(), &pair))
		assert.NotEmpty(t, pair["public_key"])
		assert.NotEmpty(t, pair["private_key"])

		// The printed pair must be usable for wrapping.
		wrapped, err := encryption.EncryptFormKey("AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA=", pair["public_key"])
		require.NoError(t, err)
		unwrapped, err := encryption.DecryptFormKey(wrapped, pair["private_key"])
		require.NoError(t, err)
		assert.Equal(t, "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA=", unwrapped)
	})

	t.Run("invalid-format", func(t *testing.T) {
		err := RunGenerateKeyPair(encryption, newTestLogger(), &bytes.Buffer{}, "xml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid format")
	})
}
