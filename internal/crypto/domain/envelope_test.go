package domain

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/pollsay/pollsay/internal/errors"
)

func TestPayloadEnvelope_String(t *testing.T) {
	iv := bytes.Repeat([]byte{1}, IVSize)
	data := bytes.Repeat([]byte{2}, TagSize+4)

	t.Run("aes-gcm omits algorithm", func(t *testing.T) {
		e := PayloadEnvelope{Algorithm: AESGCM, IV: iv, Data: data}

		var fields map[string]any
		require.NoError(t, json.Unmarshal([]byte(e.String()), &fields))
		assert.Len(t, fields, 2)
		assert.Contains(t, fields, "iv")
		assert.Contains(t, fields, "data")
	})

	t.Run("chacha20 keeps algorithm", func(t *testing.T) {
		e := PayloadEnvelope{Algorithm: ChaCha20, IV: iv, Data: data}
		assert.Contains(t, e.String(), `"alg":"chacha20-poly1305"`)

		parsed, err := ParsePayloadEnvelope(e.String())
		require.NoError(t, err)
		assert.Equal(t, ChaCha20, parsed.Cipher())
	})

	t.Run("parse restores fields", func(t *testing.T) {
		parsed, err := ParsePayloadEnvelope(PayloadEnvelope{IV: iv, Data: data}.String())
		require.NoError(t, err)
		assert.Equal(t, AESGCM, parsed.Cipher())
		assert.Equal(t, iv, parsed.IV)
		assert.Equal(t, data, parsed.Data)
	})
}

func TestParsePayloadEnvelope_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "not json", content: "not-json", wantErr: ErrInvalidEnvelope},
		{name: "bad base64", content: `{"iv":"***","data":"AAAA"}`, wantErr: ErrInvalidEnvelope},
		{name: "missing iv", content: `{"data":"AAAAAAAAAAAAAAAAAAAAAA=="}`, wantErr: ErrInvalidEnvelope},
		{name: "short iv", content: `{"iv":"AAAA","data":"AAAAAAAAAAAAAAAAAAAAAA=="}`, wantErr: ErrInvalidEnvelope},
		{name: "truncated data", content: `{"iv":"AAAAAAAAAAAAAAAA","data":"AAAA"}`, wantErr: ErrInvalidEnvelope},
		{
			name:    "unknown algorithm",
			content: `{"alg":"rot13","iv":"AAAAAAAAAAAAAAAA","data":"AAAAAAAAAAAAAAAAAAAAAA=="}`,
			wantErr: ErrUnsupportedAlgorithm,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePayloadEnvelope(tt.content)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}
}

func TestParseEnvelope_CorruptCiphertext(t *testing.T) {
	tests := []struct {
		name    string
		content string
		corrupt bool
	}{
		{name: "truncated data", content: `{"iv":"AAAAAAAAAAAAAAAA","data":"AAAA"}`, corrupt: true},
		{name: "bad base64 data", content: `{"iv":"AAAAAAAAAAAAAAAA","data":"AAAA*AAA"}`, corrupt: true},
		{name: "not json", content: "not-json"},
		{name: "short iv", content: `{"iv":"AAAA","data":"AAAAAAAAAAAAAAAAAAAAAA=="}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePayloadEnvelope(tt.content)
			assert.ErrorIs(t, err, ErrInvalidEnvelope)
			assert.Equal(t, tt.corrupt, apperrors.Is(err, ErrCorruptCiphertext))
		})
	}

	_, err := ParsePasswordEnvelope(`{"salt":"AAAAAAAAAAAAAAAAAAAAAA==","iv":"AAAAAAAAAAAAAAAA","data":"AA"}`)
	assert.ErrorIs(t, err, ErrCorruptCiphertext)
}

func TestParsePasswordEnvelope(t *testing.T) {
	e := PasswordEnvelope{
		Salt: bytes.Repeat([]byte{3}, SaltSize),
		IV:   bytes.Repeat([]byte{4}, IVSize),
		Data: bytes.Repeat([]byte{5}, TagSize),
	}

	parsed, err := ParsePasswordEnvelope(e.String())
	require.NoError(t, err)
	assert.Equal(t, e, parsed)

	_, err = ParsePasswordEnvelope(`{"iv":"AAAAAAAAAAAAAAAA","data":"AAAAAAAAAAAAAAAAAAAAAA=="}`)
	assert.ErrorIs(t, err, ErrInvalidEnvelope)

	_, err = ParsePasswordEnvelope("{")
	assert.ErrorIs(t, err, ErrInvalidEnvelope)
}
