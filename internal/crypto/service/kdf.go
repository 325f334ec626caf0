package service

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"

	cryptoDomain "github.com/pollsay/pollsay/internal/crypto/domain"
)

// DeriveKey stretches password into a 256-bit key with PBKDF2-HMAC-SHA256.
func DeriveKey(password, salt []byte, iterations int) []byte {
	return pbkdf2.Key(password, salt, iterations, cryptoDomain.KeySize, sha256.New)
}
