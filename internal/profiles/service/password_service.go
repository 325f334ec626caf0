// Package service hashes and verifies profile passwords with Argon2id.
package service

import (
	"github.com/allisson/go-pwdhash"

	apperrors "github.com/pollsay/pollsay/internal/errors"
)

// PasswordService stores password verifiers in PHC format.
type PasswordService interface {
	// Hash returns the Argon2id verifier of password.
	Hash(password string) (string, error)

	// Compare reports whether password matches the verifier. Malformed verifiers never match.
	Compare(password, hashed string) bool
}

type passwordService struct {
	hasher *pwdhash.PasswordHasher
}

// NewPasswordService creates a PasswordService with the Moderate Argon2id policy.
func NewPasswordService() PasswordService {
	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(pwdhash.PolicyModerate),
	)
	if err != nil {
		panic(err)
	}

	return &passwordService{hasher: hasher}
}

func (p *passwordService) Hash(password string) (string, error) {
	hashed, err := p.hasher.Hash([]byte(password))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash password")
	}
	return hashed, nil
}

func (p *passwordService) Compare(password, hashed string) bool {
	ok, err := p.hasher.Verify([]byte(password), hashed)
	if err != nil {
		return false
	}
	return ok
}
