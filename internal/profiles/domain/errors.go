package domain

import (
	"github.com/pollsay/pollsay/internal/errors"
)

// Profile error definitions.
var (
	// ErrProfileNotFound indicates the profile was not found.
	ErrProfileNotFound = errors.Wrap(errors.ErrNotFound, "profile not found")

	// ErrProfileAlreadyExists indicates the user already has a profile.
	ErrProfileAlreadyExists = errors.Wrap(errors.ErrConflict, "profile already exists")

	// ErrInvalidCredentials indicates the password does not match the stored verifier.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")
)
