// Package errors provides the error kinds shared by every PollSay module. Domain packages wrap
// these kinds with their own sentinels so callers can branch either on the precise failure or on
// its kind (for example "wrong passphrase" versus "corrupted data").
package errors

import (
	"errors"
	"fmt"
)

// Error kinds used across all domain modules.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a conflict with existing data (e.g., an org already has a key).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the input is malformed, fails validation or cannot be decrypted.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates a secret (passphrase, password) failed to authenticate.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the caller is not allowed to perform the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrLocked indicates the operation is temporarily refused (too many attempts).
	ErrLocked = errors.New("locked")

	// ErrInternal indicates a failure of an underlying provider (entropy source, KMS).
	ErrInternal = errors.New("internal error")
)

// New creates a new error with the given message.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is Wrap with a format string.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Join returns an error that wraps the given errors, discarding nils.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
