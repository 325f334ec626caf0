package domain

import (
	"github.com/pollsay/pollsay/internal/errors"
)

// Organization key error definitions.
var (
	// ErrOrgKeyNotFound indicates the organization has no active keypair.
	ErrOrgKeyNotFound = errors.Wrap(errors.ErrNotFound, "organization key not found")

	// ErrOrgKeyAlreadyExists indicates the organization already has an active keypair.
	ErrOrgKeyAlreadyExists = errors.Wrap(errors.ErrConflict, "organization key already exists")

	// ErrTooManyUnlockAttempts indicates the unlock attempt budget of an organization is exhausted.
	ErrTooManyUnlockAttempts = errors.Wrap(errors.ErrLocked, "too many unlock attempts")

	// ErrKeyVersionMismatch indicates a record is wrapped under a different key version than the
	// one supplied.
	ErrKeyVersionMismatch = errors.Wrap(errors.ErrConflict, "key version mismatch")

	// ErrEscrowUnavailable indicates recovery was requested but no escrow keeper or escrow copy exists.
	ErrEscrowUnavailable = errors.Wrap(errors.ErrNotFound, "key escrow unavailable")

	// ErrSamePassphrase indicates a passphrase change to the current passphrase.
	ErrSamePassphrase = errors.Wrap(errors.ErrInvalidInput, "new passphrase must differ from current")
)
