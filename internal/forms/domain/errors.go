package domain

import (
	"github.com/pollsay/pollsay/internal/errors"
)

// Form and response error definitions.
var (
	// ErrFormNotFound indicates the form was not found.
	ErrFormNotFound = errors.Wrap(errors.ErrNotFound, "form not found")

	// ErrOrgKeyRequired indicates an encrypted form or response was read without an unlocked
	// organization key.
	ErrOrgKeyRequired = errors.Wrap(errors.ErrForbidden, "unlocked organization key required")

	// ErrWrongOrganization indicates the unlocked key belongs to a different organization than
	// the form.
	ErrWrongOrganization = errors.Wrap(errors.ErrForbidden, "organization key does not match form")

	// ErrInvalidAnswers indicates the answers do not fit the form definition.
	ErrInvalidAnswers = errors.Wrap(errors.ErrInvalidInput, "invalid answers")
)
