// Package usecase implements form creation and response collection, encrypting definitions and
// answers for forms marked encrypted.
package usecase

import (
	"context"

	"github.com/google/uuid"

	formsDomain "github.com/pollsay/pollsay/internal/forms/domain"
	orgsDomain "github.com/pollsay/pollsay/internal/orgs/domain"
)

// FormRepository defines the interface for Form persistence operations.
type FormRepository interface {
	Create(ctx context.Context, form *formsDomain.Form) error
	Get(ctx context.Context, formID uuid.UUID) (*formsDomain.Form, error)
}

// ResponseRepository defines the interface for Response persistence operations.
type ResponseRepository interface {
	Create(ctx context.Context, response *formsDomain.Response) error
	ListByForm(ctx context.Context, formID uuid.UUID) ([]*formsDomain.Response, error)
}

// ActiveKeyLocker returns the active key of an organization with a shared lock on it. Records
// wrapped under that key are inserted in the same transaction, so rotation, which locks the key
// exclusively, either waits for them and re-wraps them or runs before and they use its new key.
type ActiveKeyLocker interface {
	GetActiveForShare(ctx context.Context, orgID string) (*orgsDomain.OrgKey, error)
}

// FormUseCase defines the interface for form and response business logic.
type FormUseCase interface {
	// Create validates and stores a form, encrypting its definition when requested.
	Create(ctx context.Context, input *formsDomain.CreateFormInput) (*formsDomain.Form, error)

	// Get returns a stored form as-is.
	Get(ctx context.Context, formID uuid.UUID) (*formsDomain.Form, error)

	// Definition returns the plaintext definition of a form. unlocked is required for encrypted
	// forms and ignored for plain ones.
	Definition(
		ctx context.Context,
		formID uuid.UUID,
		unlocked *orgsDomain.UnlockedOrgKey,
	) (*formsDomain.Definition, error)

	// Submit stores a response. The respondent email is replaced by a pseudonym.
	Submit(ctx context.Context, input *formsDomain.SubmitResponseInput) (*formsDomain.Response, error)

	// Responses returns every response of a form in the clear. A single undecryptable response
	// fails the whole call.
	Responses(
		ctx context.Context,
		formID uuid.UUID,
		unlocked *orgsDomain.UnlockedOrgKey,
	) ([]*formsDomain.DecryptedResponse, error)
}
