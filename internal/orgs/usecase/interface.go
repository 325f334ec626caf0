// Package usecase implements organization key management: initialization, unlocking,
// passphrase changes, rotation and KMS-escrow recovery.
package usecase

import (
	"context"

	orgsDomain "github.com/pollsay/pollsay/internal/orgs/domain"
)

// OrgKeyRepository defines the interface for organization key persistence operations.
type OrgKeyRepository interface {
	Create(ctx context.Context, key *orgsDomain.OrgKey) error
	Update(ctx context.Context, key *orgsDomain.OrgKey) error
	GetActive(ctx context.Context, orgID string) (*orgsDomain.OrgKey, error)
	// GetActiveForUpdate is GetActive with a row lock held until the surrounding transaction ends.
	GetActiveForUpdate(ctx context.Context, orgID string) (*orgsDomain.OrgKey, error)
	// GetActiveForShare is GetActive with a shared row lock, which blocks GetActiveForUpdate.
	GetActiveForShare(ctx context.Context, orgID string) (*orgsDomain.OrgKey, error)
}

// WrappedKeyRepository gives rotation access to every symmetric key wrapped under an
// organization's public key.
type WrappedKeyRepository interface {
	ListByOrg(ctx context.Context, orgID string) ([]*orgsDomain.WrappedKey, error)
	Update(ctx context.Context, key *orgsDomain.WrappedKey) error
}

// OrgKeyUseCase defines the interface for organization key business logic.
type OrgKeyUseCase interface {
	// Initialize generates the first keypair of an organization and stores the private key
	// wrapped under passphrase.
	Initialize(ctx context.Context, input *orgsDomain.InitializeInput) (*orgsDomain.OrgKey, error)

	// PublicKey returns the active key record of an organization. Only its public fields are
	// meaningful to callers.
	PublicKey(ctx context.Context, orgID string) (*orgsDomain.OrgKey, error)

	// Unlock decrypts the active private key. Attempts are rate limited per organization.
	Unlock(ctx context.Context, orgID, passphrase string) (*orgsDomain.UnlockedOrgKey, error)

	// ChangePassphrase re-wraps the active private key under a new passphrase.
	ChangePassphrase(ctx context.Context, orgID, oldPassphrase, newPassphrase string) error

	// Rotate replaces the organization keypair with a new version and re-wraps every stored
	// form and response key under it.
	Rotate(ctx context.Context, orgID, passphrase string) (*orgsDomain.RotateOutput, error)

	// Recover restores access to the active private key from its KMS escrow copy and wraps it
	// under newPassphrase.
	Recover(ctx context.Context, orgID, newPassphrase string) error
}
