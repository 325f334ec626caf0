package usecase

import (
	"context"
	"time"

	"github.com/pollsay/pollsay/internal/metrics"
	orgsDomain "github.com/pollsay/pollsay/internal/orgs/domain"
)

// orgKeyUseCaseWithMetrics decorates OrgKeyUseCase with metrics instrumentation.
type orgKeyUseCaseWithMetrics struct {
	next    OrgKeyUseCase
	metrics metrics.BusinessMetrics
}

// NewOrgKeyUseCaseWithMetrics wraps an OrgKeyUseCase with metrics recording.
func NewOrgKeyUseCaseWithMetrics(useCase OrgKeyUseCase, m metrics.BusinessMetrics) OrgKeyUseCase {
	return &orgKeyUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (o *orgKeyUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	metrics.Observe(ctx, o.metrics, "orgs", operation, start, err)
}

// Initialize records metrics for organization key initialization.
func (o *orgKeyUseCaseWithMetrics) Initialize(
	ctx context.Context,
	input *orgsDomain.InitializeInput,
) (*orgsDomain.OrgKey, error) {
	start := time.Now()
	key, err := o.next.Initialize(ctx, input)
	o.record(ctx, "org_key_initialize", start, err)
	return key, err
}

// PublicKey records metrics for public key lookups.
func (o *orgKeyUseCaseWithMetrics) PublicKey(ctx context.Context, orgID string) (*orgsDomain.OrgKey, error) {
	start := time.Now()
	key, err := o.next.PublicKey(ctx, orgID)
	o.record(ctx, "org_key_public", start, err)
	return key, err
}

// Unlock records metrics for private key unlock attempts.
func (o *orgKeyUseCaseWithMetrics) Unlock(
	ctx context.Context,
	orgID, passphrase string,
) (*orgsDomain.UnlockedOrgKey, error) {
	start := time.Now()
	unlocked, err := o.next.Unlock(ctx, orgID, passphrase)
	o.record(ctx, "org_key_unlock", start, err)
	return unlocked, err
}

// ChangePassphrase records metrics for passphrase changes.
func (o *orgKeyUseCaseWithMetrics) ChangePassphrase(
	ctx context.Context,
	orgID, oldPassphrase, newPassphrase string,
) error {
	start := time.Now()
	err := o.next.ChangePassphrase(ctx, orgID, oldPassphrase, newPassphrase)
	o.record(ctx, "org_key_change_passphrase", start, err)
	return err
}

// Rotate records metrics for key rotations.
func (o *orgKeyUseCaseWithMetrics) Rotate(
	ctx context.Context,
	orgID, passphrase string,
) (*orgsDomain.RotateOutput, error) {
	start := time.Now()
	output, err := o.next.Rotate(ctx, orgID, passphrase)
	o.record(ctx, "org_key_rotate", start, err)
	return output, err
}

// Recover records metrics for escrow recoveries.
func (o *orgKeyUseCaseWithMetrics) Recover(ctx context.Context, orgID, newPassphrase string) error {
	start := time.Now()
	err := o.next.Recover(ctx, orgID, newPassphrase)
	o.record(ctx, "org_key_recover", start, err)
	return err
}
