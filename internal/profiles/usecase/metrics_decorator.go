package usecase

import (
	"context"
	"time"

	"github.com/pollsay/pollsay/internal/metrics"
	profilesDomain "github.com/pollsay/pollsay/internal/profiles/domain"
)

// profileUseCaseWithMetrics decorates ProfileUseCase with metrics instrumentation.
type profileUseCaseWithMetrics struct {
	next    ProfileUseCase
	metrics metrics.BusinessMetrics
}

// NewProfileUseCaseWithMetrics wraps a ProfileUseCase with metrics recording.
func NewProfileUseCaseWithMetrics(useCase ProfileUseCase, m metrics.BusinessMetrics) ProfileUseCase {
	return &profileUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Register records metrics for profile registration.
func (p *profileUseCaseWithMetrics) Register(
	ctx context.Context,
	input *profilesDomain.RegisterProfileInput,
) (*profilesDomain.Profile, error) {
	start := time.Now()
	profile, err := p.next.Register(ctx, input)

	metrics.Observe(ctx, p.metrics, "profiles", "profile_register", start, err)
	return profile, err
}

// Open records metrics for profile opening.
func (p *profileUseCaseWithMetrics) Open(
	ctx context.Context,
	userID, password string,
) (*profilesDomain.ProfileData, error) {
	start := time.Now()
	data, err := p.next.Open(ctx, userID, password)

	metrics.Observe(ctx, p.metrics, "profiles", "profile_open", start, err)
	return data, err
}
