package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	formsDomain "github.com/pollsay/pollsay/internal/forms/domain"
	"github.com/pollsay/pollsay/internal/metrics"
	orgsDomain "github.com/pollsay/pollsay/internal/orgs/domain"
)

// formUseCaseWithMetrics decorates FormUseCase with metrics instrumentation.
type formUseCaseWithMetrics struct {
	next    FormUseCase
	metrics metrics.BusinessMetrics
}

// NewFormUseCaseWithMetrics wraps a FormUseCase with metrics recording.
func NewFormUseCaseWithMetrics(useCase FormUseCase, m metrics.BusinessMetrics) FormUseCase {
	return &formUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (f *formUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	metrics.Observe(ctx, f.metrics, "forms", operation, start, err)
}

// Create records metrics for form creation.
func (f *formUseCaseWithMetrics) Create(
	ctx context.Context,
	input *formsDomain.CreateFormInput,
) (*formsDomain.Form, error) {
	start := time.Now()
	form, err := f.next.Create(ctx, input)
	f.record(ctx, "form_create", start, err)
	return form, err
}

// Get records metrics for form retrieval.
func (f *formUseCaseWithMetrics) Get(ctx context.Context, formID uuid.UUID) (*formsDomain.Form, error) {
	start := time.Now()
	form, err := f.next.Get(ctx, formID)
	f.record(ctx, "form_get", start, err)
	return form, err
}

// Definition records metrics for definition reads.
func (f *formUseCaseWithMetrics) Definition(
	ctx context.Context,
	formID uuid.UUID,
	unlocked *orgsDomain.UnlockedOrgKey,
) (*formsDomain.Definition, error) {
	start := time.Now()
	definition, err := f.next.Definition(ctx, formID, unlocked)
	f.record(ctx, "form_definition", start, err)
	return definition, err
}

// Submit records metrics for response submissions.
func (f *formUseCaseWithMetrics) Submit(
	ctx context.Context,
	input *formsDomain.SubmitResponseInput,
) (*formsDomain.Response, error) {
	start := time.Now()
	response, err := f.next.Submit(ctx, input)
	f.record(ctx, "response_submit", start, err)
	return response, err
}

// Responses records metrics for response exports.
func (f *formUseCaseWithMetrics) Responses(
	ctx context.Context,
	formID uuid.UUID,
	unlocked *orgsDomain.UnlockedOrgKey,
) ([]*formsDomain.DecryptedResponse, error) {
	start := time.Now()
	responses, err := f.next.Responses(ctx, formID, unlocked)
	f.record(ctx, "response_export", start, err)
	return responses, err
}
