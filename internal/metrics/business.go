package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	apperrors "github.com/pollsay/pollsay/internal/errors"
)

// Status labels of recorded operations. Failures are labelled by error kind so a burst of wrong
// passphrases can be told apart from storage or KMS failures.
const (
	StatusSuccess      = "success"
	StatusInvalidInput = "invalid_input"
	StatusUnauthorized = "unauthorized"
	StatusForbidden    = "forbidden"
	StatusLocked       = "locked"
	StatusNotFound     = "not_found"
	StatusConflict     = "conflict"
	StatusError        = "error"
)

var statusKinds = []struct {
	kind   error
	status string
}{
	{apperrors.ErrInvalidInput, StatusInvalidInput},
	{apperrors.ErrUnauthorized, StatusUnauthorized},
	{apperrors.ErrForbidden, StatusForbidden},
	{apperrors.ErrLocked, StatusLocked},
	{apperrors.ErrNotFound, StatusNotFound},
	{apperrors.ErrConflict, StatusConflict},
}

// durationBuckets spans a sub-millisecond AEAD seal up to a 4096-bit RSA keypair generation;
// a PBKDF2 unlock at 600k iterations lands around the middle.
var durationBuckets = []float64{0.0005, 0.001, 0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// BusinessMetrics records PollSay use case outcomes, labelled by domain ("orgs", "forms",
// "profiles"), operation ("org_key_unlock", "response_submit", ...) and status.
type BusinessMetrics interface {
	RecordOperation(ctx context.Context, domain, operation, status string)
	RecordDuration(ctx context.Context, domain, operation string, duration time.Duration, status string)
}

type otelBusinessMetrics struct {
	operations metric.Int64Counter
	durations  metric.Float64Histogram
}

// NewBusinessMetrics registers <namespace>_operations_total and
// <namespace>_operation_duration_seconds on the meter provider.
func NewBusinessMetrics(meterProvider metric.MeterProvider, namespace string) (BusinessMetrics, error) {
	meter := meterProvider.Meter(namespace)

	operations, err := meter.Int64Counter(
		namespace+"_operations_total",
		metric.WithDescription("Use case operations by domain, operation and outcome"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation counter: %w", err)
	}

	durations, err := meter.Float64Histogram(
		namespace+"_operation_duration_seconds",
		metric.WithDescription("Use case latency, dominated by key derivation and RSA work"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	return &otelBusinessMetrics{operations: operations, durations: durations}, nil
}

func operationAttributes(domain, operation, status string) metric.MeasurementOption {
	return metric.WithAttributes(
		attribute.String("domain", domain),
		attribute.String("operation", operation),
		attribute.String("status", status),
	)
}

func (b *otelBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	b.operations.Add(ctx, 1, operationAttributes(domain, operation, status))
}

func (b *otelBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	b.durations.Record(ctx, duration.Seconds(), operationAttributes(domain, operation, status))
}

// NoOpBusinessMetrics discards everything; the container uses it when metrics are disabled.
type NoOpBusinessMetrics struct{}

// NewNoOpBusinessMetrics creates a no-op BusinessMetrics implementation.
func NewNoOpBusinessMetrics() BusinessMetrics {
	return &NoOpBusinessMetrics{}
}

func (n *NoOpBusinessMetrics) RecordOperation(context.Context, string, string, string) {}

func (n *NoOpBusinessMetrics) RecordDuration(context.Context, string, string, time.Duration, string) {}

// Status returns the status label of an operation outcome.
func Status(err error) string {
	if err == nil {
		return StatusSuccess
	}
	for _, k := range statusKinds {
		if apperrors.Is(err, k.kind) {
			return k.status
		}
	}
	return StatusError
}

// Observe records one operation and its duration since start.
func Observe(ctx context.Context, m BusinessMetrics, domain, operation string, start time.Time, err error) {
	status := Status(err)
	m.RecordOperation(ctx, domain, operation, status)
	m.RecordDuration(ctx, domain, operation, time.Since(start), status)
}
