package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/pollsay/pollsay/internal/crypto/domain"
	"github.com/pollsay/pollsay/internal/metrics"
	profilesDomain "github.com/pollsay/pollsay/internal/profiles/domain"
	profilesMocks "github.com/pollsay/pollsay/internal/profiles/usecase/mocks"
)

type recordedOperation struct {
	domain, operation, status string
}

type recordingMetrics struct {
	operations []recordedOperation
	durations  int
}

func (r *recordingMetrics) RecordOperation(_ context.Context, domain, operation, status string) {
	r.operations = append(r.operations, recordedOperation{domain, operation, status})
}

func (r *recordingMetrics) RecordDuration(context.Context, string, string, time.Duration, string) {
	r.durations++
}

func TestProfileUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()
	next := &profilesMocks.MockProfileUseCase{}
	recorder := &recordingMetrics{}
	uc := NewProfileUseCaseWithMetrics(next, recorder)

	input := validInput()
	next.On("Register", mock.Anything, input).Return(&profilesDomain.Profile{UserID: input.UserID}, nil).Once()
	next.On("Open", mock.Anything, "user-1", "wrong").Return(nil, cryptoDomain.ErrPasswordDecrypt).Once()

	profile, err := uc.Register(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, input.UserID, profile.UserID)

	_, err = uc.Open(ctx, "user-1", "wrong")
	assert.ErrorIs(t, err, cryptoDomain.ErrPasswordDecrypt)

	assert.Equal(t, []recordedOperation{
		{"profiles", "profile_register", metrics.StatusSuccess},
		{"profiles", "profile_open", metrics.StatusUnauthorized},
	}, recorder.operations)
	assert.Equal(t, 2, recorder.durations)
	next.AssertExpectations(t)
}
