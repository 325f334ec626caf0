// Package mocks provides mock implementations of the profile use case interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	profilesDomain "github.com/pollsay/pollsay/internal/profiles/domain"
)

// MockProfileRepository is a mock implementation of ProfileRepository.
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Create(ctx context.Context, profile *profilesDomain.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) Get(ctx context.Context, userID string) (*profilesDomain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profilesDomain.Profile), args.Error(1)
}

// MockPasswordService is a mock implementation of PasswordService.
type MockPasswordService struct {
	mock.Mock
}

func (m *MockPasswordService) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordService) Compare(password, hashed string) bool {
	args := m.Called(password, hashed)
	return args.Bool(0)
}

// MockProfileUseCase is a mock implementation of ProfileUseCase.
type MockProfileUseCase struct {
	mock.Mock
}

func (m *MockProfileUseCase) Register(
	ctx context.Context,
	input *profilesDomain.RegisterProfileInput,
) (*profilesDomain.Profile, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profilesDomain.Profile), args.Error(1)
}

func (m *MockProfileUseCase) Open(
	ctx context.Context,
	userID, password string,
) (*profilesDomain.ProfileData, error) {
	args := m.Called(ctx, userID, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profilesDomain.ProfileData), args.Error(1)
}
