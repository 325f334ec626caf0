// Package mocks provides mock implementations of the organization key use case interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	orgsDomain "github.com/pollsay/pollsay/internal/orgs/domain"
)

// MockOrgKeyRepository is a mock implementation of OrgKeyRepository.
type MockOrgKeyRepository struct {
	mock.Mock
}

func (m *MockOrgKeyRepository) Create(ctx context.Context, key *orgsDomain.OrgKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockOrgKeyRepository) Update(ctx context.Context, key *orgsDomain.OrgKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockOrgKeyRepository) GetActive(ctx context.Context, orgID string) (*orgsDomain.OrgKey, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orgsDomain.OrgKey), args.Error(1)
}

func (m *MockOrgKeyRepository) GetActiveForUpdate(ctx context.Context, orgID string) (*orgsDomain.OrgKey, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orgsDomain.OrgKey), args.Error(1)
}

func (m *MockOrgKeyRepository) GetActiveForShare(ctx context.Context, orgID string) (*orgsDomain.OrgKey, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orgsDomain.OrgKey), args.Error(1)
}

// MockWrappedKeyRepository is a mock implementation of WrappedKeyRepository.
type MockWrappedKeyRepository struct {
	mock.Mock
}

func (m *MockWrappedKeyRepository) ListByOrg(ctx context.Context, orgID string) ([]*orgsDomain.WrappedKey, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*orgsDomain.WrappedKey), args.Error(1)
}

func (m *MockWrappedKeyRepository) Update(ctx context.Context, key *orgsDomain.WrappedKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockOrgKeyUseCase is a mock implementation of OrgKeyUseCase.
type MockOrgKeyUseCase struct {
	mock.Mock
}

func (m *MockOrgKeyUseCase) Initialize(
	ctx context.Context,
	input *orgsDomain.InitializeInput,
) (*orgsDomain.OrgKey, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orgsDomain.OrgKey), args.Error(1)
}

func (m *MockOrgKeyUseCase) PublicKey(ctx context.Context, orgID string) (*orgsDomain.OrgKey, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orgsDomain.OrgKey), args.Error(1)
}

func (m *MockOrgKeyUseCase) Unlock(
	ctx context.Context,
	orgID, passphrase string,
) (*orgsDomain.UnlockedOrgKey, error) {
	args := m.Called(ctx, orgID, passphrase)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orgsDomain.UnlockedOrgKey), args.Error(1)
}

func (m *MockOrgKeyUseCase) ChangePassphrase(ctx context.Context, orgID, oldPassphrase, newPassphrase string) error {
	args := m.Called(ctx, orgID, oldPassphrase, newPassphrase)
	return args.Error(0)
}

func (m *MockOrgKeyUseCase) Rotate(ctx context.Context, orgID, passphrase string) (*orgsDomain.RotateOutput, error) {
	args := m.Called(ctx, orgID, passphrase)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orgsDomain.RotateOutput), args.Error(1)
}

func (m *MockOrgKeyUseCase) Recover(ctx context.Context, orgID, newPassphrase string) error {
	args := m.Called(ctx, orgID, newPassphrase)
	return args.Error(0)
}
