// Package mocks provides mock implementations of the form use case interfaces.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	formsDomain "github.com/pollsay/pollsay/internal/forms/domain"
	orgsDomain "github.com/pollsay/pollsay/internal/orgs/domain"
)

// MockFormRepository is a mock implementation of FormRepository.
type MockFormRepository struct {
	mock.Mock
}

func (m *MockFormRepository) Create(ctx context.Context, form *formsDomain.Form) error {
	args := m.Called(ctx, form)
	return args.Error(0)
}

func (m *MockFormRepository) Get(ctx context.Context, formID uuid.UUID) (*formsDomain.Form, error) {
	args := m.Called(ctx, formID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*formsDomain.Form), args.Error(1)
}

// MockResponseRepository is a mock implementation of ResponseRepository.
type MockResponseRepository struct {
	mock.Mock
}

func (m *MockResponseRepository) Create(ctx context.Context, response *formsDomain.Response) error {
	args := m.Called(ctx, response)
	return args.Error(0)
}

func (m *MockResponseRepository) ListByForm(
	ctx context.Context,
	formID uuid.UUID,
) ([]*formsDomain.Response, error) {
	args := m.Called(ctx, formID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*formsDomain.Response), args.Error(1)
}

// MockActiveKeyLocker is a mock implementation of ActiveKeyLocker.
type MockActiveKeyLocker struct {
	mock.Mock
}

func (m *MockActiveKeyLocker) GetActiveForShare(ctx context.Context, orgID string) (*orgsDomain.OrgKey, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orgsDomain.OrgKey), args.Error(1)
}

// MockFormUseCase is a mock implementation of FormUseCase.
type MockFormUseCase struct {
	mock.Mock
}

func (m *MockFormUseCase) Create(
	ctx context.Context,
	input *formsDomain.CreateFormInput,
) (*formsDomain.Form, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*formsDomain.Form), args.Error(1)
}

func (m *MockFormUseCase) Get(ctx context.Context, formID uuid.UUID) (*formsDomain.Form, error) {
	args := m.Called(ctx, formID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*formsDomain.Form), args.Error(1)
}

func (m *MockFormUseCase) Definition(
	ctx context.Context,
	formID uuid.UUID,
	unlocked *orgsDomain.UnlockedOrgKey,
) (*formsDomain.Definition, error) {
	args := m.Called(ctx, formID, unlocked)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*formsDomain.Definition), args.Error(1)
}

func (m *MockFormUseCase) Submit(
	ctx context.Context,
	input *formsDomain.SubmitResponseInput,
) (*formsDomain.Response, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*formsDomain.Response), args.Error(1)
}

func (m *MockFormUseCase) Responses(
	ctx context.Context,
	formID uuid.UUID,
	unlocked *orgsDomain.UnlockedOrgKey,
) ([]*formsDomain.DecryptedResponse, error) {
	args := m.Called(ctx, formID, unlocked)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*formsDomain.DecryptedResponse), args.Error(1)
}
