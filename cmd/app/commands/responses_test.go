package commands

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	formsDomain "github.com/pollsay/pollsay/internal/forms/domain"
	formsMocks "github.com/pollsay/pollsay/internal/forms/usecase/mocks"
	orgsDomain "github.com/pollsay/pollsay/internal/orgs/domain"
	orgsMocks "github.com/pollsay/pollsay/internal/orgs/usecase/mocks"
)

func TestRunSubmitResponse(t *testing.T) {
	ctx := context.Background()
	formID := uuid.Must(uuid.NewV7())
	input := &formsDomain.SubmitResponseInput{
		FormID:          formID,
		RespondentEmail: "alice@example.com",
		Answers:         formsDomain.Answers{"Name": "Alice", "Color": "blue"},
	}
	response := &formsDomain.Response{
		ID:                  uuid.Must(uuid.NewV7()),
		FormID:              formID,
		RespondentPseudonym: "CalmOtter#a1b2c3",
		Content:             formsDomain.EncryptedAnswers{KeyVersion: 1},
		SubmittedAt:         time.Now().UTC(),
	}

	t.Run("answers-from-input", func(t *testing.T) {
		mockUseCase := &formsMocks.MockFormUseCase{}
		mockUseCase.On("Submit", ctx, input).Return(response, nil)

		streams, out, _ := newTestIO(`{"Name":"Alice","Color":"blue"}`)
		err := RunSubmitResponse(
			ctx, mockUseCase, newTestLogger(), streams, formID.String(), "alice@example.com", "", "text",
		)
		require.NoError(t, err)
		assert.Contains(t, out.String(), "Respondent:  CalmOtter#a1b2c3")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("json-output", func(t *testing.T) {
		mockUseCase := &formsMocks.MockFormUseCase{}
		mockUseCase.On("Submit", ctx, input).Return(response, nil)

		streams, out, _ := newTestIO("")
		err := RunSubmitResponse(
			ctx, mockUseCase, newTestLogger(), streams, formID.String(), "alice@example.com",
			`{"Name":"Alice","Color":"blue"}`, "json",
		)
		require.NoError(t, err)

		var result map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &result))
		assert.Equal(t, response.ID.String(), result["id"])
		assert.Equal(t, true, result["encrypted"])
	})

	t.Run("invalid-answers", func(t *testing.T) {
		mockUseCase := &formsMocks.MockFormUseCase{}
		mockUseCase.On("Submit", ctx, input).Return(nil, formsDomain.ErrInvalidAnswers)

		streams, _, _ := newTestIO(`{"Name":"Alice","Color":"blue"}`)
		err := RunSubmitResponse(
			ctx, mockUseCase, newTestLogger(), streams, formID.String(), "alice@example.com", "", "text",
		)
		require.ErrorIs(t, err, formsDomain.ErrInvalidAnswers)
	})
}

func TestRunExportResponses(t *testing.T) {
	ctx := context.Background()
	formID := uuid.Must(uuid.NewV7())
	submittedAt := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	responseID := uuid.Must(uuid.NewV7())
	decrypted := []*formsDomain.DecryptedResponse{
		{
			ID:                  responseID,
			FormID:              formID,
			RespondentPseudonym: "CalmOtter#a1b2c3",
			Answers:             formsDomain.Answers{"Name": "Alice", "Color": "blue"},
			SubmittedAt:         submittedAt,
		},
	}

	t.Run("encrypted-form", func(t *testing.T) {
		unlocked := &orgsDomain.UnlockedOrgKey{OrgID: "org1", Version: 2}
		formUseCase := &formsMocks.MockFormUseCase{}
		formUseCase.On("Get", ctx, formID).Return(encryptedTestForm(formID), nil)
		formUseCase.On("Responses", ctx, formID, unlocked).Return(decrypted, nil)
		orgUseCase := &orgsMocks.MockOrgKeyUseCase{}
		orgUseCase.On("Unlock", ctx, "org1", "correct horse battery").Return(unlocked, nil)

		streams, out, _ := newTestIO("")
		err := RunExportResponses(
			ctx, formUseCase, orgUseCase, newTestLogger(), streams, formID.String(), "correct horse battery", "text",
		)
		require.NoError(t, err)
		assert.Equal(t,
			"2026-03-01 10:30:00  CalmOtter#a1b2c3  "+responseID.String()+"\n  Color: blue\n  Name: Alice\n",
			out.String(),
		)
		formUseCase.AssertExpectations(t)
		orgUseCase.AssertExpectations(t)
	})

	t.Run("plain-form-empty-json", func(t *testing.T) {
		formUseCase := &formsMocks.MockFormUseCase{}
		formUseCase.On("Get", ctx, formID).Return(&formsDomain.Form{
			ID:      formID,
			OrgID:   "org1",
			Content: formsDomain.PlainContent{},
		}, nil)
		formUseCase.On("Responses", ctx, formID, (*orgsDomain.UnlockedOrgKey)(nil)).
			Return([]*formsDomain.DecryptedResponse(nil), nil)
		orgUseCase := &orgsMocks.MockOrgKeyUseCase{}

		streams, out, _ := newTestIO("")
		err := RunExportResponses(ctx, formUseCase, orgUseCase, newTestLogger(), streams, formID.String(), "", "json")
		require.NoError(t, err)
		assert.Equal(t, "[]\n", out.String())
	})

	t.Run("form-not-found", func(t *testing.T) {
		formUseCase := &formsMocks.MockFormUseCase{}
		formUseCase.On("Get", ctx, formID).Return(nil, formsDomain.ErrFormNotFound)
		orgUseCase := &orgsMocks.MockOrgKeyUseCase{}

		streams, _, _ := newTestIO("")
		err := RunExportResponses(ctx, formUseCase, orgUseCase, newTestLogger(), streams, formID.String(), "", "json")
		require.ErrorIs(t, err, formsDomain.ErrFormNotFound)
	})
}
