package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	formsDomain "github.com/pollsay/pollsay/internal/forms/domain"
	formsUseCase "github.com/pollsay/pollsay/internal/forms/usecase"
	orgsUseCase "github.com/pollsay/pollsay/internal/orgs/usecase"
)

// RunSubmitResponse stores a response to a form. answersJSON is a JSON object keyed by question;
// when empty the object is read from the command input.
func RunSubmitResponse(
	ctx context.Context,
	formUseCase formsUseCase.FormUseCase,
	logger *slog.Logger,
	streams IOTuple,
	formID string,
	email string,
	answersJSON string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	id, err := parseFormID(formID)
	if err != nil {
		return err
	}

	data, err := readInput(streams.Reader, answersJSON)
	if err != nil {
		return err
	}

	var answers formsDomain.Answers
	if err := json.Unmarshal(data, &answers); err != nil {
		return fmt.Errorf("failed to parse answers JSON: %w", err)
	}

	response, err := formUseCase.Submit(ctx, &formsDomain.SubmitResponseInput{
		FormID:          id,
		RespondentEmail: email,
		Answers:         answers,
	})
	if err != nil {
		return fmt.Errorf("failed to submit response: %w", err)
	}

	logger.Info("response submitted",
		slog.String("form_id", id.String()),
		slog.String("response_id", response.ID.String()),
		slog.Bool("encrypted", response.Encrypted()),
	)

	if format == "json" {
		return writeJSON(streams.Writer, map[string]any{
			"id":           response.ID,
			"form_id":      response.FormID,
			"respondent":   response.RespondentPseudonym,
			"encrypted":    response.Encrypted(),
			"submitted_at": response.SubmittedAt,
		})
	}

	_, _ = fmt.Fprintf(streams.Writer, "Response ID: %s\n", response.ID)
	_, _ = fmt.Fprintf(streams.Writer, "Respondent:  %s\n", response.RespondentPseudonym)
	return nil
}

// RunExportResponses prints every response of a form in the clear, unlocking the organization
// key first when the form is encrypted.
func RunExportResponses(
	ctx context.Context,
	formUseCase formsUseCase.FormUseCase,
	orgKeyUseCase orgsUseCase.OrgKeyUseCase,
	logger *slog.Logger,
	streams IOTuple,
	formID string,
	passphrase string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	id, err := parseFormID(formID)
	if err != nil {
		return err
	}

	unlocked, err := unlockForForm(ctx, formUseCase, orgKeyUseCase, streams, id, passphrase)
	if err != nil {
		return err
	}

	responses, err := formUseCase.Responses(ctx, id, unlocked)
	if err != nil {
		return fmt.Errorf("failed to export responses: %w", err)
	}

	logger.Info("responses exported",
		slog.String("form_id", id.String()),
		slog.Int("count", len(responses)),
	)

	if format == "json" {
		if responses == nil {
			responses = []*formsDomain.DecryptedResponse{}
		}
		return writeJSON(streams.Writer, responses)
	}

	for _, response := range responses {
		_, _ = fmt.Fprintf(streams.Writer, "%s  %s  %s\n",
			response.SubmittedAt.Format("2006-01-02 15:04:05"), response.RespondentPseudonym, response.ID)

		questions := make([]string, 0, len(response.Answers))
		for question := range response.Answers {
			questions = append(questions, question)
		}
		sort.Strings(questions)
		for _, question := range questions {
			_, _ = fmt.Fprintf(streams.Writer, "  %s: %v\n", question, response.Answers[question])
		}
	}
	return nil
}
