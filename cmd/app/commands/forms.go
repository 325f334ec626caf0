package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	formsDomain "github.com/pollsay/pollsay/internal/forms/domain"
	formsUseCase "github.com/pollsay/pollsay/internal/forms/usecase"
	orgsDomain "github.com/pollsay/pollsay/internal/orgs/domain"
	orgsUseCase "github.com/pollsay/pollsay/internal/orgs/usecase"
)

type formOutput struct {
	ID         uuid.UUID `json:"id"`
	OrgID      string    `json:"org_id"`
	Title      string    `json:"title"`
	Encrypted  bool      `json:"encrypted"`
	KeyVersion uint      `json:"key_version,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func outputForm(w io.Writer, form *formsDomain.Form, format string) error {
	out := formOutput{
		ID:        form.ID,
		OrgID:     form.OrgID,
		Title:     form.Title,
		Encrypted: form.Encrypted(),
		CreatedAt: form.CreatedAt,
	}
	if content, ok := form.Content.(formsDomain.EncryptedContent); ok {
		out.KeyVersion = content.KeyVersion
	}

	if format == "json" {
		return writeJSON(w, out)
	}

	_, _ = fmt.Fprintf(w, "Form ID:      %s\n", out.ID)
	_, _ = fmt.Fprintf(w, "Organization: %s\n", out.OrgID)
	_, _ = fmt.Fprintf(w, "Title:        %s\n", out.Title)
	_, _ = fmt.Fprintf(w, "Encrypted:    %t\n", out.Encrypted)
	if out.Encrypted {
		_, _ = fmt.Fprintf(w, "Key version:  %d\n", out.KeyVersion)
	}
	return nil
}

func parseFormID(formID string) (uuid.UUID, error) {
	id, err := uuid.Parse(formID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid form id %q: %w", formID, err)
	}
	return id, nil
}

// unlockForForm unlocks the organization key of an encrypted form. Plain forms need no key and
// yield nil without prompting.
func unlockForForm(
	ctx context.Context,
	formUseCase formsUseCase.FormUseCase,
	orgKeyUseCase orgsUseCase.OrgKeyUseCase,
	streams IOTuple,
	formID uuid.UUID,
	passphrase string,
) (*orgsDomain.UnlockedOrgKey, error) {
	form, err := formUseCase.Get(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("failed to get form: %w", err)
	}
	if !form.Encrypted() {
		return nil, nil
	}
	return unlockOrgKey(ctx, orgKeyUseCase, streams, form.OrgID, passphrase)
}

// RunCreateForm creates a form. fieldsJSON is a JSON array of fields; when empty the array is
// read from the command input.
func RunCreateForm(
	ctx context.Context,
	formUseCase formsUseCase.FormUseCase,
	logger *slog.Logger,
	streams IOTuple,
	orgID string,
	title string,
	fieldsJSON string,
	encrypted bool,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	data, err := readInput(streams.Reader, fieldsJSON)
	if err != nil {
		return err
	}

	var fields []formsDomain.Field
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("failed to parse fields JSON: %w", err)
	}

	form, err := formUseCase.Create(ctx, &formsDomain.CreateFormInput{
		OrgID:     orgID,
		Title:     title,
		Fields:    fields,
		Encrypted: encrypted,
	})
	if err != nil {
		return fmt.Errorf("failed to create form: %w", err)
	}

	logger.Info("form created",
		slog.String("form_id", form.ID.String()),
		slog.String("org_id", form.OrgID),
		slog.Bool("encrypted", form.Encrypted()),
	)
	return outputForm(streams.Writer, form, format)
}

// RunShowForm prints the stored metadata of a form.
func RunShowForm(
	ctx context.Context,
	formUseCase formsUseCase.FormUseCase,
	writer io.Writer,
	formID string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	id, err := parseFormID(formID)
	if err != nil {
		return err
	}

	form, err := formUseCase.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get form: %w", err)
	}
	return outputForm(writer, form, format)
}

// RunShowDefinition prints the field definition of a form, unlocking the organization key first
// when the form is encrypted.
func RunShowDefinition(
	ctx context.Context,
	formUseCase formsUseCase.FormUseCase,
	orgKeyUseCase orgsUseCase.OrgKeyUseCase,
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

	definition, err := formUseCase.Definition(ctx, id, unlocked)
	if err != nil {
		return fmt.Errorf("failed to get form definition: %w", err)
	}

	if format == "json" {
		return writeJSON(streams.Writer, definition)
	}

	for i, field := range definition.Fields {
		required := ""
		if field.Required {
			required = " (required)"
		}
		_, _ = fmt.Fprintf(streams.Writer, "%d. [%s] %s%s\n", i+1, field.Type, field.Question, required)
		if len(field.Options) > 0 {
			_, _ = fmt.Fprintf(streams.Writer, "   options: %s\n", strings.Join(field.Options, ", "))
		}
	}
	return nil
}
