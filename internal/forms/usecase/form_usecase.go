package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"
	"golang.org/x/sync/errgroup"

	cryptoService "github.com/pollsay/pollsay/internal/crypto/service"
	"github.com/pollsay/pollsay/internal/database"
	apperrors "github.com/pollsay/pollsay/internal/errors"
	formsDomain "github.com/pollsay/pollsay/internal/forms/domain"
	orgsDomain "github.com/pollsay/pollsay/internal/orgs/domain"
	appValidation "github.com/pollsay/pollsay/internal/validation"
)

// formUseCase implements FormUseCase.
type formUseCase struct {
	txManager    database.TxManager
	formRepo     FormRepository
	responseRepo ResponseRepository
	orgKeys      ActiveKeyLocker
	encryption   cryptoService.EncryptionService
	concurrency  int
}

// NewFormUseCase creates a new FormUseCase.
func NewFormUseCase(
	txManager database.TxManager,
	formRepo FormRepository,
	responseRepo ResponseRepository,
	orgKeys ActiveKeyLocker,
	encryption cryptoService.EncryptionService,
	concurrency int,
) FormUseCase {
	if concurrency < 1 {
		concurrency = 1
	}
	return &formUseCase{
		txManager:    txManager,
		formRepo:     formRepo,
		responseRepo: responseRepo,
		orgKeys:      orgKeys,
		encryption:   encryption,
		concurrency:  concurrency,
	}
}

func fieldTypeNames() []string {
	names := make([]string, len(formsDomain.FieldTypes))
	for i, t := range formsDomain.FieldTypes {
		names[i] = string(t)
	}
	return names
}

func validateField(value any) error {
	field, ok := value.(formsDomain.Field)
	if !ok {
		return validation.NewError("validation_field_type", "must be a form field")
	}
	return validation.ValidateStruct(&field,
		validation.Field(&field.Question,
			validation.Required.Error("question is required"),
			appValidation.NotBlank,
			validation.Length(1, 500),
		),
		validation.Field(&field.Type,
			validation.Required.Error("type is required"),
			appValidation.OneOf(fieldTypeNames()...),
		),
		validation.Field(&field.Options,
			validation.When(field.Type.HasOptions(), validation.Required.Error("options are required")),
			validation.When(!field.Type.HasOptions(), validation.Empty.Error("options are only allowed on choice fields")),
			validation.Each(validation.Required, appValidation.NotBlank),
		),
	)
}

func uniqueQuestions(value any) error {
	fields, _ := value.([]formsDomain.Field)
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, dup := seen[f.Question]; dup {
			return validation.NewError("validation_duplicate_question", "duplicate question "+f.Question)
		}
		seen[f.Question] = struct{}{}
	}
	return nil
}

func (f *formUseCase) Create(
	ctx context.Context,
	input *formsDomain.CreateFormInput,
) (*formsDomain.Form, error) {
	err := validation.ValidateStruct(input,
		validation.Field(&input.OrgID,
			validation.Required.Error("org id is required"),
			appValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&input.Title,
			validation.Required.Error("title is required"),
			appValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&input.Fields,
			validation.Required.Error("at least one field is required"),
			validation.Each(validation.By(validateField)),
			validation.By(uniqueQuestions),
		),
	)
	if err != nil {
		return nil, appValidation.WrapValidationError(err)
	}

	definition := formsDomain.Definition{Fields: input.Fields}
	form := &formsDomain.Form{
		ID:        uuid.Must(uuid.NewV7()),
		OrgID:     input.OrgID,
		Title:     input.Title,
		Content:   formsDomain.PlainContent{Definition: definition},
		CreatedAt: time.Now().UTC(),
	}

	err = f.txManager.WithTx(ctx, func(ctx context.Context) error {
		if input.Encrypted {
			content, err := f.encryptDefinition(ctx, input.OrgID, definition)
			if err != nil {
				return err
			}
			form.Content = *content
		}
		return f.formRepo.Create(ctx, form)
	})
	if err != nil {
		return nil, err
	}
	return form, nil
}

// encryptDefinition generates the form key, encrypts the definition with it and wraps it under
// the organization's active public key. It must run in the transaction that stores the form.
func (f *formUseCase) encryptDefinition(
	ctx context.Context,
	orgID string,
	definition formsDomain.Definition,
) (*formsDomain.EncryptedContent, error) {
	orgKey, err := f.orgKeys.GetActiveForShare(ctx, orgID)
	if err != nil {
		return nil, err
	}

	formKey, err := f.encryption.GenerateFormKey()
	if err != nil {
		return nil, err
	}
	defer formKey.Close()

	encryptedFields, err := f.encryption.EncryptFormData(definition, formKey.Exported)
	if err != nil {
		return nil, err
	}

	encryptedFormKey, err := f.encryption.EncryptFormKey(formKey.Exported, orgKey.PublicKey)
	if err != nil {
		return nil, err
	}

	return &formsDomain.EncryptedContent{
		EncryptedFormKey: encryptedFormKey,
		KeyVersion:       orgKey.Version,
		EncryptedFields:  encryptedFields,
	}, nil
}

func (f *formUseCase) Get(ctx context.Context, formID uuid.UUID) (*formsDomain.Form, error) {
	return f.formRepo.Get(ctx, formID)
}

func (f *formUseCase) Definition(
	ctx context.Context,
	formID uuid.UUID,
	unlocked *orgsDomain.UnlockedOrgKey,
) (*formsDomain.Definition, error) {
	form, err := f.formRepo.Get(ctx, formID)
	if err != nil {
		return nil, err
	}

	switch content := form.Content.(type) {
	case formsDomain.PlainContent:
		return &content.Definition, nil
	case formsDomain.EncryptedContent:
		if err := checkUnlocked(form.OrgID, content.KeyVersion, unlocked); err != nil {
			return nil, err
		}

		formKey, err := f.encryption.DecryptFormKey(content.EncryptedFormKey, unlocked.PrivateKey)
		if err != nil {
			return nil, err
		}

		var definition formsDomain.Definition
		if err := f.encryption.DecryptFormData(content.EncryptedFields, formKey, &definition); err != nil {
			return nil, err
		}
		return &definition, nil
	default:
		return nil, apperrors.Wrapf(apperrors.ErrInternal, "form %s has unknown content %T", form.ID, content)
	}
}

// checkUnlocked verifies an unlocked key can open records of orgID wrapped under keyVersion.
func checkUnlocked(orgID string, keyVersion uint, unlocked *orgsDomain.UnlockedOrgKey) error {
	if unlocked == nil {
		return formsDomain.ErrOrgKeyRequired
	}
	if unlocked.OrgID != orgID {
		return formsDomain.ErrWrongOrganization
	}
	if unlocked.Version != keyVersion {
		return apperrors.Wrapf(
			orgsDomain.ErrKeyVersionMismatch,
			"record wrapped under version %d, unlocked version %d", keyVersion, unlocked.Version,
		)
	}
	return nil
}

func (f *formUseCase) Submit(
	ctx context.Context,
	input *formsDomain.SubmitResponseInput,
) (*formsDomain.Response, error) {
	err := validation.ValidateStruct(input,
		validation.Field(&input.FormID, validation.Required.Error("form id is required")),
		validation.Field(&input.RespondentEmail,
			validation.Required.Error("respondent email is required"),
			appValidation.Email,
		),
		validation.Field(&input.Answers, validation.Required.Error("answers are required")),
	)
	if err != nil {
		return nil, appValidation.WrapValidationError(err)
	}

	var response *formsDomain.Response
	err = f.txManager.WithTx(ctx, func(ctx context.Context) error {
		form, err := f.formRepo.Get(ctx, input.FormID)
		if err != nil {
			return err
		}

		response = &formsDomain.Response{
			ID:                  uuid.Must(uuid.NewV7()),
			FormID:              form.ID,
			RespondentPseudonym: f.encryption.GeneratePseudonym(input.RespondentEmail, form.OrgID),
			SubmittedAt:         time.Now().UTC(),
		}

		switch content := form.Content.(type) {
		case formsDomain.PlainContent:
			if err := checkAnswers(content.Definition, input.Answers); err != nil {
				return err
			}
			response.Content = formsDomain.PlainAnswers{Answers: input.Answers}
		case formsDomain.EncryptedContent:
			orgKey, err := f.orgKeys.GetActiveForShare(ctx, form.OrgID)
			if err != nil {
				return err
			}
			// Re-read under the lock: a rotation that finished while we waited re-wrapped the form.
			form, err = f.formRepo.Get(ctx, input.FormID)
			if err != nil {
				return err
			}
			encrypted, err := f.encryptAnswers(orgKey, form, input.Answers)
			if err != nil {
				return err
			}
			response.Content = *encrypted
		default:
			return apperrors.Wrapf(apperrors.ErrInternal, "form %s has unknown content %T", form.ID, content)
		}

		return f.responseRepo.Create(ctx, response)
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// checkAnswers verifies every answer names a field and every required field is answered.
func checkAnswers(definition formsDomain.Definition, answers formsDomain.Answers) error {
	known := make(map[string]formsDomain.Field, len(definition.Fields))
	for _, field := range definition.Fields {
		known[field.Question] = field
		if field.Required && answers[field.Question] == nil {
			return apperrors.Wrapf(formsDomain.ErrInvalidAnswers, "%q is required", field.Question)
		}
	}
	for question := range answers {
		if _, ok := known[question]; !ok {
			return apperrors.Wrapf(formsDomain.ErrInvalidAnswers, "unknown question %q", question)
		}
	}
	return nil
}

// encryptAnswers seals answers under a fresh key wrapped under the locked organization key.
// Respondents never hold the organization private key, so they cannot use the form key.
func (f *formUseCase) encryptAnswers(
	orgKey *orgsDomain.OrgKey,
	form *formsDomain.Form,
	answers formsDomain.Answers,
) (*formsDomain.EncryptedAnswers, error) {
	content, ok := form.Content.(formsDomain.EncryptedContent)
	if !ok {
		return nil, apperrors.Wrapf(apperrors.ErrInternal, "form %s is no longer encrypted", form.ID)
	}
	if orgKey.Version != content.KeyVersion {
		return nil, apperrors.Wrapf(
			orgsDomain.ErrKeyVersionMismatch,
			"form wrapped under version %d, active version %d", content.KeyVersion, orgKey.Version,
		)
	}

	responseKey, err := f.encryption.GenerateFormKey()
	if err != nil {
		return nil, err
	}
	defer responseKey.Close()

	payload, err := f.encryption.EncryptFormData(answers, responseKey.Exported)
	if err != nil {
		return nil, err
	}

	encryptedKey, err := f.encryption.EncryptFormKey(responseKey.Exported, orgKey.PublicKey)
	if err != nil {
		return nil, err
	}

	return &formsDomain.EncryptedAnswers{
		EncryptedKey: encryptedKey,
		KeyVersion:   orgKey.Version,
		Payload:      payload,
	}, nil
}

func (f *formUseCase) Responses(
	ctx context.Context,
	formID uuid.UUID,
	unlocked *orgsDomain.UnlockedOrgKey,
) ([]*formsDomain.DecryptedResponse, error) {
	form, err := f.formRepo.Get(ctx, formID)
	if err != nil {
		return nil, err
	}

	responses, err := f.responseRepo.ListByForm(ctx, formID)
	if err != nil {
		return nil, err
	}

	decrypted := make([]*formsDomain.DecryptedResponse, len(responses))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)

	for i, response := range responses {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			answers, err := f.openAnswers(form.OrgID, response, unlocked)
			if err != nil {
				return apperrors.Wrapf(err, "response %s", response.ID)
			}
			decrypted[i] = &formsDomain.DecryptedResponse{
				ID:                  response.ID,
				FormID:              response.FormID,
				RespondentPseudonym: response.RespondentPseudonym,
				Answers:             answers,
				SubmittedAt:         response.SubmittedAt,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return decrypted, nil
}

func (f *formUseCase) openAnswers(
	orgID string,
	response *formsDomain.Response,
	unlocked *orgsDomain.UnlockedOrgKey,
) (formsDomain.Answers, error) {
	switch content := response.Content.(type) {
	case formsDomain.PlainAnswers:
		return content.Answers, nil
	case formsDomain.EncryptedAnswers:
		if err := checkUnlocked(orgID, content.KeyVersion, unlocked); err != nil {
			return nil, err
		}

		responseKey, err := f.encryption.DecryptFormKey(content.EncryptedKey, unlocked.PrivateKey)
		if err != nil {
			return nil, err
		}

		var answers formsDomain.Answers
		if err := f.encryption.DecryptFormData(content.Payload, responseKey, &answers); err != nil {
			return nil, err
		}
		return answers, nil
	default:
		return nil, apperrors.Wrapf(apperrors.ErrInternal, "unknown response content %T", content)
	}
}
