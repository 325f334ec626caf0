// Package repository stores forms and responses in PostgreSQL and MySQL.
//
// Both variants of form and response content share one table each: plain columns are NULL for
// encrypted rows and encrypted columns are NULL for plain rows.
package repository

import (
	"database/sql"
	"encoding/json"

	apperrors "github.com/pollsay/pollsay/internal/errors"
	formsDomain "github.com/pollsay/pollsay/internal/forms/domain"
)

// formRow holds the content columns of a forms row.
type formRow struct {
	Encrypted        bool
	Definition       sql.NullString
	EncryptedFormKey sql.NullString
	KeyVersion       sql.NullInt64
	EncryptedFields  sql.NullString
}

func newFormRow(content formsDomain.Content) (*formRow, error) {
	switch c := content.(type) {
	case formsDomain.PlainContent:
		definition, err := json.Marshal(c.Definition)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to marshal form definition")
		}
		return &formRow{Definition: sql.NullString{String: string(definition), Valid: true}}, nil
	case formsDomain.EncryptedContent:
		return &formRow{
			Encrypted:        true,
			EncryptedFormKey: sql.NullString{String: c.EncryptedFormKey, Valid: true},
			KeyVersion:       sql.NullInt64{Int64: int64(c.KeyVersion), Valid: true},
			EncryptedFields:  sql.NullString{String: c.EncryptedFields, Valid: true},
		}, nil
	default:
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "unknown form content %T", content)
	}
}

func (r *formRow) content() (formsDomain.Content, error) {
	if r.Encrypted {
		return formsDomain.EncryptedContent{
			EncryptedFormKey: r.EncryptedFormKey.String,
			KeyVersion:       uint(r.KeyVersion.Int64),
			EncryptedFields:  r.EncryptedFields.String,
		}, nil
	}

	var definition formsDomain.Definition
	if err := json.Unmarshal([]byte(r.Definition.String), &definition); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal form definition")
	}
	return formsDomain.PlainContent{Definition: definition}, nil
}

// responseRow holds the content columns of a responses row.
type responseRow struct {
	Encrypted    bool
	Answers      sql.NullString
	EncryptedKey sql.NullString
	KeyVersion   sql.NullInt64
	Payload      sql.NullString
}

func newResponseRow(content formsDomain.ResponseContent) (*responseRow, error) {
	switch c := content.(type) {
	case formsDomain.PlainAnswers:
		answers, err := json.Marshal(c.Answers)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to marshal answers")
		}
		return &responseRow{Answers: sql.NullString{String: string(answers), Valid: true}}, nil
	case formsDomain.EncryptedAnswers:
		return &responseRow{
			Encrypted:    true,
			EncryptedKey: sql.NullString{String: c.EncryptedKey, Valid: true},
			KeyVersion:   sql.NullInt64{Int64: int64(c.KeyVersion), Valid: true},
			Payload:      sql.NullString{String: c.Payload, Valid: true},
		}, nil
	default:
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "unknown response content %T", content)
	}
}

func (r *responseRow) content() (formsDomain.ResponseContent, error) {
	if r.Encrypted {
		return formsDomain.EncryptedAnswers{
			EncryptedKey: r.EncryptedKey.String,
			KeyVersion:   uint(r.KeyVersion.Int64),
			Payload:      r.Payload.String,
		}, nil
	}

	var answers formsDomain.Answers
	if err := json.Unmarshal([]byte(r.Answers.String), &answers); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal answers")
	}
	return formsDomain.PlainAnswers{Answers: answers}, nil
}
