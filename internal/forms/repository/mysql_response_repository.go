package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/pollsay/pollsay/internal/database"
	apperrors "github.com/pollsay/pollsay/internal/errors"
	formsDomain "github.com/pollsay/pollsay/internal/forms/domain"
)

// MySQLResponseRepository implements response persistence for MySQL.
// Uses BINARY(16) for UUIDs with transaction support.
type MySQLResponseRepository struct {
	db *sql.DB
}

// NewMySQLResponseRepository creates a new MySQL response repository.
func NewMySQLResponseRepository(db *sql.DB) *MySQLResponseRepository {
	return &MySQLResponseRepository{db: db}
}

// Create inserts a new response.
func (m *MySQLResponseRepository) Create(ctx context.Context, response *formsDomain.Response) error {
	querier := database.GetTx(ctx, m.db)

	row, err := newResponseRow(response.Content)
	if err != nil {
		return err
	}

	id, err := response.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal response id")
	}
	formID, err := response.FormID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal form id")
	}

	query := `INSERT INTO responses (id, form_id, respondent_pseudonym, encrypted, answers, 
			  encrypted_key, key_version, payload, submitted_at) 
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		formID,
		response.RespondentPseudonym,
		row.Encrypted,
		row.Answers,
		row.EncryptedKey,
		row.KeyVersion,
		row.Payload,
		response.SubmittedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create response")
	}
	return nil
}

// ListByForm retrieves the responses of a form in submission order.
func (m *MySQLResponseRepository) ListByForm(
	ctx context.Context,
	formID uuid.UUID,
) ([]*formsDomain.Response, error) {
	querier := database.GetTx(ctx, m.db)

	binFormID, err := formID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal form id")
	}

	query := `SELECT id, form_id, respondent_pseudonym, encrypted, answers, encrypted_key, 
			  key_version, payload, submitted_at 
			  FROM responses WHERE form_id = ? ORDER BY submitted_at ASC, id ASC`

	rows, err := querier.QueryContext(ctx, query, binFormID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list responses")
	}
	defer func() {
		_ = rows.Close()
	}()

	var responses []*formsDomain.Response
	for rows.Next() {
		var response formsDomain.Response
		var row responseRow
		var rawID, rawFormID []byte
		err := rows.Scan(
			&rawID,
			&rawFormID,
			&response.RespondentPseudonym,
			&row.Encrypted,
			&row.Answers,
			&row.EncryptedKey,
			&row.KeyVersion,
			&row.Payload,
			&response.SubmittedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan response")
		}
		if err := response.ID.UnmarshalBinary(rawID); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal response id")
		}
		if err := response.FormID.UnmarshalBinary(rawFormID); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal form id")
		}
		if response.Content, err = row.content(); err != nil {
			return nil, err
		}
		responses = append(responses, &response)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate responses")
	}
	return responses, nil
}
