package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/pollsay/pollsay/internal/database"
	apperrors "github.com/pollsay/pollsay/internal/errors"
	formsDomain "github.com/pollsay/pollsay/internal/forms/domain"
)

// PostgreSQLResponseRepository implements response persistence for PostgreSQL.
type PostgreSQLResponseRepository struct {
	db *sql.DB
}

// NewPostgreSQLResponseRepository creates a new PostgreSQL response repository.
func NewPostgreSQLResponseRepository(db *sql.DB) *PostgreSQLResponseRepository {
	return &PostgreSQLResponseRepository{db: db}
}

// Create inserts a new response.
func (p *PostgreSQLResponseRepository) Create(ctx context.Context, response *formsDomain.Response) error {
	querier := database.GetTx(ctx, p.db)

	row, err := newResponseRow(response.Content)
	if err != nil {
		return err
	}

	query := `INSERT INTO responses (id, form_id, respondent_pseudonym, encrypted, answers, 
			  encrypted_key, key_version, payload, submitted_at) 
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = querier.ExecContext(
		ctx,
		query,
		response.ID,
		response.FormID,
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
func (p *PostgreSQLResponseRepository) ListByForm(
	ctx context.Context,
	formID uuid.UUID,
) ([]*formsDomain.Response, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, form_id, respondent_pseudonym, encrypted, answers, encrypted_key, 
			  key_version, payload, submitted_at 
			  FROM responses WHERE form_id = $1 ORDER BY submitted_at ASC, id ASC`

	rows, err := querier.QueryContext(ctx, query, formID)
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
		err := rows.Scan(
			&response.ID,
			&response.FormID,
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
