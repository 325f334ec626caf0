package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/pollsay/pollsay/internal/database"
	apperrors "github.com/pollsay/pollsay/internal/errors"
	formsDomain "github.com/pollsay/pollsay/internal/forms/domain"
)

// PostgreSQLFormRepository implements form persistence for PostgreSQL.
type PostgreSQLFormRepository struct {
	db *sql.DB
}

// NewPostgreSQLFormRepository creates a new PostgreSQL form repository.
func NewPostgreSQLFormRepository(db *sql.DB) *PostgreSQLFormRepository {
	return &PostgreSQLFormRepository{db: db}
}

// Create inserts a new form.
func (p *PostgreSQLFormRepository) Create(ctx context.Context, form *formsDomain.Form) error {
	querier := database.GetTx(ctx, p.db)

	row, err := newFormRow(form.Content)
	if err != nil {
		return err
	}

	query := `INSERT INTO forms (id, org_id, title, encrypted, definition, encrypted_form_key, 
			  key_version, encrypted_fields, created_at) 
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = querier.ExecContext(
		ctx,
		query,
		form.ID,
		form.OrgID,
		form.Title,
		row.Encrypted,
		row.Definition,
		row.EncryptedFormKey,
		row.KeyVersion,
		row.EncryptedFields,
		form.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create form")
	}
	return nil
}

// Get retrieves a form by ID.
func (p *PostgreSQLFormRepository) Get(ctx context.Context, formID uuid.UUID) (*formsDomain.Form, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, org_id, title, encrypted, definition, encrypted_form_key, key_version, 
			  encrypted_fields, created_at 
			  FROM forms WHERE id = $1`

	var form formsDomain.Form
	var row formRow
	err := querier.QueryRowContext(ctx, query, formID).Scan(
		&form.ID,
		&form.OrgID,
		&form.Title,
		&row.Encrypted,
		&row.Definition,
		&row.EncryptedFormKey,
		&row.KeyVersion,
		&row.EncryptedFields,
		&form.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, formsDomain.ErrFormNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get form")
	}

	if form.Content, err = row.content(); err != nil {
		return nil, err
	}
	return &form, nil
}
