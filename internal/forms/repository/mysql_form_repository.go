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

// MySQLFormRepository implements form persistence for MySQL.
// Uses BINARY(16) for UUIDs with transaction support.
type MySQLFormRepository struct {
	db *sql.DB
}

// NewMySQLFormRepository creates a new MySQL form repository.
func NewMySQLFormRepository(db *sql.DB) *MySQLFormRepository {
	return &MySQLFormRepository{db: db}
}

// Create inserts a new form.
func (m *MySQLFormRepository) Create(ctx context.Context, form *formsDomain.Form) error {
	querier := database.GetTx(ctx, m.db)

	row, err := newFormRow(form.Content)
	if err != nil {
		return err
	}

	id, err := form.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal form id")
	}

	query := `INSERT INTO forms (id, org_id, title, encrypted, definition, encrypted_form_key, 
			  key_version, encrypted_fields, created_at) 
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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
func (m *MySQLFormRepository) Get(ctx context.Context, formID uuid.UUID) (*formsDomain.Form, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := formID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal form id")
	}

	query := `SELECT id, org_id, title, encrypted, definition, encrypted_form_key, key_version, 
			  encrypted_fields, created_at 
			  FROM forms WHERE id = ?`

	var form formsDomain.Form
	var row formRow
	var rawID []byte
	err = querier.QueryRowContext(ctx, query, id).Scan(
		&rawID,
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

	if err := form.ID.UnmarshalBinary(rawID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal form id")
	}
	if form.Content, err = row.content(); err != nil {
		return nil, err
	}
	return &form, nil
}
