package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pollsay/pollsay/internal/database"
	apperrors "github.com/pollsay/pollsay/internal/errors"
	orgsDomain "github.com/pollsay/pollsay/internal/orgs/domain"
)

// PostgreSQLWrappedKeyRepository reads and re-writes the wrapped keys stored on encrypted forms
// and encrypted responses.
type PostgreSQLWrappedKeyRepository struct {
	db *sql.DB
}

// NewPostgreSQLWrappedKeyRepository creates a new PostgreSQL wrapped key repository.
func NewPostgreSQLWrappedKeyRepository(db *sql.DB) *PostgreSQLWrappedKeyRepository {
	return &PostgreSQLWrappedKeyRepository{db: db}
}

// ListByOrg returns the wrapped keys of every encrypted form and response of an organization.
func (p *PostgreSQLWrappedKeyRepository) ListByOrg(
	ctx context.Context,
	orgID string,
) ([]*orgsDomain.WrappedKey, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT 'form', f.id, f.encrypted_form_key, f.key_version 
			  FROM forms f WHERE f.org_id = $1 AND f.encrypted = TRUE 
			  UNION ALL 
			  SELECT 'response', r.id, r.encrypted_key, r.key_version 
			  FROM responses r JOIN forms f ON f.id = r.form_id 
			  WHERE f.org_id = $1 AND r.encrypted = TRUE`

	rows, err := querier.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list wrapped keys")
	}
	defer func() {
		_ = rows.Close()
	}()

	var keys []*orgsDomain.WrappedKey
	for rows.Next() {
		var key orgsDomain.WrappedKey
		if err := rows.Scan(&key.Kind, &key.RecordID, &key.EncryptedKey, &key.KeyVersion); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan wrapped key")
		}
		keys = append(keys, &key)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to list wrapped keys")
	}
	return keys, nil
}

// Update stores a re-wrapped key and its new key version on the record it belongs to.
func (p *PostgreSQLWrappedKeyRepository) Update(ctx context.Context, key *orgsDomain.WrappedKey) error {
	querier := database.GetTx(ctx, p.db)

	var query string
	switch key.Kind {
	case orgsDomain.WrappedFormKey:
		query = `UPDATE forms SET encrypted_form_key = $1, key_version = $2 WHERE id = $3`
	case orgsDomain.WrappedResponseKey:
		query = `UPDATE responses SET encrypted_key = $1, key_version = $2 WHERE id = $3`
	default:
		return fmt.Errorf("unknown wrapped key kind %q", key.Kind)
	}

	if _, err := querier.ExecContext(ctx, query, key.EncryptedKey, key.KeyVersion, key.RecordID); err != nil {
		return apperrors.Wrapf(err, "failed to update wrapped %s key", key.Kind)
	}
	return nil
}
