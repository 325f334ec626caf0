package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pollsay/pollsay/internal/database"
	apperrors "github.com/pollsay/pollsay/internal/errors"
	orgsDomain "github.com/pollsay/pollsay/internal/orgs/domain"
)

// MySQLWrappedKeyRepository reads and re-writes the wrapped keys of encrypted forms and responses.
type MySQLWrappedKeyRepository struct {
	db *sql.DB
}

// NewMySQLWrappedKeyRepository creates a new MySQL wrapped key repository.
func NewMySQLWrappedKeyRepository(db *sql.DB) *MySQLWrappedKeyRepository {
	return &MySQLWrappedKeyRepository{db: db}
}

// ListByOrg returns the wrapped keys of every encrypted form and response of an organization.
func (m *MySQLWrappedKeyRepository) ListByOrg(ctx context.Context, orgID string) ([]*orgsDomain.WrappedKey, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT 'form', f.id, f.encrypted_form_key, f.key_version 
			  FROM forms f WHERE f.org_id = ? AND f.encrypted = TRUE 
			  UNION ALL 
			  SELECT 'response', r.id, r.encrypted_key, r.key_version 
			  FROM responses r JOIN forms f ON f.id = r.form_id 
			  WHERE f.org_id = ? AND r.encrypted = TRUE`

	rows, err := querier.QueryContext(ctx, query, orgID, orgID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list wrapped keys")
	}
	defer func() {
		_ = rows.Close()
	}()

	var keys []*orgsDomain.WrappedKey
	for rows.Next() {
		var key orgsDomain.WrappedKey
		var id []byte
		if err := rows.Scan(&key.Kind, &id, &key.EncryptedKey, &key.KeyVersion); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan wrapped key")
		}
		if err := key.RecordID.UnmarshalBinary(id); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal wrapped key record id")
		}
		keys = append(keys, &key)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to list wrapped keys")
	}
	return keys, nil
}

// Update stores a re-wrapped key and its new key version on the record it belongs to.
func (m *MySQLWrappedKeyRepository) Update(ctx context.Context, key *orgsDomain.WrappedKey) error {
	querier := database.GetTx(ctx, m.db)

	var query string
	switch key.Kind {
	case orgsDomain.WrappedFormKey:
		query = `UPDATE forms SET encrypted_form_key = ?, key_version = ? WHERE id = ?`
	case orgsDomain.WrappedResponseKey:
		query = `UPDATE responses SET encrypted_key = ?, key_version = ? WHERE id = ?`
	default:
		return fmt.Errorf("unknown wrapped key kind %q", key.Kind)
	}

	id, err := key.RecordID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal wrapped key record id")
	}

	if _, err := querier.ExecContext(ctx, query, key.EncryptedKey, key.KeyVersion, id); err != nil {
		return apperrors.Wrapf(err, "failed to update wrapped %s key", key.Kind)
	}
	return nil
}
