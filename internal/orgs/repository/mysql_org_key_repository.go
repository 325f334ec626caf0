package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pollsay/pollsay/internal/database"
	apperrors "github.com/pollsay/pollsay/internal/errors"
	orgsDomain "github.com/pollsay/pollsay/internal/orgs/domain"
)

// MySQLOrgKeyRepository implements organization key persistence for MySQL.
// Uses BINARY(16) for UUIDs with transaction support.
type MySQLOrgKeyRepository struct {
	db *sql.DB
}

// NewMySQLOrgKeyRepository creates a new MySQL organization key repository.
func NewMySQLOrgKeyRepository(db *sql.DB) *MySQLOrgKeyRepository {
	return &MySQLOrgKeyRepository{db: db}
}

// Create inserts a new key version.
func (m *MySQLOrgKeyRepository) Create(ctx context.Context, key *orgsDomain.OrgKey) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO org_keys (id, org_id, version, public_key, encrypted_private_key, 
			  escrowed_private_key, created_at, retired_at) 
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := key.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal org key id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		key.OrgID,
		key.Version,
		key.PublicKey,
		key.EncryptedPrivateKey,
		key.EscrowedPrivateKey,
		key.CreatedAt,
		key.RetiredAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return orgsDomain.ErrOrgKeyAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create org key")
	}
	return nil
}

// Update modifies the private key envelope, escrow copy and retirement time of a key version.
func (m *MySQLOrgKeyRepository) Update(ctx context.Context, key *orgsDomain.OrgKey) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE org_keys 
			  SET encrypted_private_key = ?, 
				  escrowed_private_key = ?,
				  retired_at = ?
			  WHERE id = ?`

	id, err := key.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal org key id")
	}

	result, err := querier.ExecContext(
		ctx,
		query,
		key.EncryptedPrivateKey,
		key.EscrowedPrivateKey,
		key.RetiredAt,
		id,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update org key")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if rows == 0 {
		return orgsDomain.ErrOrgKeyNotFound
	}
	return nil
}

// GetActive retrieves the non-retired key version of an organization.
func (m *MySQLOrgKeyRepository) GetActive(ctx context.Context, orgID string) (*orgsDomain.OrgKey, error) {
	return m.getActive(ctx, orgID, "")
}

// GetActiveForUpdate retrieves the active key version and locks its row.
func (m *MySQLOrgKeyRepository) GetActiveForUpdate(ctx context.Context, orgID string) (*orgsDomain.OrgKey, error) {
	return m.getActive(ctx, orgID, " FOR UPDATE")
}

// GetActiveForShare retrieves the active key version and holds a shared lock on its row until
// the surrounding transaction ends.
func (m *MySQLOrgKeyRepository) GetActiveForShare(ctx context.Context, orgID string) (*orgsDomain.OrgKey, error) {
	return m.getActive(ctx, orgID, " LOCK IN SHARE MODE")
}

func (m *MySQLOrgKeyRepository) getActive(ctx context.Context, orgID, lock string) (*orgsDomain.OrgKey, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, org_id, version, public_key, encrypted_private_key, escrowed_private_key, 
			  created_at, retired_at 
			  FROM org_keys WHERE org_id = ? AND retired_at IS NULL` + lock

	var key orgsDomain.OrgKey
	var id []byte
	err := querier.QueryRowContext(ctx, query, orgID).Scan(
		&id,
		&key.OrgID,
		&key.Version,
		&key.PublicKey,
		&key.EncryptedPrivateKey,
		&key.EscrowedPrivateKey,
		&key.CreatedAt,
		&key.RetiredAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, orgsDomain.ErrOrgKeyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get active org key")
	}

	if err := key.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal org key id")
	}
	return &key, nil
}
