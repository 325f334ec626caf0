// Package repository implements persistence for organization keys and for the wrapped symmetric
// keys that rotation moves between key versions.
//
// Each repository has a PostgreSQL implementation (native UUID, $n placeholders) and a MySQL
// implementation (BINARY(16) UUIDs, ? placeholders). All of them resolve their querier with
// database.GetTx, so they join a transaction started by database.TxManager when there is one.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pollsay/pollsay/internal/database"
	apperrors "github.com/pollsay/pollsay/internal/errors"
	orgsDomain "github.com/pollsay/pollsay/internal/orgs/domain"
)

// PostgreSQLOrgKeyRepository implements organization key persistence for PostgreSQL.
type PostgreSQLOrgKeyRepository struct {
	db *sql.DB
}

// NewPostgreSQLOrgKeyRepository creates a new PostgreSQL organization key repository.
func NewPostgreSQLOrgKeyRepository(db *sql.DB) *PostgreSQLOrgKeyRepository {
	return &PostgreSQLOrgKeyRepository{db: db}
}

// Create inserts a new key version. A second active version for the same organization, or a
// duplicate version number, is reported as ErrOrgKeyAlreadyExists.
func (p *PostgreSQLOrgKeyRepository) Create(ctx context.Context, key *orgsDomain.OrgKey) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO org_keys (id, org_id, version, public_key, encrypted_private_key, 
			  escrowed_private_key, created_at, retired_at) 
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := querier.ExecContext(
		ctx,
		query,
		key.ID,
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

// Update modifies the mutable fields of a key version: its private key envelope, its escrow
// copy and its retirement time.
func (p *PostgreSQLOrgKeyRepository) Update(ctx context.Context, key *orgsDomain.OrgKey) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE org_keys 
			  SET encrypted_private_key = $1, 
				  escrowed_private_key = $2,
				  retired_at = $3
			  WHERE id = $4`

	result, err := querier.ExecContext(
		ctx,
		query,
		key.EncryptedPrivateKey,
		key.EscrowedPrivateKey,
		key.RetiredAt,
		key.ID,
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
func (p *PostgreSQLOrgKeyRepository) GetActive(ctx context.Context, orgID string) (*orgsDomain.OrgKey, error) {
	return p.getActive(ctx, orgID, "")
}

// GetActiveForUpdate retrieves the active key version and locks its row.
func (p *PostgreSQLOrgKeyRepository) GetActiveForUpdate(
	ctx context.Context,
	orgID string,
) (*orgsDomain.OrgKey, error) {
	return p.getActive(ctx, orgID, " FOR UPDATE")
}

// GetActiveForShare retrieves the active key version and holds a shared lock on its row until
// the surrounding transaction ends. Writers of wrapped keys use it to keep rotation out until
// their records are committed.
func (p *PostgreSQLOrgKeyRepository) GetActiveForShare(
	ctx context.Context,
	orgID string,
) (*orgsDomain.OrgKey, error) {
	key, err := p.getActive(ctx, orgID, " FOR SHARE")
	if errors.Is(err, orgsDomain.ErrOrgKeyNotFound) {
		// A rotation committed while this statement waited for the lock and retired the row it
		// had found. A new statement sees the version the rotation created.
		return p.getActive(ctx, orgID, " FOR SHARE")
	}
	return key, err
}

func (p *PostgreSQLOrgKeyRepository) getActive(
	ctx context.Context,
	orgID, lock string,
) (*orgsDomain.OrgKey, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, org_id, version, public_key, encrypted_private_key, escrowed_private_key, 
			  created_at, retired_at 
			  FROM org_keys WHERE org_id = $1 AND retired_at IS NULL` + lock

	var key orgsDomain.OrgKey
	err := querier.QueryRowContext(ctx, query, orgID).Scan(
		&key.ID,
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
	return &key, nil
}
