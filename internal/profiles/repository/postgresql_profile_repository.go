// Package repository stores user profiles in PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pollsay/pollsay/internal/database"
	apperrors "github.com/pollsay/pollsay/internal/errors"
	profilesDomain "github.com/pollsay/pollsay/internal/profiles/domain"
)

// PostgreSQLProfileRepository implements profile persistence for PostgreSQL.
type PostgreSQLProfileRepository struct {
	db *sql.DB
}

// NewPostgreSQLProfileRepository creates a new PostgreSQL profile repository.
func NewPostgreSQLProfileRepository(db *sql.DB) *PostgreSQLProfileRepository {
	return &PostgreSQLProfileRepository{db: db}
}

// Create inserts a new profile.
func (p *PostgreSQLProfileRepository) Create(ctx context.Context, profile *profilesDomain.Profile) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO user_profiles (user_id, org_id, password_hash, encrypted_profile, created_at) 
			  VALUES ($1, $2, $3, $4, $5)`

	_, err := querier.ExecContext(
		ctx,
		query,
		profile.UserID,
		profile.OrgID,
		profile.PasswordHash,
		profile.EncryptedProfile,
		profile.CreatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return profilesDomain.ErrProfileAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create profile")
	}
	return nil
}

// Get retrieves the profile of a user.
func (p *PostgreSQLProfileRepository) Get(ctx context.Context, userID string) (*profilesDomain.Profile, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT user_id, org_id, password_hash, encrypted_profile, created_at 
			  FROM user_profiles WHERE user_id = $1`

	var profile profilesDomain.Profile
	err := querier.QueryRowContext(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.OrgID,
		&profile.PasswordHash,
		&profile.EncryptedProfile,
		&profile.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, profilesDomain.ErrProfileNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get profile")
	}
	return &profile, nil
}
