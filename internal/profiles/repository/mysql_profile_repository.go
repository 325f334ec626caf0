package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pollsay/pollsay/internal/database"
	apperrors "github.com/pollsay/pollsay/internal/errors"
	profilesDomain "github.com/pollsay/pollsay/internal/profiles/domain"
)

// MySQLProfileRepository implements profile persistence for MySQL.
type MySQLProfileRepository struct {
	db *sql.DB
}

// NewMySQLProfileRepository creates a new MySQL profile repository.
func NewMySQLProfileRepository(db *sql.DB) *MySQLProfileRepository {
	return &MySQLProfileRepository{db: db}
}

// Create inserts a new profile.
func (m *MySQLProfileRepository) Create(ctx context.Context, profile *profilesDomain.Profile) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO user_profiles (user_id, org_id, password_hash, encrypted_profile, created_at) 
			  VALUES (?, ?, ?, ?, ?)`

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
func (m *MySQLProfileRepository) Get(ctx context.Context, userID string) (*profilesDomain.Profile, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT user_id, org_id, password_hash, encrypted_profile, created_at 
			  FROM user_profiles WHERE user_id = ?`

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
