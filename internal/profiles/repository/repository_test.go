package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	profilesDomain "github.com/pollsay/pollsay/internal/profiles/domain"
)

var profileColumns = []string{"user_id", "org_id", "password_hash", "encrypted_profile", "created_at"}

func testProfile() *profilesDomain.Profile {
	return &profilesDomain.Profile{
		UserID:           "user-1",
		OrgID:            "org-1",
		PasswordHash:     "$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		EncryptedProfile: `{"salt":"c2FsdA==","iv":"aXY=","data":"ZGF0YQ=="}`,
		CreatedAt:        time.Now().UTC(),
	}
}

func TestPostgreSQLProfileRepository(t *testing.T) {
	ctx := context.Background()
	profile := testProfile()

	t.Run("Create", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_profiles")).
			WithArgs(profile.UserID, profile.OrgID, profile.PasswordHash, profile.EncryptedProfile, profile.CreatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, NewPostgreSQLProfileRepository(db).Create(ctx, profile))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Create_Duplicate", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_profiles")).WillReturnError(&pq.Error{Code: "23505"})

		err = NewPostgreSQLProfileRepository(db).Create(ctx, profile)
		assert.ErrorIs(t, err, profilesDomain.ErrProfileAlreadyExists)
	})

	t.Run("Get", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery(regexp.QuoteMeta("FROM user_profiles WHERE user_id = $1")).
			WithArgs(profile.UserID).
			WillReturnRows(sqlmock.NewRows(profileColumns).AddRow(
				profile.UserID, profile.OrgID, profile.PasswordHash, profile.EncryptedProfile, profile.CreatedAt,
			))

		got, err := NewPostgreSQLProfileRepository(db).Get(ctx, profile.UserID)
		require.NoError(t, err)
		assert.Equal(t, profile, got)
	})

	t.Run("Get_NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery(regexp.QuoteMeta("FROM user_profiles")).WillReturnRows(sqlmock.NewRows(profileColumns))

		_, err = NewPostgreSQLProfileRepository(db).Get(ctx, "ghost")
		assert.ErrorIs(t, err, profilesDomain.ErrProfileNotFound)
	})
}

func TestMySQLProfileRepository(t *testing.T) {
	ctx := context.Background()
	profile := testProfile()

	t.Run("Create_Duplicate", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_profiles")).
			WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

		err = NewMySQLProfileRepository(db).Create(ctx, profile)
		assert.ErrorIs(t, err, profilesDomain.ErrProfileAlreadyExists)
	})

	t.Run("Get", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery(regexp.QuoteMeta("FROM user_profiles WHERE user_id = ?")).
			WithArgs(profile.UserID).
			WillReturnRows(sqlmock.NewRows(profileColumns).AddRow(
				profile.UserID, profile.OrgID, profile.PasswordHash, profile.EncryptedProfile, profile.CreatedAt,
			))

		got, err := NewMySQLProfileRepository(db).Get(ctx, profile.UserID)
		require.NoError(t, err)
		assert.Equal(t, profile, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
