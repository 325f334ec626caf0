package usecase

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/pollsay/pollsay/internal/crypto/domain"
	cryptoService "github.com/pollsay/pollsay/internal/crypto/service"
	databaseMocks "github.com/pollsay/pollsay/internal/database/mocks"
	apperrors "github.com/pollsay/pollsay/internal/errors"
	orgsDomain "github.com/pollsay/pollsay/internal/orgs/domain"
	orgsMocks "github.com/pollsay/pollsay/internal/orgs/usecase/mocks"
)

const (
	testOrgID      = "org-1"
	testPassphrase = "correct-horse"
)

type orgKeyFixture struct {
	uc          *orgKeyUseCase
	txManager   *databaseMocks.MockTxManager
	orgKeyRepo  *orgsMocks.MockOrgKeyRepository
	wrappedRepo *orgsMocks.MockWrappedKeyRepository
	encryption  cryptoService.EncryptionService
}

func newOrgKeyFixture(t *testing.T, keeper cryptoDomain.KMSKeeper, limiter *UnlockLimiter) *orgKeyFixture {
	t.Helper()
	f := &orgKeyFixture{
		txManager:   &databaseMocks.MockTxManager{},
		orgKeyRepo:  &orgsMocks.MockOrgKeyRepository{},
		wrappedRepo: &orgsMocks.MockWrappedKeyRepository{},
		encryption: cryptoService.NewEncryptionService(
			cryptoService.NewAEADManager(),
			cryptoService.NewRSAKeyWrapper(2048),
			cryptoDomain.AESGCM,
		),
	}
	f.uc = NewOrgKeyUseCase(
		f.txManager, f.orgKeyRepo, f.wrappedRepo, f.encryption, keeper, limiter, 4,
	).(*orgKeyUseCase)

	t.Cleanup(func() {
		f.txManager.AssertExpectations(t)
		f.orgKeyRepo.AssertExpectations(t)
		f.wrappedRepo.AssertExpectations(t)
	})
	return f
}

func openTestKeeper(t *testing.T) cryptoDomain.KMSKeeper {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	keeper, err := cryptoService.NewKMSService().OpenKeeper(
		context.Background(), "base64key://"+base64.URLEncoding.EncodeToString(key),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = keeper.Close() })
	return keeper
}

func (f *orgKeyFixture) activeKey(t *testing.T, version uint) *orgsDomain.OrgKey {
	t.Helper()
	key, err := f.uc.newOrgKey(context.Background(), testOrgID, version, testPassphrase)
	require.NoError(t, err)
	return key
}

func (f *orgKeyFixture) privateKey(t *testing.T, key *orgsDomain.OrgKey, passphrase string) string {
	t.Helper()
	privateKey, err := f.encryption.DecryptWithPassword(key.EncryptedPrivateKey, passphrase)
	require.NoError(t, err)
	return privateKey
}

func TestOrgKeyUseCase_Initialize(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newOrgKeyFixture(t, nil, nil)
		f.orgKeyRepo.On("GetActive", ctx, testOrgID).Return(nil, orgsDomain.ErrOrgKeyNotFound).Once()
		f.orgKeyRepo.On("Create", ctx, mock.MatchedBy(func(k *orgsDomain.OrgKey) bool {
			return k.OrgID == testOrgID && k.Version == 1 && k.Active()
		})).Return(nil).Once()

		key, err := f.uc.Initialize(ctx, &orgsDomain.InitializeInput{OrgID: testOrgID, Passphrase: testPassphrase})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, key.ID)
		assert.Empty(t, key.EscrowedPrivateKey)
		assert.NotContains(t, key.EncryptedPrivateKey, key.PublicKey)

		privateKey := f.privateKey(t, key, testPassphrase)
		formKey, err := f.encryption.GenerateFormKey()
		require.NoError(t, err)
		wrapped, err := f.encryption.EncryptFormKey(formKey.Exported, key.PublicKey)
		require.NoError(t, err)
		exported, err := f.encryption.DecryptFormKey(wrapped, privateKey)
		require.NoError(t, err)
		assert.Equal(t, formKey.Exported, exported)
	})

	t.Run("Success_WithEscrow", func(t *testing.T) {
		keeper := openTestKeeper(t)
		f := newOrgKeyFixture(t, keeper, nil)
		f.orgKeyRepo.On("GetActive", ctx, testOrgID).Return(nil, orgsDomain.ErrOrgKeyNotFound).Once()
		f.orgKeyRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

		key, err := f.uc.Initialize(ctx, &orgsDomain.InitializeInput{OrgID: testOrgID, Passphrase: testPassphrase})
		require.NoError(t, err)
		require.True(t, key.HasEscrow())

		ciphertext, err := base64.StdEncoding.DecodeString(key.EscrowedPrivateKey)
		require.NoError(t, err)
		escrowed, err := keeper.Decrypt(ctx, ciphertext)
		require.NoError(t, err)
		assert.Equal(t, f.privateKey(t, key, testPassphrase), string(escrowed))
	})

	t.Run("Error_AlreadyExists", func(t *testing.T) {
		f := newOrgKeyFixture(t, nil, nil)
		f.orgKeyRepo.On("GetActive", ctx, testOrgID).Return(&orgsDomain.OrgKey{OrgID: testOrgID}, nil).Once()

		_, err := f.uc.Initialize(ctx, &orgsDomain.InitializeInput{OrgID: testOrgID, Passphrase: testPassphrase})
		assert.ErrorIs(t, err, orgsDomain.ErrOrgKeyAlreadyExists)
	})

	t.Run("Error_RepositoryFailure", func(t *testing.T) {
		f := newOrgKeyFixture(t, nil, nil)
		f.orgKeyRepo.On("GetActive", ctx, testOrgID).Return(nil, assert.AnError).Once()

		_, err := f.uc.Initialize(ctx, &orgsDomain.InitializeInput{OrgID: testOrgID, Passphrase: testPassphrase})
		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("Error_Validation", func(t *testing.T) {
		f := newOrgKeyFixture(t, nil, nil)

		inputs := []*orgsDomain.InitializeInput{
			{OrgID: "", Passphrase: testPassphrase},
			{OrgID: "   ", Passphrase: testPassphrase},
			{OrgID: testOrgID, Passphrase: ""},
			{OrgID: testOrgID, Passphrase: "short"},
		}
		for _, input := range inputs {
			_, err := f.uc.Initialize(ctx, input)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput, "%+v", input)
		}
	})
}

func TestOrgKeyUseCase_PublicKey(t *testing.T) {
	ctx := context.Background()
	f := newOrgKeyFixture(t, nil, nil)
	stored := &orgsDomain.OrgKey{OrgID: testOrgID, Version: 3, PublicKey: "cHVi"}
	f.orgKeyRepo.On("GetActive", ctx, testOrgID).Return(stored, nil).Once()

	key, err := f.uc.PublicKey(ctx, testOrgID)
	require.NoError(t, err)
	assert.Equal(t, stored, key)

	_, err = f.uc.PublicKey(ctx, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestOrgKeyUseCase_Unlock(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newOrgKeyFixture(t, nil, nil)
		key := f.activeKey(t, 2)
		f.orgKeyRepo.On("GetActive", ctx, testOrgID).Return(key, nil).Once()

		unlocked, err := f.uc.Unlock(ctx, testOrgID, testPassphrase)
		require.NoError(t, err)
		assert.Equal(t, uint(2), unlocked.Version)
		assert.Equal(t, key.PublicKey, unlocked.PublicKey)
		assert.Equal(t, f.privateKey(t, key, testPassphrase), unlocked.PrivateKey)
	})

	t.Run("Error_WrongPassphrase", func(t *testing.T) {
		f := newOrgKeyFixture(t, nil, nil)
		key := f.activeKey(t, 1)
		f.orgKeyRepo.On("GetActive", ctx, testOrgID).Return(key, nil).Once()

		unlocked, err := f.uc.Unlock(ctx, testOrgID, "wrong-horse")
		assert.ErrorIs(t, err, cryptoDomain.ErrPasswordDecrypt)
		assert.Nil(t, unlocked)
	})

	t.Run("Error_TooManyAttempts", func(t *testing.T) {
		f := newOrgKeyFixture(t, nil, NewUnlockLimiter(0.001, 2))
		key := f.activeKey(t, 1)
		f.orgKeyRepo.On("GetActive", ctx, testOrgID).Return(key, nil).Times(3)

		_, err := f.uc.Unlock(ctx, testOrgID, "wrong-horse")
		assert.ErrorIs(t, err, cryptoDomain.ErrPasswordDecrypt)
		_, err = f.uc.Unlock(ctx, testOrgID, "wrong-horse")
		assert.ErrorIs(t, err, cryptoDomain.ErrPasswordDecrypt)

		_, err = f.uc.Unlock(ctx, testOrgID, testPassphrase)
		assert.ErrorIs(t, err, orgsDomain.ErrTooManyUnlockAttempts)
		assert.ErrorIs(t, err, apperrors.ErrLocked)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		f := newOrgKeyFixture(t, nil, nil)
		f.orgKeyRepo.On("GetActive", ctx, testOrgID).Return(nil, orgsDomain.ErrOrgKeyNotFound).Once()

		_, err := f.uc.Unlock(ctx, testOrgID, testPassphrase)
		assert.ErrorIs(t, err, orgsDomain.ErrOrgKeyNotFound)
	})
}

func TestOrgKeyUseCase_ChangePassphrase(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newOrgKeyFixture(t, nil, nil)
		key := f.activeKey(t, 1)
		privateKey := f.privateKey(t, key, testPassphrase)

		f.txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		f.orgKeyRepo.On("GetActiveForUpdate", ctx, testOrgID).Return(key, nil).Once()
		f.orgKeyRepo.On("Update", ctx, key).Return(nil).Once()

		require.NoError(t, f.uc.ChangePassphrase(ctx, testOrgID, testPassphrase, "battery-staple"))

		assert.Equal(t, privateKey, f.privateKey(t, key, "battery-staple"))
		_, err := f.encryption.DecryptWithPassword(key.EncryptedPrivateKey, testPassphrase)
		assert.ErrorIs(t, err, cryptoDomain.ErrPasswordDecrypt)
	})

	t.Run("Error_WrongOldPassphrase", func(t *testing.T) {
		f := newOrgKeyFixture(t, nil, nil)
		key := f.activeKey(t, 1)

		f.txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		f.orgKeyRepo.On("GetActiveForUpdate", ctx, testOrgID).Return(key, nil).Once()

		err := f.uc.ChangePassphrase(ctx, testOrgID, "wrong-horse", "battery-staple")
		assert.ErrorIs(t, err, cryptoDomain.ErrPasswordDecrypt)
	})

	t.Run("Error_SamePassphrase", func(t *testing.T) {
		f := newOrgKeyFixture(t, nil, nil)
		err := f.uc.ChangePassphrase(ctx, testOrgID, testPassphrase, testPassphrase)
		assert.ErrorIs(t, err, orgsDomain.ErrSamePassphrase)
	})

	t.Run("Error_WeakNewPassphrase", func(t *testing.T) {
		f := newOrgKeyFixture(t, nil, nil)
		err := f.uc.ChangePassphrase(ctx, testOrgID, testPassphrase, "short")
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestOrgKeyUseCase_Rotate(t *testing.T) {
	ctx := context.Background()

	wrapUnder := func(t *testing.T, f *orgKeyFixture, kind orgsDomain.WrappedKeyKind, key *orgsDomain.OrgKey) (*orgsDomain.WrappedKey, string) {
		formKey, err := f.encryption.GenerateFormKey()
		require.NoError(t, err)
		encrypted, err := f.encryption.EncryptFormKey(formKey.Exported, key.PublicKey)
		require.NoError(t, err)
		return &orgsDomain.WrappedKey{
			Kind:         kind,
			RecordID:     uuid.Must(uuid.NewV7()),
			EncryptedKey: encrypted,
			KeyVersion:   key.Version,
		}, formKey.Exported
	}

	t.Run("Success", func(t *testing.T) {
		f := newOrgKeyFixture(t, nil, nil)
		current := f.activeKey(t, 1)
		oldPrivateKey := f.privateKey(t, current, testPassphrase)

		formKey, formExported := wrapUnder(t, f, orgsDomain.WrappedFormKey, current)
		responseKey, responseExported := wrapUnder(t, f, orgsDomain.WrappedResponseKey, current)
		wrapped := []*orgsDomain.WrappedKey{formKey, responseKey}

		f.txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		f.orgKeyRepo.On("GetActiveForUpdate", ctx, testOrgID).Return(current, nil).Once()
		f.wrappedRepo.On("ListByOrg", ctx, testOrgID).Return(wrapped, nil).Once()
		f.wrappedRepo.On("Update", ctx, formKey).Return(nil).Once()
		f.wrappedRepo.On("Update", ctx, responseKey).Return(nil).Once()
		f.orgKeyRepo.On("Update", ctx, mock.MatchedBy(func(k *orgsDomain.OrgKey) bool {
			return k.Version == 1 && !k.Active()
		})).Return(nil).Once()
		f.orgKeyRepo.On("Create", ctx, mock.MatchedBy(func(k *orgsDomain.OrgKey) bool {
			return k.Version == 2 && k.Active()
		})).Return(nil).Once()

		output, err := f.uc.Rotate(ctx, testOrgID, testPassphrase)
		require.NoError(t, err)
		assert.Equal(t, uint(1), output.PrevVersion)
		assert.Equal(t, uint(2), output.OrgKey.Version)
		assert.Equal(t, 2, output.Rewrapped)
		assert.NotEqual(t, current.PublicKey, output.OrgKey.PublicKey)

		newPrivateKey := f.privateKey(t, output.OrgKey, testPassphrase)
		for exported, w := range map[string]*orgsDomain.WrappedKey{formExported: formKey, responseExported: responseKey} {
			assert.Equal(t, uint(2), w.KeyVersion)

			got, err := f.encryption.DecryptFormKey(w.EncryptedKey, newPrivateKey)
			require.NoError(t, err)
			assert.Equal(t, exported, got)

			_, err = f.encryption.DecryptFormKey(w.EncryptedKey, oldPrivateKey)
			assert.ErrorIs(t, err, cryptoDomain.ErrKeyUnwrap)
		}
	})

	t.Run("Error_VersionMismatch", func(t *testing.T) {
		f := newOrgKeyFixture(t, nil, nil)
		current := f.activeKey(t, 2)
		stale, _ := wrapUnder(t, f, orgsDomain.WrappedFormKey, current)
		stale.KeyVersion = 1

		f.txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		f.orgKeyRepo.On("GetActiveForUpdate", ctx, testOrgID).Return(current, nil).Once()
		f.wrappedRepo.On("ListByOrg", ctx, testOrgID).Return([]*orgsDomain.WrappedKey{stale}, nil).Once()

		_, err := f.uc.Rotate(ctx, testOrgID, testPassphrase)
		assert.ErrorIs(t, err, orgsDomain.ErrKeyVersionMismatch)
	})

	t.Run("Error_CorruptedWrappedKey", func(t *testing.T) {
		f := newOrgKeyFixture(t, nil, nil)
		current := f.activeKey(t, 1)
		corrupted := &orgsDomain.WrappedKey{
			Kind:         orgsDomain.WrappedResponseKey,
			RecordID:     uuid.Must(uuid.NewV7()),
			EncryptedKey: base64.StdEncoding.EncodeToString(make([]byte, 256)),
			KeyVersion:   1,
		}

		f.txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		f.orgKeyRepo.On("GetActiveForUpdate", ctx, testOrgID).Return(current, nil).Once()
		f.wrappedRepo.On("ListByOrg", ctx, testOrgID).Return([]*orgsDomain.WrappedKey{corrupted}, nil).Once()

		_, err := f.uc.Rotate(ctx, testOrgID, testPassphrase)
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyUnwrap)
	})

	t.Run("Error_WrongPassphrase", func(t *testing.T) {
		f := newOrgKeyFixture(t, nil, nil)
		current := f.activeKey(t, 1)

		f.txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		f.orgKeyRepo.On("GetActiveForUpdate", ctx, testOrgID).Return(current, nil).Once()

		_, err := f.uc.Rotate(ctx, testOrgID, "wrong-horse")
		assert.ErrorIs(t, err, cryptoDomain.ErrPasswordDecrypt)
	})
}

func TestOrgKeyUseCase_Recover(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newOrgKeyFixture(t, openTestKeeper(t), nil)
		key := f.activeKey(t, 1)
		privateKey := f.privateKey(t, key, testPassphrase)

		f.txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		f.orgKeyRepo.On("GetActiveForUpdate", ctx, testOrgID).Return(key, nil).Once()
		f.orgKeyRepo.On("Update", ctx, key).Return(nil).Once()

		require.NoError(t, f.uc.Recover(ctx, testOrgID, "battery-staple"))
		assert.Equal(t, privateKey, f.privateKey(t, key, "battery-staple"))
	})

	t.Run("Error_NoKeeper", func(t *testing.T) {
		f := newOrgKeyFixture(t, nil, nil)
		err := f.uc.Recover(ctx, testOrgID, "battery-staple")
		assert.ErrorIs(t, err, orgsDomain.ErrEscrowUnavailable)
	})

	t.Run("Error_NoEscrowCopy", func(t *testing.T) {
		f := newOrgKeyFixture(t, openTestKeeper(t), nil)
		key := &orgsDomain.OrgKey{OrgID: testOrgID, Version: 1}

		f.txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		f.orgKeyRepo.On("GetActiveForUpdate", ctx, testOrgID).Return(key, nil).Once()

		err := f.uc.Recover(ctx, testOrgID, "battery-staple")
		assert.ErrorIs(t, err, orgsDomain.ErrEscrowUnavailable)
	})

	t.Run("Error_EscrowFromOtherKeeper", func(t *testing.T) {
		other := newOrgKeyFixture(t, openTestKeeper(t), nil)
		key := other.activeKey(t, 1)

		f := newOrgKeyFixture(t, openTestKeeper(t), nil)
		f.txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		f.orgKeyRepo.On("GetActiveForUpdate", ctx, testOrgID).Return(key, nil).Once()

		err := f.uc.Recover(ctx, testOrgID, "battery-staple")
		assert.ErrorIs(t, err, cryptoDomain.ErrKMSUnavailable)
	})
}
