package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"
	"golang.org/x/sync/errgroup"

	cryptoDomain "github.com/pollsay/pollsay/internal/crypto/domain"
	cryptoService "github.com/pollsay/pollsay/internal/crypto/service"
	"github.com/pollsay/pollsay/internal/database"
	apperrors "github.com/pollsay/pollsay/internal/errors"
	orgsDomain "github.com/pollsay/pollsay/internal/orgs/domain"
	appValidation "github.com/pollsay/pollsay/internal/validation"
)

// orgKeyUseCase implements OrgKeyUseCase.
type orgKeyUseCase struct {
	txManager      database.TxManager
	orgKeyRepo     OrgKeyRepository
	wrappedKeyRepo WrappedKeyRepository
	encryption     cryptoService.EncryptionService
	keeper         cryptoDomain.KMSKeeper
	limiter        *UnlockLimiter
	concurrency    int
}

// NewOrgKeyUseCase creates a new OrgKeyUseCase. keeper may be nil, in which case private keys
// are not escrowed and Recover is unavailable.
func NewOrgKeyUseCase(
	txManager database.TxManager,
	orgKeyRepo OrgKeyRepository,
	wrappedKeyRepo WrappedKeyRepository,
	encryption cryptoService.EncryptionService,
	keeper cryptoDomain.KMSKeeper,
	limiter *UnlockLimiter,
	concurrency int,
) OrgKeyUseCase {
	if concurrency < 1 {
		concurrency = 1
	}
	return &orgKeyUseCase{
		txManager:      txManager,
		orgKeyRepo:     orgKeyRepo,
		wrappedKeyRepo: wrappedKeyRepo,
		encryption:     encryption,
		keeper:         keeper,
		limiter:        limiter,
		concurrency:    concurrency,
	}
}

func validateOrgID(orgID string) error {
	err := validation.Validate(orgID,
		validation.Required.Error("org id is required"),
		appValidation.NotBlank,
		validation.Length(1, 255),
	)
	return appValidation.WrapValidationError(err)
}

func validatePassphrase(passphrase string) error {
	err := validation.Validate(passphrase,
		validation.Required.Error("passphrase is required"),
		validation.Length(appValidation.MinPassphraseLength, 1024),
	)
	return appValidation.WrapValidationError(err)
}

func (o *orgKeyUseCase) Initialize(
	ctx context.Context,
	input *orgsDomain.InitializeInput,
) (*orgsDomain.OrgKey, error) {
	err := validation.ValidateStruct(input,
		validation.Field(&input.OrgID,
			validation.Required.Error("org id is required"),
			appValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&input.Passphrase,
			validation.Required.Error("passphrase is required"),
			validation.Length(appValidation.MinPassphraseLength, 1024),
		),
	)
	if err != nil {
		return nil, appValidation.WrapValidationError(err)
	}

	existing, err := o.orgKeyRepo.GetActive(ctx, input.OrgID)
	if err != nil && !errors.Is(err, orgsDomain.ErrOrgKeyNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, orgsDomain.ErrOrgKeyAlreadyExists
	}

	key, err := o.newOrgKey(ctx, input.OrgID, 1, input.Passphrase)
	if err != nil {
		return nil, err
	}

	if err := o.orgKeyRepo.Create(ctx, key); err != nil {
		return nil, err
	}
	return key, nil
}

// newOrgKey generates a keypair and builds its stored record.
func (o *orgKeyUseCase) newOrgKey(
	ctx context.Context,
	orgID string,
	version uint,
	passphrase string,
) (*orgsDomain.OrgKey, error) {
	pair, err := o.encryption.GenerateOrgKeyPair()
	if err != nil {
		return nil, err
	}

	encryptedPrivateKey, err := o.encryption.EncryptWithPassword(pair.PrivateKey, passphrase)
	if err != nil {
		return nil, err
	}

	escrowed, err := o.escrow(ctx, pair.PrivateKey)
	if err != nil {
		return nil, err
	}

	return &orgsDomain.OrgKey{
		ID:                  uuid.Must(uuid.NewV7()),
		OrgID:               orgID,
		Version:             version,
		PublicKey:           pair.PublicKey,
		EncryptedPrivateKey: encryptedPrivateKey,
		EscrowedPrivateKey:  escrowed,
		CreatedAt:           time.Now().UTC(),
	}, nil
}

// escrow encrypts privateKey with the KMS keeper. It returns "" when no keeper is configured.
func (o *orgKeyUseCase) escrow(ctx context.Context, privateKey string) (string, error) {
	if o.keeper == nil {
		return "", nil
	}
	ciphertext, err := o.keeper.Encrypt(ctx, []byte(privateKey))
	if err != nil {
		return "", fmt.Errorf("%w: %v", cryptoDomain.ErrKMSUnavailable, err)
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

func (o *orgKeyUseCase) PublicKey(ctx context.Context, orgID string) (*orgsDomain.OrgKey, error) {
	if err := validateOrgID(orgID); err != nil {
		return nil, err
	}
	return o.orgKeyRepo.GetActive(ctx, orgID)
}

func (o *orgKeyUseCase) Unlock(
	ctx context.Context,
	orgID, passphrase string,
) (*orgsDomain.UnlockedOrgKey, error) {
	if err := validateOrgID(orgID); err != nil {
		return nil, err
	}

	key, err := o.orgKeyRepo.GetActive(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return o.unlock(key, passphrase)
}

// unlock decrypts the private key of key, charging one attempt against the organization limiter.
func (o *orgKeyUseCase) unlock(key *orgsDomain.OrgKey, passphrase string) (*orgsDomain.UnlockedOrgKey, error) {
	if !o.limiter.Allow(key.OrgID) {
		return nil, orgsDomain.ErrTooManyUnlockAttempts
	}

	privateKey, err := o.encryption.DecryptWithPassword(key.EncryptedPrivateKey, passphrase)
	if err != nil {
		return nil, err
	}

	return &orgsDomain.UnlockedOrgKey{
		OrgID:      key.OrgID,
		Version:    key.Version,
		PublicKey:  key.PublicKey,
		PrivateKey: privateKey,
	}, nil
}

func (o *orgKeyUseCase) ChangePassphrase(
	ctx context.Context,
	orgID, oldPassphrase, newPassphrase string,
) error {
	if err := validateOrgID(orgID); err != nil {
		return err
	}
	if err := validatePassphrase(newPassphrase); err != nil {
		return err
	}
	if oldPassphrase == newPassphrase {
		return orgsDomain.ErrSamePassphrase
	}

	return o.txManager.WithTx(ctx, func(ctx context.Context) error {
		key, err := o.orgKeyRepo.GetActiveForUpdate(ctx, orgID)
		if err != nil {
			return err
		}

		unlocked, err := o.unlock(key, oldPassphrase)
		if err != nil {
			return err
		}

		encryptedPrivateKey, err := o.encryption.EncryptWithPassword(unlocked.PrivateKey, newPassphrase)
		if err != nil {
			return err
		}
		key.EncryptedPrivateKey = encryptedPrivateKey

		return o.orgKeyRepo.Update(ctx, key)
	})
}

func (o *orgKeyUseCase) Rotate(
	ctx context.Context,
	orgID, passphrase string,
) (*orgsDomain.RotateOutput, error) {
	if err := validateOrgID(orgID); err != nil {
		return nil, err
	}

	var output *orgsDomain.RotateOutput
	err := o.txManager.WithTx(ctx, func(ctx context.Context) error {
		current, err := o.orgKeyRepo.GetActiveForUpdate(ctx, orgID)
		if err != nil {
			return err
		}

		unlocked, err := o.unlock(current, passphrase)
		if err != nil {
			return err
		}

		next, err := o.newOrgKey(ctx, orgID, current.Version+1, passphrase)
		if err != nil {
			return err
		}

		wrappedKeys, err := o.wrappedKeyRepo.ListByOrg(ctx, orgID)
		if err != nil {
			return err
		}

		if err := o.rewrap(ctx, wrappedKeys, unlocked, next); err != nil {
			return err
		}

		for _, wrapped := range wrappedKeys {
			if err := o.wrappedKeyRepo.Update(ctx, wrapped); err != nil {
				return err
			}
		}

		retiredAt := time.Now().UTC()
		current.RetiredAt = &retiredAt
		if err := o.orgKeyRepo.Update(ctx, current); err != nil {
			return err
		}
		if err := o.orgKeyRepo.Create(ctx, next); err != nil {
			return err
		}

		output = &orgsDomain.RotateOutput{
			OrgKey:      next,
			PrevVersion: current.Version,
			Rewrapped:   len(wrappedKeys),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return output, nil
}

// rewrap moves every wrapped key from the unlocked version to next, in place. RSA work runs
// concurrently; the caller persists the results.
func (o *orgKeyUseCase) rewrap(
	ctx context.Context,
	wrappedKeys []*orgsDomain.WrappedKey,
	unlocked *orgsDomain.UnlockedOrgKey,
	next *orgsDomain.OrgKey,
) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	for _, wrapped := range wrappedKeys {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if wrapped.KeyVersion != unlocked.Version {
				return apperrors.Wrapf(
					orgsDomain.ErrKeyVersionMismatch,
					"%s %s wrapped under version %d, active version is %d",
					wrapped.Kind, wrapped.RecordID, wrapped.KeyVersion, unlocked.Version,
				)
			}

			exported, err := o.encryption.DecryptFormKey(wrapped.EncryptedKey, unlocked.PrivateKey)
			if err != nil {
				return apperrors.Wrapf(err, "%s %s", wrapped.Kind, wrapped.RecordID)
			}

			encrypted, err := o.encryption.EncryptFormKey(exported, next.PublicKey)
			if err != nil {
				return err
			}

			wrapped.EncryptedKey = encrypted
			wrapped.KeyVersion = next.Version
			return nil
		})
	}

	return g.Wait()
}

func (o *orgKeyUseCase) Recover(ctx context.Context, orgID, newPassphrase string) error {
	if err := validateOrgID(orgID); err != nil {
		return err
	}
	if err := validatePassphrase(newPassphrase); err != nil {
		return err
	}
	if o.keeper == nil {
		return orgsDomain.ErrEscrowUnavailable
	}

	return o.txManager.WithTx(ctx, func(ctx context.Context) error {
		key, err := o.orgKeyRepo.GetActiveForUpdate(ctx, orgID)
		if err != nil {
			return err
		}
		if !key.HasEscrow() {
			return orgsDomain.ErrEscrowUnavailable
		}

		ciphertext, err := base64.StdEncoding.DecodeString(key.EscrowedPrivateKey)
		if err != nil {
			return apperrors.Wrap(orgsDomain.ErrEscrowUnavailable, "malformed escrow copy")
		}
		privateKey, err := o.keeper.Decrypt(ctx, ciphertext)
		if err != nil {
			return fmt.Errorf("%w: %v", cryptoDomain.ErrKMSUnavailable, err)
		}
		defer cryptoDomain.Zero(privateKey)

		if err := o.verifyKeyPair(key.PublicKey, string(privateKey)); err != nil {
			return err
		}

		encryptedPrivateKey, err := o.encryption.EncryptWithPassword(string(privateKey), newPassphrase)
		if err != nil {
			return err
		}
		key.EncryptedPrivateKey = encryptedPrivateKey

		return o.orgKeyRepo.Update(ctx, key)
	})
}

// verifyKeyPair checks that privateKey opens what publicKey seals.
func (o *orgKeyUseCase) verifyKeyPair(publicKey, privateKey string) error {
	sample, err := o.encryption.GenerateFormKey()
	if err != nil {
		return err
	}
	defer sample.Close()

	wrapped, err := o.encryption.EncryptFormKey(sample.Exported, publicKey)
	if err != nil {
		return err
	}
	exported, err := o.encryption.DecryptFormKey(wrapped, privateKey)
	if err != nil {
		return err
	}
	if exported != sample.Exported {
		return cryptoDomain.ErrKeyUnwrap
	}
	return nil
}
