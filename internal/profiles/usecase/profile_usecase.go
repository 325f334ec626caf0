package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	validation "github.com/jellydator/validation"

	cryptoService "github.com/pollsay/pollsay/internal/crypto/service"
	profilesDomain "github.com/pollsay/pollsay/internal/profiles/domain"
	profilesService "github.com/pollsay/pollsay/internal/profiles/service"
	appValidation "github.com/pollsay/pollsay/internal/validation"
)

// profileUseCase implements ProfileUseCase.
type profileUseCase struct {
	profileRepo ProfileRepository
	passwords   profilesService.PasswordService
	encryption  cryptoService.EncryptionService
}

// NewProfileUseCase creates a new ProfileUseCase.
func NewProfileUseCase(
	profileRepo ProfileRepository,
	passwords profilesService.PasswordService,
	encryption cryptoService.EncryptionService,
) ProfileUseCase {
	return &profileUseCase{
		profileRepo: profileRepo,
		passwords:   passwords,
		encryption:  encryption,
	}
}

// keyMaterial binds the profile encryption key to both the user and the password.
func keyMaterial(userID, password string) string {
	digest := sha256.Sum256([]byte(userID + ":" + password))
	return hex.EncodeToString(digest[:])
}

func (p *profileUseCase) Register(
	ctx context.Context,
	input *profilesDomain.RegisterProfileInput,
) (*profilesDomain.Profile, error) {
	err := validation.ValidateStruct(input,
		validation.Field(&input.UserID,
			validation.Required.Error("user id is required"),
			appValidation.NoWhitespace,
			validation.Length(1, 255),
		),
		validation.Field(&input.OrgID,
			validation.Required.Error("org id is required"),
			appValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&input.Email,
			validation.Required.Error("email is required"),
			appValidation.Email,
		),
		validation.Field(&input.Password,
			validation.Required.Error("password is required"),
			appValidation.ProfilePassword,
		),
	)
	if err != nil {
		return nil, appValidation.WrapValidationError(err)
	}

	passwordHash, err := p.passwords.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	data := profilesDomain.ProfileData{
		Email:     input.Email,
		Pseudonym: p.encryption.GeneratePseudonym(input.Email, input.OrgID),
	}
	encrypted, err := p.encryption.EncryptUserProfile(data, keyMaterial(input.UserID, input.Password))
	if err != nil {
		return nil, err
	}

	profile := &profilesDomain.Profile{
		UserID:           input.UserID,
		OrgID:            input.OrgID,
		PasswordHash:     passwordHash,
		EncryptedProfile: encrypted,
		CreatedAt:        time.Now().UTC(),
	}
	if err := p.profileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (p *profileUseCase) Open(
	ctx context.Context,
	userID, password string,
) (*profilesDomain.ProfileData, error) {
	profile, err := p.profileRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !p.passwords.Compare(password, profile.PasswordHash) {
		return nil, profilesDomain.ErrInvalidCredentials
	}

	var data profilesDomain.ProfileData
	if err := p.encryption.DecryptUserProfile(profile.EncryptedProfile, keyMaterial(userID, password), &data); err != nil {
		return nil, err
	}
	return &data, nil
}
