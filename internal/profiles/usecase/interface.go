// Package usecase registers user profiles and opens them with the user's password.
package usecase

import (
	"context"

	profilesDomain "github.com/pollsay/pollsay/internal/profiles/domain"
)

// ProfileRepository defines the interface for Profile persistence operations.
type ProfileRepository interface {
	Create(ctx context.Context, profile *profilesDomain.Profile) error
	Get(ctx context.Context, userID string) (*profilesDomain.Profile, error)
}

// ProfileUseCase defines the interface for profile business logic.
type ProfileUseCase interface {
	// Register stores a password verifier and the encrypted profile of a new user.
	Register(ctx context.Context, input *profilesDomain.RegisterProfileInput) (*profilesDomain.Profile, error)

	// Open verifies the password and returns the decrypted profile.
	Open(ctx context.Context, userID, password string) (*profilesDomain.ProfileData, error)
}
