package commands

import (
	"context"
	"fmt"
	"log/slog"

	profilesDomain "github.com/pollsay/pollsay/internal/profiles/domain"
	profilesUseCase "github.com/pollsay/pollsay/internal/profiles/usecase"
)

// RunRegisterProfile registers a user profile. The password is prompted twice when not given.
func RunRegisterProfile(
	ctx context.Context,
	profileUseCase profilesUseCase.ProfileUseCase,
	logger *slog.Logger,
	streams IOTuple,
	userID string,
	orgID string,
	email string,
	password string,
) error {
	password, err := resolveNewSecret(streams, password, "Password: ")
	if err != nil {
		return err
	}

	profile, err := profileUseCase.Register(ctx, &profilesDomain.RegisterProfileInput{
		UserID:   userID,
		OrgID:    orgID,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return fmt.Errorf("failed to register profile: %w", err)
	}

	logger.Info("profile registered",
		slog.String("user_id", profile.UserID),
		slog.String("org_id", profile.OrgID),
	)
	_, _ = fmt.Fprintf(streams.Writer, "Profile %s registered\n", profile.UserID)
	return nil
}

// RunShowProfile decrypts and prints a user profile.
func RunShowProfile(
	ctx context.Context,
	profileUseCase profilesUseCase.ProfileUseCase,
	streams IOTuple,
	userID string,
	password string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	password, err := resolveSecret(streams, password, "Password: ")
	if err != nil {
		return err
	}

	data, err := profileUseCase.Open(ctx, userID, password)
	if err != nil {
		return fmt.Errorf("failed to open profile: %w", err)
	}

	if format == "json" {
		return writeJSON(streams.Writer, data)
	}

	_, _ = fmt.Fprintf(streams.Writer, "Email:     %s\n", data.Email)
	_, _ = fmt.Fprintf(streams.Writer, "Pseudonym: %s\n", data.Pseudonym)
	return nil
}
