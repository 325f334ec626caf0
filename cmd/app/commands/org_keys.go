package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	orgsDomain "github.com/pollsay/pollsay/internal/orgs/domain"
	orgsUseCase "github.com/pollsay/pollsay/internal/orgs/usecase"
)

type orgKeyOutput struct {
	OrgID     string    `json:"org_id"`
	Version   uint      `json:"version"`
	PublicKey string    `json:"public_key"`
	Escrowed  bool      `json:"escrowed"`
	CreatedAt time.Time `json:"created_at"`
}

func outputOrgKey(w io.Writer, key *orgsDomain.OrgKey, format string) error {
	if format == "json" {
		return writeJSON(w, orgKeyOutput{
			OrgID:     key.OrgID,
			Version:   key.Version,
			PublicKey: key.PublicKey,
			Escrowed:  key.HasEscrow(),
			CreatedAt: key.CreatedAt,
		})
	}

	_, _ = fmt.Fprintf(w, "Organization: %s\n", key.OrgID)
	_, _ = fmt.Fprintf(w, "Key version:  %d\n", key.Version)
	_, _ = fmt.Fprintf(w, "Escrowed:     %t\n", key.HasEscrow())
	_, _ = fmt.Fprintf(w, "Public key:   %s\n", key.PublicKey)
	return nil
}

// RunInitOrgKey generates the first keypair of an organization. The passphrase is prompted
// twice when not given.
func RunInitOrgKey(
	ctx context.Context,
	orgKeyUseCase orgsUseCase.OrgKeyUseCase,
	logger *slog.Logger,
	streams IOTuple,
	orgID string,
	passphrase string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	passphrase, err := resolveNewSecret(streams, passphrase, "Organization passphrase: ")
	if err != nil {
		return err
	}

	key, err := orgKeyUseCase.Initialize(ctx, &orgsDomain.InitializeInput{
		OrgID:      orgID,
		Passphrase: passphrase,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize organization key: %w", err)
	}

	logger.Info("organization key initialized",
		slog.String("org_id", key.OrgID),
		slog.Uint64("version", uint64(key.Version)),
		slog.Bool("escrowed", key.HasEscrow()),
	)
	return outputOrgKey(streams.Writer, key, format)
}

// RunShowPublicKey prints the active public key of an organization.
func RunShowPublicKey(
	ctx context.Context,
	orgKeyUseCase orgsUseCase.OrgKeyUseCase,
	writer io.Writer,
	orgID string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	key, err := orgKeyUseCase.PublicKey(ctx, orgID)
	if err != nil {
		return fmt.Errorf("failed to get public key: %w", err)
	}
	return outputOrgKey(writer, key, format)
}

// RunRotateOrgKey replaces the organization keypair and re-wraps every stored form and response
// key. The new private key is wrapped under the same passphrase.
func RunRotateOrgKey(
	ctx context.Context,
	orgKeyUseCase orgsUseCase.OrgKeyUseCase,
	logger *slog.Logger,
	streams IOTuple,
	orgID string,
	passphrase string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	passphrase, err := resolveSecret(streams, passphrase, "Organization passphrase: ")
	if err != nil {
		return err
	}

	output, err := orgKeyUseCase.Rotate(ctx, orgID, passphrase)
	if err != nil {
		return fmt.Errorf("failed to rotate organization key: %w", err)
	}

	logger.Info("organization key rotated",
		slog.String("org_id", orgID),
		slog.Uint64("previous_version", uint64(output.PrevVersion)),
		slog.Uint64("version", uint64(output.OrgKey.Version)),
		slog.Int("rewrapped", output.Rewrapped),
	)

	if format == "json" {
		return writeJSON(streams.Writer, map[string]any{
			"org_id":           orgID,
			"previous_version": output.PrevVersion,
			"version":          output.OrgKey.Version,
			"rewrapped":        output.Rewrapped,
		})
	}

	_, _ = fmt.Fprintf(streams.Writer, "Rotated %s from version %d to %d (%d keys re-wrapped)\n",
		orgID, output.PrevVersion, output.OrgKey.Version, output.Rewrapped)
	return nil
}

// RunChangePassphrase re-wraps the active private key of an organization under a new passphrase.
func RunChangePassphrase(
	ctx context.Context,
	orgKeyUseCase orgsUseCase.OrgKeyUseCase,
	logger *slog.Logger,
	streams IOTuple,
	orgID string,
	oldPassphrase string,
	newPassphrase string,
) error {
	oldPassphrase, err := resolveSecret(streams, oldPassphrase, "Current passphrase: ")
	if err != nil {
		return err
	}
	newPassphrase, err = resolveNewSecret(streams, newPassphrase, "New passphrase: ")
	if err != nil {
		return err
	}

	if err := orgKeyUseCase.ChangePassphrase(ctx, orgID, oldPassphrase, newPassphrase); err != nil {
		return fmt.Errorf("failed to change passphrase: %w", err)
	}

	logger.Info("organization passphrase changed", slog.String("org_id", orgID))
	_, _ = fmt.Fprintf(streams.Writer, "Passphrase of %s changed\n", orgID)
	return nil
}

// RunRecoverOrgKey restores access to an organization private key from its KMS escrow copy.
func RunRecoverOrgKey(
	ctx context.Context,
	orgKeyUseCase orgsUseCase.OrgKeyUseCase,
	logger *slog.Logger,
	streams IOTuple,
	orgID string,
	newPassphrase string,
) error {
	newPassphrase, err := resolveNewSecret(streams, newPassphrase, "New passphrase: ")
	if err != nil {
		return err
	}

	if err := orgKeyUseCase.Recover(ctx, orgID, newPassphrase); err != nil {
		return fmt.Errorf("failed to recover organization key: %w", err)
	}

	logger.Info("organization key recovered from escrow", slog.String("org_id", orgID))
	_, _ = fmt.Fprintf(streams.Writer, "Private key of %s recovered under a new passphrase\n", orgID)
	return nil
}

// unlockOrgKey prompts for the passphrase when needed and unlocks the active organization key.
func unlockOrgKey(
	ctx context.Context,
	orgKeyUseCase orgsUseCase.OrgKeyUseCase,
	streams IOTuple,
	orgID string,
	passphrase string,
) (*orgsDomain.UnlockedOrgKey, error) {
	passphrase, err := resolveSecret(streams, passphrase, "Organization passphrase: ")
	if err != nil {
		return nil, err
	}

	unlocked, err := orgKeyUseCase.Unlock(ctx, orgID, passphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to unlock organization key: %w", err)
	}
	return unlocked, nil
}
