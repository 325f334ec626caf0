package commands

import (
	"fmt"
	"io"
	"log/slog"

	cryptoService "github.com/pollsay/pollsay/internal/crypto/service"
)

// RunGenerateKeyPair prints a fresh organization keypair without storing it. The private key is
// printed in the clear, so this is meant for integration testing only.
func RunGenerateKeyPair(
	encryption cryptoService.EncryptionService,
	logger *slog.Logger,
	writer io.Writer,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	pair, err := encryption.GenerateOrgKeyPair()
	if err != nil {
		return fmt.Errorf("failed to generate keypair: %w", err)
	}
	logger.Warn("printing an unprotected private key")

	if format == "json" {
		return writeJSON(writer, map[string]string{
			"public_key":  pair.PublicKey,
			"private_key": pair.PrivateKey,
		})
	}

	_, _ = fmt.Fprintf(writer, "Public key:  %s\n", pair.PublicKey)
	_, _ = fmt.Fprintf(writer, "Private key: %s\n", pair.PrivateKey)
	return nil
}
