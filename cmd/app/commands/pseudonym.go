package commands

import (
	"errors"
	"fmt"
	"io"

	cryptoService "github.com/pollsay/pollsay/internal/crypto/service"
)

// RunPseudonym prints the pseudonym a respondent email gets within an organization.
func RunPseudonym(writer io.Writer, email, orgID, format string) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	if email == "" || orgID == "" {
		return errors.New("email and org id are required")
	}

	pseudonym := cryptoService.GeneratePseudonym(email, orgID)

	if format == "json" {
		return writeJSON(writer, map[string]string{
			"org_id":    orgID,
			"pseudonym": pseudonym,
		})
	}

	_, _ = fmt.Fprintln(writer, pseudonym)
	return nil
}
