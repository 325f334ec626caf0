// Package commands contains CLI command implementations for the application.
package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"golang.org/x/term"
)

// IOTuple holds reader and writers for commands, allowing for testing.
//
// Results go to Writer; prompts go to ErrWriter so piped output stays machine readable.
type IOTuple struct {
	Reader    io.Reader
	Writer    io.Writer
	ErrWriter io.Writer
}

// DefaultIO returns an IOTuple with os.Stdin, os.Stdout and os.Stderr.
func DefaultIO() IOTuple {
	return IOTuple{
		Reader:    os.Stdin,
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
	}
}

// closeMigrate closes the migration instance and logs any errors.
func closeMigrate(migrate *migrate.Migrate, logger *slog.Logger) {
	sourceError, databaseError := migrate.Close()
	if sourceError != nil || databaseError != nil {
		logger.Error(
			"failed to close the migrate",
			slog.Any("source_error", sourceError),
			slog.Any("database_error", databaseError),
		)
	}
}

// validateFormat rejects output formats other than text and json.
func validateFormat(format string) error {
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid format: %s (valid options: text, json)", format)
	}
	return nil
}

// writeJSON writes v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal json output: %w", err)
	}
	_, _ = fmt.Fprintln(w, string(jsonBytes))
	return nil
}

// readLine reads a single line without buffering past the newline, so several prompts can share
// one reader. The trailing "\r\n" or "\n" is stripped.
func readLine(r io.Reader) (string, error) {
	var sb strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if buf[0] == '\n' {
				break
			}
			sb.WriteByte(buf[0])
		}
		if err != nil {
			if errors.Is(err, io.EOF) && sb.Len() > 0 {
				break
			}
			return "", err
		}
	}
	return strings.TrimRight(sb.String(), "\r"), nil
}

// readSecret prompts for a secret. Input is hidden when the reader is a terminal.
func readSecret(streams IOTuple, prompt string) (string, error) {
	_, _ = fmt.Fprint(streams.ErrWriter, prompt)

	if f, ok := streams.Reader.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		_, _ = fmt.Fprintln(streams.ErrWriter)
		if err != nil {
			return "", fmt.Errorf("failed to read secret: %w", err)
		}
		return string(secret), nil
	}

	secret, err := readLine(streams.Reader)
	if err != nil {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}
	return secret, nil
}

// resolveSecret returns value when set, otherwise prompts for it.
func resolveSecret(streams IOTuple, value, prompt string) (string, error) {
	if value != "" {
		return value, nil
	}
	return readSecret(streams, prompt)
}

// resolveNewSecret is resolveSecret for secrets being chosen: a prompted value must be typed
// twice.
func resolveNewSecret(streams IOTuple, value, prompt string) (string, error) {
	if value != "" {
		return value, nil
	}

	first, err := readSecret(streams, prompt)
	if err != nil {
		return "", err
	}
	second, err := readSecret(streams, "Confirm: ")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", errors.New("entries do not match")
	}
	return first, nil
}

// readInput returns value when set, otherwise the whole of the reader.
func readInput(r io.Reader, value string) ([]byte, error) {
	if value != "" {
		return []byte(value), nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return data, nil
}
