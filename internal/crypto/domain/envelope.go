package domain

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

// PayloadEnvelope is the stored form of a JSON payload encrypted under a form key.
//
// It serializes to {"iv":"<base64>","data":"<base64>"}; Data carries the ciphertext with the
// authentication tag appended. Algorithm is omitted for AES-GCM, which keeps envelopes written
// by the default configuration in exactly the two-field shape.
type PayloadEnvelope struct {
	Algorithm Algorithm `json:"alg,omitempty"`
	IV        []byte    `json:"iv"`
	Data      []byte    `json:"data"`
}

// Cipher returns the AEAD algorithm of the envelope.
func (e PayloadEnvelope) Cipher() Algorithm {
	if e.Algorithm == "" {
		return AESGCM
	}
	return e.Algorithm
}

// String serializes the envelope to its JSON text form.
func (e PayloadEnvelope) String() string {
	if e.Algorithm == AESGCM {
		e.Algorithm = ""
	}
	b, _ := json.Marshal(e)
	return string(b)
}

// ParsePayloadEnvelope parses the JSON text form of a PayloadEnvelope.
//
// Returns ErrInvalidEnvelope when the text is not a well-formed envelope, ErrCorruptCiphertext
// when its bytes are damaged and ErrUnsupportedAlgorithm when it names an unknown cipher.
func ParsePayloadEnvelope(content string) (PayloadEnvelope, error) {
	var e PayloadEnvelope
	if err := decodeEnvelope(content, &e); err != nil {
		return PayloadEnvelope{}, err
	}
	if _, err := ParseAlgorithm(string(e.Algorithm)); err != nil {
		return PayloadEnvelope{}, err
	}
	if err := checkSealed(e.IV, e.Data); err != nil {
		return PayloadEnvelope{}, err
	}
	return e, nil
}

// PasswordEnvelope is the stored form of a string encrypted under a PBKDF2-derived key.
//
// It serializes to {"salt":"<base64>","iv":"<base64>","data":"<base64>"}. Each envelope carries
// its own random salt and IV.
type PasswordEnvelope struct {
	Salt []byte `json:"salt"`
	IV   []byte `json:"iv"`
	Data []byte `json:"data"`
}

// String serializes the envelope to its JSON text form.
func (e PasswordEnvelope) String() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// ParsePasswordEnvelope parses the JSON text form of a PasswordEnvelope.
func ParsePasswordEnvelope(content string) (PasswordEnvelope, error) {
	var e PasswordEnvelope
	if err := decodeEnvelope(content, &e); err != nil {
		return PasswordEnvelope{}, err
	}
	if len(e.Salt) == 0 {
		return PasswordEnvelope{}, fmt.Errorf("%w: missing salt", ErrInvalidEnvelope)
	}
	if err := checkSealed(e.IV, e.Data); err != nil {
		return PasswordEnvelope{}, err
	}
	return e, nil
}

func checkSealed(iv, data []byte) error {
	if len(iv) != IVSize {
		return fmt.Errorf("%w: iv must be %d bytes, got %d", ErrInvalidEnvelope, IVSize, len(iv))
	}
	if len(data) < TagSize {
		return fmt.Errorf("%w: ciphertext shorter than authentication tag", ErrCorruptCiphertext)
	}
	return nil
}

func decodeEnvelope(content string, e any) error {
	err := json.Unmarshal([]byte(content), e)
	var corrupt base64.CorruptInputError
	if errors.As(err, &corrupt) {
		return fmt.Errorf("%w: %v", ErrCorruptCiphertext, err)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}
	return nil
}
