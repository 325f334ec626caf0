// Package service implements PollSay's end-to-end encryption primitives: AEAD ciphers for
// payloads, RSA-OAEP key wrapping for form keys, PBKDF2 password envelopes and pseudonyms.
//
// Every service here is stateless apart from the process-wide crypto/rand source and is safe for
// concurrent use.
package service

import (
	"context"

	cryptoDomain "github.com/pollsay/pollsay/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and a fresh nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// KeyWrapper generates organization keypairs and wraps small secrets under their public half.
type KeyWrapper interface {
	GenerateKeyPair() (cryptoDomain.OrgKeyPair, error)
	Wrap(plaintext []byte, publicKey string) ([]byte, error)
	Unwrap(ciphertext []byte, privateKey string) ([]byte, error)
}

// EncryptionService is the contract the use cases and the CLI call with plaintext in and
// ciphertext out (and vice versa). All values crossing it are strings: base64 for binary
// material, JSON text for envelopes.
type EncryptionService interface {
	// GenerateOrgKeyPair generates a fresh RSA-OAEP-SHA256 keypair.
	GenerateOrgKeyPair() (cryptoDomain.OrgKeyPair, error)

	// GenerateFormKey generates a fresh 256-bit AES key.
	GenerateFormKey() (*cryptoDomain.FormKey, error)

	// EncryptFormKey wraps an exported form key under an organization public key and returns the
	// base64 ciphertext.
	EncryptFormKey(exportedFormKey, orgPublicKey string) (string, error)

	// DecryptFormKey unwraps a form key with the organization private key and returns its
	// exported form.
	DecryptFormKey(encryptedFormKey, orgPrivateKey string) (string, error)

	// EncryptFormData encrypts any JSON-serializable payload under a form key.
	EncryptFormData(payload any, exportedFormKey string) (string, error)

	// DecryptFormData decrypts a payload envelope and unmarshals the JSON plaintext into out.
	DecryptFormData(envelope, exportedFormKey string, out any) error

	// DecryptFormDataRaw decrypts a payload envelope and returns the JSON plaintext.
	DecryptFormDataRaw(envelope, exportedFormKey string) ([]byte, error)

	// EncryptWithPassword encrypts plaintext under a PBKDF2-derived key.
	EncryptWithPassword(plaintext, password string) (string, error)

	// DecryptWithPassword reverses EncryptWithPassword.
	DecryptWithPassword(envelope, password string) (string, error)

	// EncryptUserProfile encrypts structured profile data under caller-derived key material.
	EncryptUserProfile(profile any, keyMaterial string) (string, error)

	// DecryptUserProfile reverses EncryptUserProfile, unmarshalling into out.
	DecryptUserProfile(envelope, keyMaterial string, out any) error

	// GeneratePseudonym derives the display pseudonym of an email within an organization.
	GeneratePseudonym(email, orgID string) string
}

// KMSService opens KMS keepers used to escrow organization private keys.
type KMSService interface {
	// OpenKeeper opens a keeper for keyURI. Returns an error if the URI is invalid or the
	// provider cannot be reached.
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)
}
