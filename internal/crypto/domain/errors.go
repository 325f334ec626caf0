package domain

import (
	"github.com/pollsay/pollsay/internal/errors"
)

// Cryptographic error definitions.
//
// Every failure of the encryption layer is reported through one of these sentinels so callers
// can tell "wrong passphrase" from "corrupted data" without inspecting messages.
var (
	// ErrKeyGeneration indicates the crypto provider failed to produce a keypair or a symmetric key.
	ErrKeyGeneration = errors.Wrap(errors.ErrInternal, "key generation failed")

	// ErrKeyWrap indicates a key could not be wrapped under an organization public key, either
	// because the public key is malformed or the plaintext exceeds the OAEP size limit.
	ErrKeyWrap = errors.Wrap(errors.ErrInvalidInput, "key wrap failed")

	// ErrKeyUnwrap indicates a wrapped key could not be recovered. A wrong private key, a
	// malformed private key and a tampered ciphertext all produce this same error.
	ErrKeyUnwrap = errors.Wrap(errors.ErrInvalidInput, "key unwrap failed")

	// ErrPayloadDecrypt indicates AEAD authentication of a payload envelope failed.
	ErrPayloadDecrypt = errors.Wrap(errors.ErrInvalidInput, "payload decryption failed")

	// ErrPasswordDecrypt indicates a password-derived key failed to authenticate an envelope.
	ErrPasswordDecrypt = errors.Wrap(errors.ErrUnauthorized, "password decryption failed")

	// ErrInvalidEnvelope indicates an envelope string is not well-formed (bad JSON, missing
	// salt, wrong IV length).
	ErrInvalidEnvelope = errors.Wrap(errors.ErrInvalidInput, "invalid envelope")

	// ErrCorruptCiphertext indicates a well-formed envelope whose bytes were damaged: a field
	// that is not valid base64 or a ciphertext shorter than the authentication tag. Decryption
	// reports it as ErrPayloadDecrypt or ErrPasswordDecrypt, like any other tampering.
	ErrCorruptCiphertext = errors.Wrap(ErrInvalidEnvelope, "corrupt ciphertext")

	// ErrInvalidKeyMaterial indicates an exported symmetric key could not be decoded.
	ErrInvalidKeyMaterial = errors.Wrap(errors.ErrInvalidInput, "invalid key material")

	// ErrInvalidKeySize indicates a symmetric key is not exactly KeySize bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrUnsupportedAlgorithm indicates an unknown payload cipher.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrPayloadEncoding indicates a payload could not be serialized to or parsed from JSON.
	ErrPayloadEncoding = errors.Wrap(errors.ErrInvalidInput, "invalid payload encoding")

	// ErrKMSUnavailable indicates no KMS keeper is configured or the keeper failed.
	ErrKMSUnavailable = errors.Wrap(errors.ErrInternal, "kms unavailable")
)
