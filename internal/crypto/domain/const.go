// Package domain defines the cryptographic domain models of PollSay's end-to-end encryption layer:
// organization keypairs, per-form symmetric keys and the self-describing envelopes that carry
// ciphertext between the encryption service and the record store.
package domain

// Algorithm represents the AEAD cipher used for payload envelopes.
//
// Both supported algorithms use 256-bit keys, 96-bit nonces and 128-bit authentication tags,
// so envelopes produced by either have the same shape.
type Algorithm string

const (
	// AESGCM represents AES-256-GCM. It is the default payload cipher and the only cipher used
	// for password envelopes.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents ChaCha20-Poly1305, selectable for payload envelopes on hosts without
	// AES hardware acceleration.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// ParseAlgorithm converts a configuration string into an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case AESGCM, "":
		return AESGCM, nil
	case ChaCha20:
		return ChaCha20, nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}

const (
	// KeySize is the size in bytes of every symmetric key (form keys, derived password keys).
	KeySize = 32

	// IVSize is the size in bytes of the AEAD nonce stored in envelopes.
	IVSize = 12

	// TagSize is the size in bytes of the AEAD authentication tag appended to ciphertexts.
	TagSize = 16

	// SaltSize is the size in bytes of the random salt of a password envelope.
	SaltSize = 16

	// PBKDF2Iterations is the iteration count of the password key derivation. Changing it makes
	// existing password envelopes undecryptable.
	PBKDF2Iterations = 100000

	// MinRSAKeyBits is the smallest accepted modulus for organization keypairs.
	MinRSAKeyBits = 2048
)
