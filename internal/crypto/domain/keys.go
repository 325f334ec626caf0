package domain

import (
	"context"
	"encoding/base64"
)

// OrgKeyPair holds an organization's RSA-OAEP keypair in portable form.
//
// PublicKey is the base64 encoding of the PKIX (SPKI) DER public key and may be stored in the
// clear. PrivateKey is the base64 encoding of the PKCS#8 DER private key and must only be
// persisted inside a password envelope.
type OrgKeyPair struct {
	PublicKey  string
	PrivateKey string
}

// FormKey is a per-form AES-256 key.
//
// Key is the live key material used for immediate encryption; Exported is its base64 form used
// for wrapping under an organization public key. Neither is ever persisted in plaintext.
type FormKey struct {
	Key      []byte
	Exported string
}

// NewFormKey builds a FormKey from raw key bytes.
func NewFormKey(key []byte) (*FormKey, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}
	return &FormKey{Key: key, Exported: base64.StdEncoding.EncodeToString(key)}, nil
}

// ImportFormKey decodes an exported form key.
func ImportFormKey(exported string) (*FormKey, error) {
	key, err := base64.StdEncoding.DecodeString(exported)
	if err != nil {
		return nil, ErrInvalidKeyMaterial
	}
	if len(key) != KeySize {
		Zero(key)
		return nil, ErrInvalidKeySize
	}
	return &FormKey{Key: key, Exported: exported}, nil
}

// Close zeroes the live key material.
func (k *FormKey) Close() {
	if k == nil {
		return
	}
	Zero(k.Key)
}

// KMSKeeper is the subset of *secrets.Keeper used to escrow organization private keys.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// Zero overwrites a byte slice with zeros to clear sensitive data from memory.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
