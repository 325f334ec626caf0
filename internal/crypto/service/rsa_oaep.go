package service

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"fmt"

	cryptoDomain "github.com/pollsay/pollsay/internal/crypto/domain"
)

// RSAKeyWrapper generates organization keypairs and wraps keys with RSA-OAEP-SHA256.
//
// Public keys travel as base64 PKIX DER and private keys as base64 PKCS#8 DER.
type RSAKeyWrapper struct {
	bits int
}

// NewRSAKeyWrapper creates a wrapper producing keypairs of the given modulus size. Sizes below
// 2048 bits are raised to 2048.
func NewRSAKeyWrapper(bits int) *RSAKeyWrapper {
	if bits < cryptoDomain.MinRSAKeyBits {
		bits = cryptoDomain.MinRSAKeyBits
	}
	return &RSAKeyWrapper{bits: bits}
}

// GenerateKeyPair generates a fresh keypair.
func (w *RSAKeyWrapper) GenerateKeyPair() (cryptoDomain.OrgKeyPair, error) {
	priv, err := rsa.GenerateKey(rand.Reader, w.bits)
	if err != nil {
		return cryptoDomain.OrgKeyPair{}, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyGeneration, err)
	}

	pubDER, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		return cryptoDomain.OrgKeyPair{}, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyGeneration, err)
	}
	privDER, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return cryptoDomain.OrgKeyPair{}, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyGeneration, err)
	}
	defer cryptoDomain.Zero(privDER)

	return cryptoDomain.OrgKeyPair{
		PublicKey:  base64.StdEncoding.EncodeToString(pubDER),
		PrivateKey: base64.StdEncoding.EncodeToString(privDER),
	}, nil
}

// Wrap encrypts plaintext under publicKey.
func (w *RSAKeyWrapper) Wrap(plaintext []byte, publicKey string) ([]byte, error) {
	pub, err := parsePublicKey(publicKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyWrap, err)
	}

	ciphertext, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, plaintext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyWrap, err)
	}
	return ciphertext, nil
}

// Unwrap decrypts ciphertext with privateKey. Every failure is reported as ErrKeyUnwrap without
// detail, so a bad key cannot be told apart from a bad ciphertext.
func (w *RSAKeyWrapper) Unwrap(ciphertext []byte, privateKey string) ([]byte, error) {
	priv, err := parsePrivateKey(privateKey)
	if err != nil {
		return nil, cryptoDomain.ErrKeyUnwrap
	}

	plaintext, err := rsa.DecryptOAEP(sha256.New(), nil, priv, ciphertext, nil)
	if err != nil {
		return nil, cryptoDomain.ErrKeyUnwrap
	}
	return plaintext, nil
}

func parsePublicKey(publicKey string) (*rsa.PublicKey, error) {
	der, err := base64.StdEncoding.DecodeString(publicKey)
	if err != nil {
		return nil, fmt.Errorf("decode public key: %w", err)
	}
	key, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}
	pub, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("public key is %T, not RSA", key)
	}
	return pub, nil
}

func parsePrivateKey(privateKey string) (*rsa.PrivateKey, error) {
	der, err := base64.StdEncoding.DecodeString(privateKey)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(der)

	key, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, err
	}
	priv, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("private key is %T, not RSA", key)
	}
	return priv, nil
}
