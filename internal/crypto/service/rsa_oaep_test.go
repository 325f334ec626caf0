package service

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/base64"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/pollsay/pollsay/internal/crypto/domain"
)

var (
	testKeyPairsOnce sync.Once
	testKeyPairs     [2]cryptoDomain.OrgKeyPair
)

// orgKeyPairs returns two keypairs shared by the package tests; RSA generation is slow.
func orgKeyPairs(t *testing.T) (cryptoDomain.OrgKeyPair, cryptoDomain.OrgKeyPair) {
	t.Helper()
	testKeyPairsOnce.Do(func() {
		w := NewRSAKeyWrapper(cryptoDomain.MinRSAKeyBits)
		for i := range testKeyPairs {
			kp, err := w.GenerateKeyPair()
			if err != nil {
				panic(err)
			}
			testKeyPairs[i] = kp
		}
	})
	return testKeyPairs[0], testKeyPairs[1]
}

func TestNewRSAKeyWrapper(t *testing.T) {
	assert.Equal(t, 2048, NewRSAKeyWrapper(1024).bits)
	assert.Equal(t, 3072, NewRSAKeyWrapper(3072).bits)
}

func TestRSAKeyWrapper_GenerateKeyPair(t *testing.T) {
	kp, _ := orgKeyPairs(t)

	pubDER, err := base64.StdEncoding.DecodeString(kp.PublicKey)
	require.NoError(t, err)
	pub, err := parsePublicKey(kp.PublicKey)
	require.NoError(t, err)
	assert.Equal(t, 2048, pub.N.BitLen())
	assert.NotEmpty(t, pubDER)

	priv, err := parsePrivateKey(kp.PrivateKey)
	require.NoError(t, err)
	assert.True(t, priv.PublicKey.Equal(pub))
}

func TestRSAKeyWrapper_WrapUnwrap(t *testing.T) {
	w := NewRSAKeyWrapper(2048)
	kp, other := orgKeyPairs(t)
	key := randomKey(t)

	wrapped, err := w.Wrap(key, kp.PublicKey)
	require.NoError(t, err)
	assert.Len(t, wrapped, 256)

	unwrapped, err := w.Unwrap(wrapped, kp.PrivateKey)
	require.NoError(t, err)
	assert.Equal(t, key, unwrapped)

	t.Run("wrong private key", func(t *testing.T) {
		_, err := w.Unwrap(wrapped, other.PrivateKey)
		assert.Equal(t, cryptoDomain.ErrKeyUnwrap, err)
	})

	t.Run("malformed private key", func(t *testing.T) {
		_, err := w.Unwrap(wrapped, "bm90LWEta2V5")
		assert.Equal(t, cryptoDomain.ErrKeyUnwrap, err)
	})

	t.Run("tampered ciphertext", func(t *testing.T) {
		tampered := append([]byte(nil), wrapped...)
		tampered[10] ^= 0x01
		_, err := w.Unwrap(tampered, kp.PrivateKey)
		assert.Equal(t, cryptoDomain.ErrKeyUnwrap, err)
	})

	t.Run("malformed public key", func(t *testing.T) {
		_, err := w.Wrap(key, "%%%")
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyWrap)
	})

	t.Run("non-rsa public key", func(t *testing.T) {
		ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		require.NoError(t, err)
		der, err := x509.MarshalPKIXPublicKey(&ecKey.PublicKey)
		require.NoError(t, err)

		_, err = w.Wrap(key, base64.StdEncoding.EncodeToString(der))
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyWrap)
	})

	t.Run("plaintext above oaep limit", func(t *testing.T) {
		_, err := w.Wrap(make([]byte, 256), kp.PublicKey)
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyWrap)
	})
}
