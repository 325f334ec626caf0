package service

import (
	"fmt"

	cryptoDomain "github.com/pollsay/pollsay/internal/crypto/domain"
)

// payloadCiphers lists the AEADs a payload envelope may name. Form keys are shared by both, so
// switching PAYLOAD_ALGORITHM never strands existing envelopes.
var payloadCiphers = map[cryptoDomain.Algorithm]func(key []byte) (AEAD, error){
	cryptoDomain.AESGCM: func(key []byte) (AEAD, error) {
		c, err := NewAESGCM(key)
		if err != nil {
			return nil, err
		}
		return c, nil
	},
	cryptoDomain.ChaCha20: func(key []byte) (AEAD, error) {
		c, err := NewChaCha20Poly1305(key)
		if err != nil {
			return nil, err
		}
		return c, nil
	},
}

// AEADManagerService builds the payload cipher of a form key.
type AEADManagerService struct{}

// NewAEADManager creates a new AEADManagerService.
func NewAEADManager() *AEADManagerService {
	return &AEADManagerService{}
}

// CreateCipher returns the AEAD alg names keyed by a form key.
// Returns ErrInvalidKeySize unless key is KeySize bytes and ErrUnsupportedAlgorithm for an unknown alg.
func (am *AEADManagerService) CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, fmt.Errorf("%w: got %d bytes", cryptoDomain.ErrInvalidKeySize, len(key))
	}

	newCipher, ok := payloadCiphers[alg]
	if !ok {
		return nil, fmt.Errorf("%w: %q", cryptoDomain.ErrUnsupportedAlgorithm, alg)
	}
	return newCipher(key)
}
