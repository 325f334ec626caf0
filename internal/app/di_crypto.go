package app

import (
	"context"
	"fmt"

	cryptoDomain "github.com/pollsay/pollsay/internal/crypto/domain"
	cryptoService "github.com/pollsay/pollsay/internal/crypto/service"
)

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// KeyWrapper returns the RSA-OAEP key wrapper.
func (c *Container) KeyWrapper() cryptoService.KeyWrapper {
	c.keyWrapperInit.Do(func() {
		c.keyWrapper = cryptoService.NewRSAKeyWrapper(c.config.RSAKeyBits)
	})
	return c.keyWrapper
}

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// EncryptionService returns the end-to-end encryption service.
func (c *Container) EncryptionService() (cryptoService.EncryptionService, error) {
	var err error
	c.encryptionServiceInit.Do(func() {
		c.encryptionService, err = c.initEncryptionService()
		if err != nil {
			c.initErrors["encryptionService"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["encryptionService"]; exists {
		return nil, storedErr
	}
	return c.encryptionService, nil
}

// EscrowKeeper returns the KMS keeper used to escrow organization private keys, or nil when
// KMS_KEY_URI is not set.
func (c *Container) EscrowKeeper() (cryptoDomain.KMSKeeper, error) {
	var err error
	c.escrowKeeperInit.Do(func() {
		c.escrowKeeper, err = c.initEscrowKeeper()
		if err != nil {
			c.initErrors["escrowKeeper"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["escrowKeeper"]; exists {
		return nil, storedErr
	}
	return c.escrowKeeper, nil
}

// initEncryptionService creates the encryption service with the configured payload cipher.
func (c *Container) initEncryptionService() (cryptoService.EncryptionService, error) {
	alg, err := cryptoDomain.ParseAlgorithm(c.config.PayloadAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("invalid payload algorithm %q: %w", c.config.PayloadAlgorithm, err)
	}
	return cryptoService.NewEncryptionService(c.AEADManager(), c.KeyWrapper(), alg), nil
}

// initEscrowKeeper opens the escrow keeper when a key URI is configured.
func (c *Container) initEscrowKeeper() (cryptoDomain.KMSKeeper, error) {
	if c.config.KMSKeyURI == "" {
		c.Logger().Debug("kms escrow disabled")
		return nil, nil
	}

	keeper, err := c.KMSService().OpenKeeper(context.Background(), c.config.KMSKeyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open escrow keeper: %w", err)
	}
	return keeper, nil
}
