package app

import (
	"fmt"

	orgsRepository "github.com/pollsay/pollsay/internal/orgs/repository"
	orgsUseCase "github.com/pollsay/pollsay/internal/orgs/usecase"
)

// OrgKeyRepository returns the organization key repository based on database driver.
func (c *Container) OrgKeyRepository() (orgsUseCase.OrgKeyRepository, error) {
	var err error
	c.orgKeyRepoInit.Do(func() {
		c.orgKeyRepo, err = c.initOrgKeyRepository()
		if err != nil {
			c.initErrors["orgKeyRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["orgKeyRepo"]; exists {
		return nil, storedErr
	}
	return c.orgKeyRepo, nil
}

// WrappedKeyRepository returns the wrapped key repository based on database driver.
func (c *Container) WrappedKeyRepository() (orgsUseCase.WrappedKeyRepository, error) {
	var err error
	c.wrappedKeyRepoInit.Do(func() {
		c.wrappedKeyRepo, err = c.initWrappedKeyRepository()
		if err != nil {
			c.initErrors["wrappedKeyRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["wrappedKeyRepo"]; exists {
		return nil, storedErr
	}
	return c.wrappedKeyRepo, nil
}

// UnlockLimiter returns the per-organization unlock attempt limiter.
func (c *Container) UnlockLimiter() *orgsUseCase.UnlockLimiter {
	c.unlockLimiterInit.Do(func() {
		c.unlockLimiter = orgsUseCase.NewUnlockLimiter(
			c.config.UnlockRateLimitPerSec,
			c.config.UnlockRateLimitBurst,
		)
	})
	return c.unlockLimiter
}

// OrgKeyUseCase returns the organization key use case.
func (c *Container) OrgKeyUseCase() (orgsUseCase.OrgKeyUseCase, error) {
	var err error
	c.orgKeyUseCaseInit.Do(func() {
		c.orgKeyUseCase, err = c.initOrgKeyUseCase()
		if err != nil {
			c.initErrors["orgKeyUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["orgKeyUseCase"]; exists {
		return nil, storedErr
	}
	return c.orgKeyUseCase, nil
}

// initOrgKeyRepository creates the organization key repository instance.
func (c *Container) initOrgKeyRepository() (orgsUseCase.OrgKeyRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for org key repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return orgsRepository.NewMySQLOrgKeyRepository(db), nil
	case "postgres":
		return orgsRepository.NewPostgreSQLOrgKeyRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initWrappedKeyRepository creates the wrapped key repository instance.
func (c *Container) initWrappedKeyRepository() (orgsUseCase.WrappedKeyRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for wrapped key repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return orgsRepository.NewMySQLWrappedKeyRepository(db), nil
	case "postgres":
		return orgsRepository.NewPostgreSQLWrappedKeyRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initOrgKeyUseCase creates the organization key use case with all its dependencies.
func (c *Container) initOrgKeyUseCase() (orgsUseCase.OrgKeyUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for org key use case: %w", err)
	}

	orgKeyRepo, err := c.OrgKeyRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get org key repository for org key use case: %w", err)
	}

	wrappedKeyRepo, err := c.WrappedKeyRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get wrapped key repository for org key use case: %w", err)
	}

	encryption, err := c.EncryptionService()
	if err != nil {
		return nil, fmt.Errorf("failed to get encryption service for org key use case: %w", err)
	}

	keeper, err := c.EscrowKeeper()
	if err != nil {
		return nil, fmt.Errorf("failed to get escrow keeper for org key use case: %w", err)
	}

	baseUseCase := orgsUseCase.NewOrgKeyUseCase(
		txManager,
		orgKeyRepo,
		wrappedKeyRepo,
		encryption,
		keeper,
		c.UnlockLimiter(),
		c.config.RewrapConcurrency,
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for org key use case: %w", err)
		}
		return orgsUseCase.NewOrgKeyUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
