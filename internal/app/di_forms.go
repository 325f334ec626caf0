package app

import (
	"fmt"

	formsRepository "github.com/pollsay/pollsay/internal/forms/repository"
	formsUseCase "github.com/pollsay/pollsay/internal/forms/usecase"
)

// FormRepository returns the form repository based on database driver.
func (c *Container) FormRepository() (formsUseCase.FormRepository, error) {
	var err error
	c.formRepoInit.Do(func() {
		c.formRepo, err = c.initFormRepository()
		if err != nil {
			c.initErrors["formRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["formRepo"]; exists {
		return nil, storedErr
	}
	return c.formRepo, nil
}

// ResponseRepository returns the response repository based on database driver.
func (c *Container) ResponseRepository() (formsUseCase.ResponseRepository, error) {
	var err error
	c.responseRepoInit.Do(func() {
		c.responseRepo, err = c.initResponseRepository()
		if err != nil {
			c.initErrors["responseRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["responseRepo"]; exists {
		return nil, storedErr
	}
	return c.responseRepo, nil
}

// FormUseCase returns the form use case.
func (c *Container) FormUseCase() (formsUseCase.FormUseCase, error) {
	var err error
	c.formUseCaseInit.Do(func() {
		c.formUseCase, err = c.initFormUseCase()
		if err != nil {
			c.initErrors["formUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["formUseCase"]; exists {
		return nil, storedErr
	}
	return c.formUseCase, nil
}

// initFormRepository creates the form repository instance.
func (c *Container) initFormRepository() (formsUseCase.FormRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for form repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return formsRepository.NewMySQLFormRepository(db), nil
	case "postgres":
		return formsRepository.NewPostgreSQLFormRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initResponseRepository creates the response repository instance.
func (c *Container) initResponseRepository() (formsUseCase.ResponseRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for response repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return formsRepository.NewMySQLResponseRepository(db), nil
	case "postgres":
		return formsRepository.NewPostgreSQLResponseRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initFormUseCase creates the form use case with all its dependencies.
func (c *Container) initFormUseCase() (formsUseCase.FormUseCase, error) {
	formRepo, err := c.FormRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get form repository for form use case: %w", err)
	}

	responseRepo, err := c.ResponseRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get response repository for form use case: %w", err)
	}

	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for form use case: %w", err)
	}

	orgKeys, err := c.OrgKeyRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get org key repository for form use case: %w", err)
	}

	encryption, err := c.EncryptionService()
	if err != nil {
		return nil, fmt.Errorf("failed to get encryption service for form use case: %w", err)
	}

	baseUseCase := formsUseCase.NewFormUseCase(
		txManager,
		formRepo,
		responseRepo,
		orgKeys,
		encryption,
		c.config.RewrapConcurrency,
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for form use case: %w", err)
		}
		return formsUseCase.NewFormUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
