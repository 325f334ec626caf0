package app

import (
	"fmt"

	profilesRepository "github.com/pollsay/pollsay/internal/profiles/repository"
	profilesService "github.com/pollsay/pollsay/internal/profiles/service"
	profilesUseCase "github.com/pollsay/pollsay/internal/profiles/usecase"
)

// PasswordService returns the profile password hasher.
func (c *Container) PasswordService() profilesService.PasswordService {
	c.passwordServiceInit.Do(func() {
		c.passwordService = profilesService.NewPasswordService()
	})
	return c.passwordService
}

// ProfileRepository returns the profile repository based on database driver.
func (c *Container) ProfileRepository() (profilesUseCase.ProfileRepository, error) {
	var err error
	c.profileRepoInit.Do(func() {
		c.profileRepo, err = c.initProfileRepository()
		if err != nil {
			c.initErrors["profileRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["profileRepo"]; exists {
		return nil, storedErr
	}
	return c.profileRepo, nil
}

// ProfileUseCase returns the profile use case.
func (c *Container) ProfileUseCase() (profilesUseCase.ProfileUseCase, error) {
	var err error
	c.profileUseCaseInit.Do(func() {
		c.profileUseCase, err = c.initProfileUseCase()
		if err != nil {
			c.initErrors["profileUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["profileUseCase"]; exists {
		return nil, storedErr
	}
	return c.profileUseCase, nil
}

// initProfileRepository creates the profile repository instance.
func (c *Container) initProfileRepository() (profilesUseCase.ProfileRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for profile repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return profilesRepository.NewMySQLProfileRepository(db), nil
	case "postgres":
		return profilesRepository.NewPostgreSQLProfileRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initProfileUseCase creates the profile use case with all its dependencies.
func (c *Container) initProfileUseCase() (profilesUseCase.ProfileUseCase, error) {
	profileRepo, err := c.ProfileRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get profile repository for profile use case: %w", err)
	}

	encryption, err := c.EncryptionService()
	if err != nil {
		return nil, fmt.Errorf("failed to get encryption service for profile use case: %w", err)
	}

	baseUseCase := profilesUseCase.NewProfileUseCase(profileRepo, c.PasswordService(), encryption)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for profile use case: %w", err)
		}
		return profilesUseCase.NewProfileUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
