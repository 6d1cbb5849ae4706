package app

import (
	"fmt"

	recoveryRepository "github.com/glowdesk/securekit/internal/recovery/repository"
	recoveryUsecase "github.com/glowdesk/securekit/internal/recovery/usecase"
)

// RecoveryCodeRepository returns the recovery code repository based on the database driver.
func (c *Container) RecoveryCodeRepository() (recoveryUsecase.RecoveryCodeRepository, error) {
	var err error
	c.recoveryRepoInit.Do(func() {
		c.recoveryRepo, err = c.initRecoveryCodeRepository()
		if err != nil {
			c.initErrors["recoveryRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["recoveryRepo"]; exists {
		return nil, storedErr
	}
	return c.recoveryRepo, nil
}

func (c *Container) initRecoveryCodeRepository() (recoveryUsecase.RecoveryCodeRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for recovery code repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return recoveryRepository.NewMySQLRecoveryCodeRepository(db), nil
	case "postgres":
		return recoveryRepository.NewPostgreSQLRecoveryCodeRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// RecoveryCodeUseCase returns the recovery code use case, wrapped with metrics.
func (c *Container) RecoveryCodeUseCase() (recoveryUsecase.RecoveryCodeUseCase, error) {
	var err error
	c.recoveryUCInit.Do(func() {
		c.recoveryUC, err = c.initRecoveryCodeUseCase()
		if err != nil {
			c.initErrors["recoveryUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["recoveryUseCase"]; exists {
		return nil, storedErr
	}
	return c.recoveryUC, nil
}

func (c *Container) initRecoveryCodeUseCase() (recoveryUsecase.RecoveryCodeUseCase, error) {
	repository, err := c.RecoveryCodeRepository()
	if err != nil {
		return nil, err
	}

	txManager, err := c.TxManager()
	if err != nil {
		return nil, err
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, err
	}

	useCase := recoveryUsecase.NewRecoveryCodeUseCase(repository, txManager, c.Logger())
	return recoveryUsecase.NewRecoveryCodeUseCaseWithMetrics(useCase, businessMetrics), nil
}
