package app

import (
	"context"
	"fmt"

	mfaRepository "github.com/glowdesk/securekit/internal/mfa/repository"
	mfaService "github.com/glowdesk/securekit/internal/mfa/service"
	mfaUsecase "github.com/glowdesk/securekit/internal/mfa/usecase"
	"github.com/glowdesk/securekit/internal/notification"
	"github.com/glowdesk/securekit/internal/ratelimit"
)

// TOTPService returns the TOTP service.
func (c *Container) TOTPService() *mfaService.TOTPService {
	c.totpServiceInit.Do(func() {
		c.totpService = mfaService.NewTOTPService(c.config.MFAIssuer)
	})
	return c.totpService
}

// CodeService returns the one-time code service.
func (c *Container) CodeService() *mfaService.CodeService {
	c.codeServiceInit.Do(func() {
		c.codeService = mfaService.NewCodeService()
	})
	return c.codeService
}

// EmailSender returns the outbound email channel. In dev mode messages are
// logged instead of sent.
func (c *Container) EmailSender() (notification.EmailSender, error) {
	var err error
	c.emailSenderInit.Do(func() {
		if c.config.NotificationDev {
			c.emailSender = notification.NewDevEmailSender(c.Logger())
			return
		}
		c.emailSender, err = notification.NewPostmarkEmailSender(
			c.config.PostmarkServerToken,
			c.config.PostmarkAccountToken,
			c.config.EmailSender,
		)
		if err != nil {
			c.initErrors["emailSender"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["emailSender"]; exists {
		return nil, storedErr
	}
	return c.emailSender, nil
}

// SMSSender returns the outbound SMS channel. In dev mode messages are
// logged instead of sent.
func (c *Container) SMSSender() (notification.SMSSender, error) {
	var err error
	c.smsSenderInit.Do(func() {
		if c.config.NotificationDev {
			c.smsSender = notification.NewDevSMSSender(c.Logger())
			return
		}
		c.smsSender, err = notification.NewHTTPSMSSender(c.config.SMSGatewayURL, c.config.SMSGatewayToken)
		if err != nil {
			c.initErrors["smsSender"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["smsSender"]; exists {
		return nil, storedErr
	}
	return c.smsSender, nil
}

// RateLimiter returns the fixed-window rate limiter gating MFA operations.
func (c *Container) RateLimiter(ctx context.Context) (ratelimit.Limiter, error) {
	var err error
	c.limiterInit.Do(func() {
		store, storeErr := c.CacheStore(ctx)
		if storeErr != nil {
			err = storeErr
			c.initErrors["rateLimiter"] = err
			return
		}
		limits := map[ratelimit.Operation]ratelimit.Limit{
			ratelimit.OpEnroll:   {Max: c.config.RateLimitEnrollMax, Window: c.config.RateLimitEnrollWindow},
			ratelimit.OpVerify:   {Max: c.config.RateLimitVerifyMax, Window: c.config.RateLimitVerifyWindow},
			ratelimit.OpUnenroll: {Max: c.config.RateLimitUnenrollMax, Window: c.config.RateLimitUnenrollWindow},
		}
		c.limiter = ratelimit.NewCacheLimiter(store, limits, c.config.RateLimitEnforce, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["rateLimiter"]; exists {
		return nil, storedErr
	}
	return c.limiter, nil
}

// MFASettingsRepository returns the MFA settings repository based on the database driver.
func (c *Container) MFASettingsRepository() (mfaUsecase.MFASettingsRepository, error) {
	var err error
	c.mfaRepoInit.Do(func() {
		c.mfaRepo, err = c.initMFASettingsRepository()
		if err != nil {
			c.initErrors["mfaRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["mfaRepo"]; exists {
		return nil, storedErr
	}
	return c.mfaRepo, nil
}

func (c *Container) initMFASettingsRepository() (mfaUsecase.MFASettingsRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for mfa settings repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return mfaRepository.NewMySQLMFASettingsRepository(db), nil
	case "postgres":
		return mfaRepository.NewPostgreSQLMFASettingsRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// MFAUseCase returns the MFA use case, wrapped with metrics.
func (c *Container) MFAUseCase(ctx context.Context) (mfaUsecase.MFAUseCase, error) {
	var err error
	c.mfaUCInit.Do(func() {
		c.mfaUC, err = c.initMFAUseCase(ctx)
		if err != nil {
			c.initErrors["mfaUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["mfaUseCase"]; exists {
		return nil, storedErr
	}
	return c.mfaUC, nil
}

func (c *Container) initMFAUseCase(ctx context.Context) (mfaUsecase.MFAUseCase, error) {
	repository, err := c.MFASettingsRepository()
	if err != nil {
		return nil, err
	}

	encryption, err := c.EncryptionUseCase(ctx)
	if err != nil {
		return nil, err
	}

	codeStore, err := c.CacheStore(ctx)
	if err != nil {
		return nil, err
	}

	emailSender, err := c.EmailSender()
	if err != nil {
		return nil, err
	}

	smsSender, err := c.SMSSender()
	if err != nil {
		return nil, err
	}

	limiter, err := c.RateLimiter(ctx)
	if err != nil {
		return nil, err
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, err
	}

	useCase := mfaUsecase.NewMFAUseCase(
		repository,
		encryption,
		c.TOTPService(),
		c.CodeService(),
		codeStore,
		c.config.MFACodeTTL,
		emailSender,
		smsSender,
		limiter,
		c.Logger(),
	)

	return mfaUsecase.NewMFAUseCaseWithMetrics(useCase, businessMetrics), nil
}
