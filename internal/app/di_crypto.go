package app

import (
	"context"
	"fmt"

	cryptoDomain "github.com/glowdesk/securekit/internal/crypto/domain"
	cryptoRepository "github.com/glowdesk/securekit/internal/crypto/repository"
	cryptoService "github.com/glowdesk/securekit/internal/crypto/service"
	cryptoUsecase "github.com/glowdesk/securekit/internal/crypto/usecase"
)

// EnvelopeKeyProvider returns the KMS-backed envelope key provider.
func (c *Container) EnvelopeKeyProvider(ctx context.Context) (*cryptoService.KMSEnvelopeKeyProvider, error) {
	var err error
	c.envelopeProviderInit.Do(func() {
		if c.config.KMSKeyURI == "" {
			err = fmt.Errorf("KMS_KEY_URI is required")
			c.initErrors["envelopeProvider"] = err
			return
		}
		c.envelopeProvider, err = cryptoService.NewKMSEnvelopeKeyProvider(ctx, c.config.KMSKeyURI)
		if err != nil {
			c.initErrors["envelopeProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["envelopeProvider"]; exists {
		return nil, storedErr
	}
	return c.envelopeProvider, nil
}

// KeyStore returns the cache-backed data key store.
func (c *Container) KeyStore(ctx context.Context) (cryptoUsecase.KeyStore, error) {
	var err error
	c.keyStoreInit.Do(func() {
		store, storeErr := c.CacheStore(ctx)
		if storeErr != nil {
			err = storeErr
			c.initErrors["keyStore"] = err
			return
		}
		c.keyStore = cryptoRepository.NewCacheKeyStore(store)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyStore"]; exists {
		return nil, storedErr
	}
	return c.keyStore, nil
}

// EncryptionUseCase returns the encryption use case, wrapped with metrics.
func (c *Container) EncryptionUseCase(ctx context.Context) (cryptoUsecase.EncryptionUseCase, error) {
	var err error
	c.encryptionUCInit.Do(func() {
		c.encryptionUC, err = c.initEncryptionUseCase(ctx)
		if err != nil {
			c.initErrors["encryptionUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["encryptionUseCase"]; exists {
		return nil, storedErr
	}
	return c.encryptionUC, nil
}

func (c *Container) initEncryptionUseCase(ctx context.Context) (cryptoUsecase.EncryptionUseCase, error) {
	provider, err := c.EnvelopeKeyProvider(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get envelope key provider: %w", err)
	}

	keyStore, err := c.KeyStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get key store: %w", err)
	}

	algorithm, err := cryptoDomain.ParseAlgorithm(c.config.EncryptionAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("invalid encryption algorithm: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics: %w", err)
	}

	useCase := cryptoUsecase.NewEncryptionUseCase(
		keyStore,
		provider,
		cryptoService.NewAEADManager(),
		cryptoService.NewScryptHashService(),
		algorithm,
		c.config.DataKeyTTL,
		c.Logger(),
	)

	return cryptoUsecase.NewEncryptionUseCaseWithMetrics(useCase, businessMetrics), nil
}
