// Package app provides the dependency injection container assembling the
// application components. Components are created lazily on first access.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/glowdesk/securekit/internal/cache"
	"github.com/glowdesk/securekit/internal/config"
	cryptoService "github.com/glowdesk/securekit/internal/crypto/service"
	cryptoUsecase "github.com/glowdesk/securekit/internal/crypto/usecase"
	"github.com/glowdesk/securekit/internal/database"
	"github.com/glowdesk/securekit/internal/metrics"
	mfaService "github.com/glowdesk/securekit/internal/mfa/service"
	mfaUsecase "github.com/glowdesk/securekit/internal/mfa/usecase"
	"github.com/glowdesk/securekit/internal/notification"
	"github.com/glowdesk/securekit/internal/ratelimit"
	recoveryUsecase "github.com/glowdesk/securekit/internal/recovery/usecase"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	redisClient     *redis.Client
	cacheStore      cache.Store
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Managers
	txManager database.TxManager

	// Crypto
	envelopeProvider *cryptoService.KMSEnvelopeKeyProvider
	keyStore         cryptoUsecase.KeyStore
	encryptionUC     cryptoUsecase.EncryptionUseCase

	// MFA
	totpService *mfaService.TOTPService
	codeService *mfaService.CodeService
	emailSender notification.EmailSender
	smsSender   notification.SMSSender
	limiter     ratelimit.Limiter
	mfaRepo     mfaUsecase.MFASettingsRepository
	mfaUC       mfaUsecase.MFAUseCase

	// Recovery
	recoveryRepo recoveryUsecase.RecoveryCodeRepository
	recoveryUC   recoveryUsecase.RecoveryCodeUseCase

	// Initialization flags and mutex for thread-safety
	mu                   sync.Mutex
	loggerInit           sync.Once
	dbInit               sync.Once
	redisInit            sync.Once
	cacheStoreInit       sync.Once
	metricsProviderInit  sync.Once
	businessMetricsInit  sync.Once
	txManagerInit        sync.Once
	envelopeProviderInit sync.Once
	keyStoreInit         sync.Once
	encryptionUCInit     sync.Once
	totpServiceInit      sync.Once
	codeServiceInit      sync.Once
	emailSenderInit      sync.Once
	smsSenderInit        sync.Once
	limiterInit          sync.Once
	mfaRepoInit          sync.Once
	mfaUCInit            sync.Once
	recoveryRepoInit     sync.Once
	recoveryUCInit       sync.Once
	initErrors           map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
// It requires a database connection to be initialized first.
func (c *Container) TxManager() (database.TxManager, error) {
	var err error
	c.txManagerInit.Do(func() {
		c.txManager, err = c.initTxManager()
		if err != nil {
			c.initErrors["txManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// RedisClient returns the redis client backing the cache store.
func (c *Container) RedisClient(ctx context.Context) (*redis.Client, error) {
	var err error
	c.redisInit.Do(func() {
		c.redisClient, err = cache.Connect(ctx, c.config.RedisURL, c.config.CacheConnectTimeout)
		if err != nil {
			c.initErrors["redis"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["redis"]; exists {
		return nil, storedErr
	}
	return c.redisClient, nil
}

// CacheStore returns the shared cache store used for data keys, one-time
// codes, and rate-limit windows.
func (c *Container) CacheStore(ctx context.Context) (cache.Store, error) {
	var err error
	c.cacheStoreInit.Do(func() {
		var client *redis.Client
		client, err = c.RedisClient(ctx)
		if err != nil {
			c.initErrors["cacheStore"] = err
			return
		}
		c.cacheStore = cache.NewRedisStore(client)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["cacheStore"]; exists {
		return nil, storedErr
	}
	return c.cacheStore, nil
}

// MetricsProvider returns the otel/prometheus metrics provider.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. When metrics are
// disabled a no-op recorder is returned.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		if !c.config.MetricsEnabled {
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return
		}
		var provider *metrics.Provider
		provider, err = c.MetricsProvider()
		if err != nil {
			c.initErrors["businessMetrics"] = err
			return
		}
		c.businessMetrics, err = metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.envelopeProvider != nil {
		if err := c.envelopeProvider.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("envelope key provider close: %w", err))
		}
	}

	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("redis close: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(context.Background(), database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initTxManager creates the transaction manager using the database connection.
func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}
