package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConnect(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown driver", func(t *testing.T) {
		cfg := Config{
			Driver:             "invalid",
			ConnectionString:   "invalid",
			MaxOpenConnections: 10,
			MaxIdleConnections: 5,
			ConnMaxLifetime:    time.Hour,
		}

		db, err := Connect(ctx, cfg)
		assert.Error(t, err)
		assert.Nil(t, db)
		assert.Contains(t, err.Error(), "sql: unknown driver")
	})

	t.Run("unreachable database", func(t *testing.T) {
		cfg := Config{
			Driver:           "postgres",
			ConnectionString: "postgres://127.0.0.1:1/none?sslmode=disable&connect_timeout=1",
		}

		db, err := Connect(ctx, cfg)
		assert.Error(t, err)
		assert.Nil(t, db)
		assert.Contains(t, err.Error(), "failed to ping database")
	})
}
