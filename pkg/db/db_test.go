package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_BadConnectionString(t *testing.T) {
	t.Parallel()

	_, err := Connect(context.Background(), Config{
		ConnectionString: "not a postgres url",
	})
	require.ErrorIs(t, err, ErrFailedToParseDBConfig)
}

func TestConfig_ApplyDefaults(t *testing.T) {
	t.Parallel()

	cfg := Config{ConnectionString: "postgres://localhost/db"}
	cfg.applyDefaults()

	assert.Equal(t, time.Minute, cfg.HealthCheckPeriod)
	assert.Equal(t, 10*time.Minute, cfg.MaxConnIdleTime)
	assert.Equal(t, 30*time.Minute, cfg.MaxConnLifetime)
	assert.Equal(t, 3, cfg.RetryAttempts)
	assert.Equal(t, 5*time.Second, cfg.RetryInterval)
	assert.Equal(t, int32(10), cfg.MaxOpenConns)
	assert.Equal(t, int32(5), cfg.MinConns)
}

func TestConfig_DefaultsPreserveExplicitValues(t *testing.T) {
	t.Parallel()

	cfg := Config{
		ConnectionString: "postgres://localhost/db",
		RetryAttempts:    1,
		MaxOpenConns:     2,
	}
	cfg.applyDefaults()

	assert.Equal(t, 1, cfg.RetryAttempts)
	assert.Equal(t, int32(2), cfg.MaxOpenConns)
}
