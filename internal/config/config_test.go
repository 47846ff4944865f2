package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "localhost:6379", cfg.Redis.Host)
	assert.Equal(t, 72, cfg.JWT.ExpiryHours)
	assert.Equal(t, "blog", cfg.MinIO.Bucket)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("JWT_EXPIRY_HOURS", "24")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, 24, cfg.JWT.ExpiryHours)
	assert.Equal(t, 0, cfg.Redis.DB, "unparseable ints fall back to the default")
}

func TestValidateProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	// Default secret is refused in production
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "real-secret")
	t.Setenv("DB_PASSWORD", "real-password")
	_, err = Load()
	assert.NoError(t, err)
}
