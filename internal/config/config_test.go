package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "/api/v1", cfg.BasePath)
	assert.Equal(t, 24*time.Hour, cfg.SessionExpiry)
	assert.Equal(t, 20, cfg.AuthRateLimit)
	assert.Equal(t, 5, cfg.AuthRateBurst)
	assert.False(t, cfg.IsProduction())
	assert.Empty(t, cfg.TrustedProxies)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SESSION_SECRET", "secret")
	t.Setenv("ENV", "production")
	t.Setenv("BASE_PATH", "/api/v2/")
	t.Setenv("SESSION_EXPIRY", "2h")
	t.Setenv("AUTH_RATE_LIMIT", "not-a-number")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 127.0.0.1,,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "/api/v2", cfg.BasePath)
	assert.Equal(t, 2*time.Hour, cfg.SessionExpiry)
	assert.Equal(t, 20, cfg.AuthRateLimit)
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, cfg.TrustedProxies)
}

func TestLoad_MissingSessionSecretPanics(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")

	assert.Panics(t, func() { _, _ = Load() })
}
