package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// No config file in the test working directory; everything comes from
	// defaults.
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 20*time.Second, cfg.Cache.TTL)
	assert.Equal(t, time.Minute, cfg.Cache.SweepInterval)
	assert.Equal(t, 10, cfg.Timeline.PageSize)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "plume", cfg.Auth.Issuer)
	assert.Equal(t, "local", cfg.Media.Backend)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("TIMELINE_PAGE_SIZE", "5")
	t.Setenv("CACHE_TTL", "45s")
	t.Setenv("DB_DRIVER", "sqlite")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Timeline.PageSize)
	assert.Equal(t, 45*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}
