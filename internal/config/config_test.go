package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberforge/wildlands/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8484", cfg.HTTPAddr)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Empty(t, cfg.ContentPath)
	assert.Equal(t, 10*time.Second, cfg.EnergyRegenInterval)
	assert.Equal(t, 1, cfg.EnergyRegenAmount)
	assert.Equal(t, 2*time.Minute, cfg.AutosaveInterval)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("WILDLANDS_HTTP_ADDR", ":9000")
	t.Setenv("WILDLANDS_REDIS_ADDR", "redis:6380")
	t.Setenv("WILDLANDS_ENERGY_REGEN_INTERVAL", "250ms")
	t.Setenv("WILDLANDS_AUTOSAVE_INTERVAL", "30s")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, "redis:6380", cfg.RedisAddr)
	assert.Equal(t, 250*time.Millisecond, cfg.EnergyRegenInterval)
	assert.Equal(t, 30*time.Second, cfg.AutosaveInterval)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("WILDLANDS_ENERGY_REGEN_AMOUNT", "-5")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WILDLANDS_ENERGY_REGEN_AMOUNT")
}
