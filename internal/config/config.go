// Package config loads engine configuration from the environment.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/emberforge/wildlands/internal/errors"
)

// Config is the full engine configuration. Every field has a default
// suited to a single local player.
type Config struct {
	// HTTPAddr is the listen address for the HTTP/JSON API
	HTTPAddr string `env:"WILDLANDS_HTTP_ADDR" envDefault:"127.0.0.1:8484"`

	// RedisAddr is the save store endpoint
	RedisAddr string `env:"WILDLANDS_REDIS_ADDR" envDefault:"localhost:6379"`

	// ContentPath overrides the embedded game content when set
	ContentPath string `env:"WILDLANDS_CONTENT_PATH"`

	EnergyRegenInterval time.Duration `env:"WILDLANDS_ENERGY_REGEN_INTERVAL" envDefault:"10s"`
	EnergyRegenAmount   int           `env:"WILDLANDS_ENERGY_REGEN_AMOUNT" envDefault:"1"`
	AutosaveInterval    time.Duration `env:"WILDLANDS_AUTOSAVE_INTERVAL" envDefault:"2m"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `env:"WILDLANDS_LOG_LEVEL" envDefault:"info"`
}

// Load reads configuration from the environment
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse environment")
	}

	vb := errors.NewValidationBuilder()
	if cfg.HTTPAddr == "" {
		vb.RequiredField("WILDLANDS_HTTP_ADDR")
	}
	if cfg.RedisAddr == "" {
		vb.RequiredField("WILDLANDS_REDIS_ADDR")
	}
	if cfg.EnergyRegenInterval <= 0 {
		vb.InvalidField("WILDLANDS_ENERGY_REGEN_INTERVAL", "must be positive")
	}
	if cfg.EnergyRegenAmount <= 0 {
		vb.InvalidField("WILDLANDS_ENERGY_REGEN_AMOUNT", "must be positive")
	}
	if cfg.AutosaveInterval <= 0 {
		vb.InvalidField("WILDLANDS_AUTOSAVE_INTERVAL", "must be positive")
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
