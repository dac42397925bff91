// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime settings. Values come from CANTINA_* environment
// variables.
type Config struct {
	// DatabaseURL is the Postgres connection string.
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// ListenAddr binds to loopback by default: this is a single-operator
	// tool, not a public service.
	ListenAddr string `envconfig:"LISTEN_ADDR" default:"127.0.0.1:8080"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	DevMode  bool   `envconfig:"DEV_MODE" default:"false"`
}

// Load reads configuration from CANTINA_* environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("cantina", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}
