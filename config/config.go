package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"covid-dashboard-backend/internal/broadcaster"
	"covid-dashboard-backend/internal/dataset"
	"covid-dashboard-backend/internal/server"
	"covid-dashboard-backend/internal/views"
)

// Config holds all application configuration
type Config struct {
	Server      server.Config
	Dataset     dataset.Config
	Views       views.Config
	Broadcaster broadcaster.Config
}

// DefaultConfig returns default configuration for the entire application
func DefaultConfig() Config {
	return Config{
		Server:      server.DefaultConfig(),
		Dataset:     dataset.DefaultConfig(),
		Views:       views.DefaultConfig(),
		Broadcaster: broadcaster.DefaultConfig(),
	}
}

// Load returns the defaults overlaid with any environment overrides
func Load() (Config, error) {
	cfg := DefaultConfig()
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
