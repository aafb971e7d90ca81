/*
Package config loads server configuration from a YAML file.

PURPOSE:
  Keeps deployment knobs (listen address, database path, default
  projection horizon, revaluation cron spec, discount rate) out of the
  binary. Command-line flags in cmd/server override individual fields.

EXAMPLE (config.yaml):

  listen: ":8080"
  database: "./data/contracts.db"
  horizon_years: 30
  revaluation_cron: "0 * * * *"
  flat_discount_rate: 0.03
*/
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config carries the server settings.
type Config struct {
	Listen           string  `yaml:"listen"`
	Database         string  `yaml:"database"`
	HorizonYears     int     `yaml:"horizon_years"`
	RevaluationCron  string  `yaml:"revaluation_cron"`
	FlatDiscountRate float64 `yaml:"flat_discount_rate"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		Listen:           ":8080",
		Database:         "contracts.db",
		HorizonYears:     30,
		RevaluationCron:  "0 * * * *",
		FlatDiscountRate: 0.03,
	}
}

// Load reads a YAML config file, filling unset fields from Default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.HorizonYears <= 0 {
		return Config{}, fmt.Errorf("config: horizon_years must be positive, got %d", cfg.HorizonYears)
	}
	return cfg, nil
}
