// Package config loads runtime configuration from environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage backend names accepted in STORAGE_TYPE
const (
	StorageMemory = "memory"
	StorageSqlite = "sqlite"
	StorageRedis  = "redis"
)

// Config is the full runtime configuration
type Config struct {
	BotPrefix      string        `env:"BOT_PREFIX" envDefault:"!"`
	AvailableNames []string      `env:"AVAILABLE_NAMES" envSeparator:" "`
	StorageType    string        `env:"STORAGE_TYPE" envDefault:"sqlite"`
	DBPath         string        `env:"DB_PATH" envDefault:"moneyball.db"`
	RedisURL       string        `env:"REDIS_URL" envDefault:"redis://localhost:6379"`
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	MetricsAddr    string        `env:"METRICS_ADDR" envDefault:":9090"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses and validates configuration from the process environment
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.StorageType {
	case StorageMemory, StorageSqlite, StorageRedis:
	default:
		return fmt.Errorf("STORAGE_TYPE must be one of %s, %s or %s, got %q",
			StorageMemory, StorageSqlite, StorageRedis, c.StorageType)
	}
	named := 0
	for _, name := range c.AvailableNames {
		if strings.TrimSpace(name) == "" {
			continue
		}
		if strings.Contains(name, ",") {
			return fmt.Errorf("participant name %q must not contain a comma", name)
		}
		named++
	}
	if named == 0 {
		return fmt.Errorf("AVAILABLE_NAMES must list at least one participant")
	}
	return nil
}
