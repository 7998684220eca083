// Package config loads process settings from TOOLGUARD_* environment variables.
package config

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/skosovsky/toolguard/internal/logging"
)

// Config holds settings shared by the CLI commands.
type Config struct {
	Addr            string        `env:"TOOLGUARD_ADDR,default=:8080"`
	LogLevel        string        `env:"TOOLGUARD_LOG_LEVEL,default=info"`
	MaxBodyBytes    int64         `env:"TOOLGUARD_MAX_BODY_BYTES,default=1048576"`
	MaxConcurrency  int           `env:"TOOLGUARD_MAX_CONCURRENCY,default=10"`
	ShutdownTimeout time.Duration `env:"TOOLGUARD_SHUTDOWN_TIMEOUT,default=5s"`
}

// Load reads the process environment.
func Load(ctx context.Context) (Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads settings through l and validates them.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return Config{}, fmt.Errorf("processing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges that envconfig cannot express.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("TOOLGUARD_ADDR must not be empty")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("TOOLGUARD_MAX_BODY_BYTES must be positive, got %d", c.MaxBodyBytes)
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("TOOLGUARD_SHUTDOWN_TIMEOUT must not be negative, got %s", c.ShutdownTimeout)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the parsed log level.
func (c Config) Level() (slog.Level, error) {
	return logging.ParseLevel(c.LogLevel)
}
