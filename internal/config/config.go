// Package config holds the application configuration. Values layer up from
// built-in defaults, an optional YAML config file and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config is the complete application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Store   StoreConfig   `mapstructure:"store"`
	Gateway GatewayConfig `mapstructure:"gateway"`
	Export  ExportConfig  `mapstructure:"export"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Health  HealthConfig  `mapstructure:"health"`
	Locale  LocaleConfig  `mapstructure:"locale"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StoreConfig contains database configuration for libsql/Turso
type StoreConfig struct {
	Driver    string `mapstructure:"driver"`
	Path      string `mapstructure:"path"`
	URL       string `mapstructure:"url"`
	AuthToken string `mapstructure:"auth_token"`
}

// GatewayConfig describes the REGOS integration endpoint and the admission
// limits applied per credential.
type GatewayConfig struct {
	BaseURL string `mapstructure:"base_url"`

	// Credential is the default integration token used when a command does
	// not name one. Usually supplied via environment.
	Credential string `mapstructure:"credential"`

	// Rate and Capacity set the per-credential token bucket.
	Rate     float64 `mapstructure:"rate"`
	Capacity int     `mapstructure:"capacity"`

	// Timeout bounds the network phase of one attempt.
	Timeout time.Duration `mapstructure:"timeout"`

	// MaxAttempts and RetryDelay shape the internal 429 retry loop.
	MaxAttempts int           `mapstructure:"max_attempts"`
	RetryDelay  time.Duration `mapstructure:"retry_delay"`
}

// ExportConfig controls file exports of report payloads.
type ExportConfig struct {
	Dir string `mapstructure:"dir"`
}

// LoggingConfig contains logging configuration.
// Profile selects the gofulmen logging complexity level: SIMPLE for CLI
// runs, STRUCTURED for the server.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Profile string `mapstructure:"profile"`
}

// MetricsConfig contains Prometheus metrics configuration
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// HealthConfig contains health check configuration
type HealthConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LocaleConfig selects the default catalog for rendered reports.
type LocaleConfig struct {
	Default string `mapstructure:"default"`
}

// Validate rejects configurations the dispatcher cannot run with.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Gateway.Rate <= 0 {
		return fmt.Errorf("gateway.rate must be positive, got %v", c.Gateway.Rate)
	}
	if c.Gateway.Capacity <= 0 {
		return fmt.Errorf("gateway.capacity must be positive, got %d", c.Gateway.Capacity)
	}
	if c.Gateway.MaxAttempts < 1 {
		return fmt.Errorf("gateway.max_attempts must be at least 1, got %d", c.Gateway.MaxAttempts)
	}
	if strings.TrimSpace(c.Gateway.BaseURL) == "" {
		return errors.New("gateway.base_url is required")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	return nil
}

// DefaultStorePath returns the default on-disk location of the libsql store.
func DefaultStorePath() string {
	base, err := os.UserCacheDir()
	if err != nil || base == "" {
		return filepath.Join(".", "data", "regosbridge.db")
	}
	return filepath.Join(base, "regosbridge", "regosbridge.db")
}
