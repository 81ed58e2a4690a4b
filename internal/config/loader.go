package config

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// SetDefaults installs the built-in defaults into a viper instance. Flags,
// config files and environment variables all override these.
func SetDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "10s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.profile", "structured")

	// Store defaults
	v.SetDefault("store.driver", "libsql")
	v.SetDefault("store.path", DefaultStorePath())
	v.SetDefault("store.url", "")
	v.SetDefault("store.auth_token", "")

	// Gateway defaults: the upstream allows a sustained 2 requests/second
	// with bursts of 50 per integration token.
	v.SetDefault("gateway.base_url", "https://integration.regos.uz")
	v.SetDefault("gateway.credential", "")
	v.SetDefault("gateway.rate", 2.0)
	v.SetDefault("gateway.capacity", 50)
	v.SetDefault("gateway.timeout", "30s")
	v.SetDefault("gateway.max_attempts", 5)
	v.SetDefault("gateway.retry_delay", "1s")

	// Export defaults
	v.SetDefault("export.dir", "exports")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)

	// Health check defaults
	v.SetDefault("health.enabled", true)

	// Locale defaults
	v.SetDefault("locale.default", "ru")
}

// FromViper decodes the merged viper state into a validated Config.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config

	decoderConfig := &mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	}

	decoder, err := mapstructure.NewDecoder(decoderConfig)
	if err != nil {
		return nil, fmt.Errorf("build config decoder: %w", err)
	}
	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
