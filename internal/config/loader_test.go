package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestFromViperDefaults(t *testing.T) {
	cfg, err := FromViper(defaultViper())
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)

	assert.Equal(t, "https://integration.regos.uz", cfg.Gateway.BaseURL)
	assert.Equal(t, 2.0, cfg.Gateway.Rate)
	assert.Equal(t, 50, cfg.Gateway.Capacity)
	assert.Equal(t, 30*time.Second, cfg.Gateway.Timeout)
	assert.Equal(t, 5, cfg.Gateway.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Gateway.RetryDelay)

	assert.Equal(t, "libsql", cfg.Store.Driver)
	assert.NotEmpty(t, cfg.Store.Path)
	assert.Equal(t, "exports", cfg.Export.Dir)
	assert.Equal(t, "ru", cfg.Locale.Default)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 9090, cfg.Metrics.Port)
}

func TestFromViperOverrides(t *testing.T) {
	v := defaultViper()
	v.Set("gateway.rate", 10)
	v.Set("gateway.capacity", 100)
	v.Set("gateway.timeout", "45s")
	v.Set("server.port", 9999)

	cfg, err := FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 10.0, cfg.Gateway.Rate)
	assert.Equal(t, 100, cfg.Gateway.Capacity)
	assert.Equal(t, 45*time.Second, cfg.Gateway.Timeout)
	assert.Equal(t, 9999, cfg.Server.Port)
}

func TestFromViperRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
	}{
		{"zero rate", "gateway.rate", 0},
		{"negative rate", "gateway.rate", -1},
		{"zero capacity", "gateway.capacity", 0},
		{"zero attempts", "gateway.max_attempts", 0},
		{"missing base url", "gateway.base_url", "  "},
		{"port out of range", "server.port", 70000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := defaultViper()
			v.Set(tt.key, tt.value)
			_, err := FromViper(v)
			assert.Error(t, err)
		})
	}
}

func TestValidateNil(t *testing.T) {
	var cfg *Config
	assert.Error(t, cfg.Validate())
}
