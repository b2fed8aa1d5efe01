package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// SDK config
	assert.Equal(t, EnvSandbox, cfg.SDK.Env)
	assert.Empty(t, cfg.SDK.APIKey)

	// HTTP config
	assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, float64(0), cfg.HTTP.RateLimitRPS)
	assert.Equal(t, uint32(10), cfg.HTTP.BreakerFailures)

	// Logging config
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	// Server config
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Zero(t, cfg.Server.RateLimitRPS)
	assert.Equal(t, 20, cfg.Server.RateLimitBurst)
}

func TestLoadOrDefault(t *testing.T) {
	cfg := LoadOrDefault()

	assert.NotNil(t, cfg)
	assert.Equal(t, EnvSandbox, cfg.SDK.Env)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"SERVICEX_API_KEY":    "key-123",
		"SERVICEX_ENV":        "uat",
		"SERVICEX_MARKET_ID":  "market-1",
		"SERVICEX_LANGUAGE":   "vi",
		"HTTP_TIMEOUT":        "5s",
		"HTTP_RATE_LIMIT_RPS": "2.5",
		"LOG_LEVEL":           "debug",
		"LOG_DEV":             "true",
		"PORT":                "9000",
		"ALLOWED_ORIGINS":     "http://a.test, http://b.test",
	}

	for key, value := range envVars {
		require.NoError(t, os.Setenv(key, value))
		defer os.Unsetenv(key)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "key-123", cfg.SDK.APIKey)
	assert.Equal(t, EnvUAT, cfg.SDK.Env)
	assert.Equal(t, "market-1", cfg.SDK.MarketID)
	assert.Equal(t, "vi", cfg.SDK.Language)
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 2.5, cfg.HTTP.RateLimitRPS)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOriginList())
	require.NoError(t, cfg.Validate())
}

func TestEnvOrigins(t *testing.T) {
	tests := []struct {
		env     Env
		wantAPI string
		wantWeb string
	}{
		{EnvDev, "https://dev-api.credify.ninja", "https://dev-app.credify.ninja"},
		{EnvSIT, "https://sit-api.credify.ninja", "https://sit-app.credify.ninja"},
		{EnvUAT, "https://uat-api.credify.dev", "https://uat-app.credify.dev"},
		{EnvSandbox, "https://sandbox-api.credify.dev", "https://sandbox-app.credify.dev"},
		{EnvProduction, "https://api.credify.one", "https://app.credify.one"},
		{Env("nope"), "https://sandbox-api.credify.dev", "https://sandbox-app.credify.dev"},
	}

	for _, tt := range tests {
		t.Run(string(tt.env), func(t *testing.T) {
			assert.Equal(t, tt.wantAPI, tt.env.APIURL())
			assert.Equal(t, tt.wantWeb, tt.env.WebURL())
		})
	}
}

func TestOriginOverrides(t *testing.T) {
	cfg := Default()
	cfg.SDK.APIURL = "http://localhost:9999/"
	cfg.SDK.WebURL = "https://x.test/"

	assert.Equal(t, "http://localhost:9999", cfg.APIBaseURL())
	assert.Equal(t, "https://x.test", cfg.WebBaseURL())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "missing api key",
			mutate:  func(c *Config) {},
			wantErr: ErrMissingAPIKey,
		},
		{
			name: "blank api key",
			mutate: func(c *Config) {
				c.SDK.APIKey = "   "
			},
			wantErr: ErrMissingAPIKey,
		},
		{
			name: "unknown env",
			mutate: func(c *Config) {
				c.SDK.APIKey = "key"
				c.SDK.Env = "staging"
			},
			wantErr: ErrUnknownEnv,
		},
		{
			name: "valid",
			mutate: func(c *Config) {
				c.SDK.APIKey = "key"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
