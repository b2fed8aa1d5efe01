package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// SDKVersion is reported in the User-Agent of every API call.
const SDKVersion = "0.10.0"

// Env selects the remote deployment the bridge talks to.
type Env string

const (
	EnvDev        Env = "dev"
	EnvSIT        Env = "sit"
	EnvUAT        Env = "uat"
	EnvSandbox    Env = "sandbox"
	EnvProduction Env = "production"
)

var (
	ErrMissingAPIKey = errors.New("api key must not be empty")
	ErrUnknownEnv    = errors.New("unknown environment")
)

type origins struct {
	api string
	web string
}

var envOrigins = map[Env]origins{
	EnvDev:        {api: "https://dev-api.credify.ninja", web: "https://dev-app.credify.ninja"},
	EnvSIT:        {api: "https://sit-api.credify.ninja", web: "https://sit-app.credify.ninja"},
	EnvUAT:        {api: "https://uat-api.credify.dev", web: "https://uat-app.credify.dev"},
	EnvSandbox:    {api: "https://sandbox-api.credify.dev", web: "https://sandbox-app.credify.dev"},
	EnvProduction: {api: "https://api.credify.one", web: "https://app.credify.one"},
}

// Valid reports whether e is one of the known environments.
func (e Env) Valid() bool {
	_, ok := envOrigins[e]
	return ok
}

// APIURL returns the API origin for the environment, falling back to sandbox.
func (e Env) APIURL() string {
	if o, ok := envOrigins[e]; ok {
		return o.api
	}
	return envOrigins[EnvSandbox].api
}

// WebURL returns the hosted web app origin for the environment, falling back to sandbox.
func (e Env) WebURL() string {
	if o, ok := envOrigins[e]; ok {
		return o.web
	}
	return envOrigins[EnvSandbox].web
}

// Config holds all module configuration.
type Config struct {
	SDK     SDKConfig
	HTTP    HTTPConfig
	Logging LogConfig
	Server  ServerConfig
}

// SDKConfig identifies the host application to the remote platform.
type SDKConfig struct {
	APIKey    string `envconfig:"SERVICEX_API_KEY"`
	Env       Env    `envconfig:"SERVICEX_ENV" default:"sandbox"`
	AppName   string `envconfig:"SERVICEX_APP_NAME"`
	MarketID  string `envconfig:"SERVICEX_MARKET_ID"`
	Language  string `envconfig:"SERVICEX_LANGUAGE"`
	UserAgent string `envconfig:"SERVICEX_USER_AGENT"`
	ThemeFile string `envconfig:"SERVICEX_THEME_FILE"`
	APIURL    string `envconfig:"SERVICEX_API_URL"`
	WebURL    string `envconfig:"SERVICEX_WEB_URL"`
}

// HTTPConfig tunes the authenticated API client.
type HTTPConfig struct {
	Timeout         time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
	RateLimitRPS    float64       `envconfig:"HTTP_RATE_LIMIT_RPS" default:"0"`
	BreakerFailures uint32        `envconfig:"HTTP_BREAKER_FAILURES" default:"10"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// ServerConfig holds the dev harness server configuration.
type ServerConfig struct {
	Port           string `envconfig:"PORT" default:"8000"`
	Host           string `envconfig:"HOST" default:"0.0.0.0"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"*"`
	RateLimitRPS   int    `envconfig:"RATE_LIMIT_RPS" default:"0"`
	RateLimitBurst int    `envconfig:"RATE_LIMIT_BURST" default:"20"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		SDK: SDKConfig{
			Env: EnvSandbox,
		},
		HTTP: HTTPConfig{
			Timeout:         30 * time.Second,
			RateLimitRPS:    0,
			BreakerFailures: 10,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		Server: ServerConfig{
			Port:           "8000",
			Host:           "0.0.0.0",
			AllowedOrigins: "*",
			RateLimitBurst: 20,
		},
	}
}

// Validate checks the settings the bridge cannot run without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.SDK.APIKey) == "" {
		return ErrMissingAPIKey
	}
	if !c.SDK.Env.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownEnv, c.SDK.Env)
	}
	return nil
}

// APIBaseURL returns the API origin, honoring an explicit override.
func (c *Config) APIBaseURL() string {
	if c.SDK.APIURL != "" {
		return strings.TrimRight(c.SDK.APIURL, "/")
	}
	return c.SDK.Env.APIURL()
}

// WebBaseURL returns the web app origin, honoring an explicit override.
func (c *Config) WebBaseURL() string {
	if c.SDK.WebURL != "" {
		return strings.TrimRight(c.SDK.WebURL, "/")
	}
	return c.SDK.Env.WebURL()
}

// AllowedOriginList splits ALLOWED_ORIGINS on commas.
func (s ServerConfig) AllowedOriginList() []string {
	var out []string
	for _, o := range strings.Split(s.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
