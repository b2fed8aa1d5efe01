// Package config provides 12-factor configuration management for the serviceX bridge.
//
// Configuration is loaded from environment variables with sensible defaults.
// Host applications embedding the module can also build a Config in code and
// pass it to servicex.New directly.
//
// Configuration Sections:
//   - SDK: API key, environment, market id, language, theme file, origin overrides
//   - HTTP: API client timeout, client-side rate limit, breaker threshold
//   - Logging: Log level and output format
//   - Server: dev harness listen address and CORS origins
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Web app at %s\n", cfg.WebBaseURL())
//
// Environment Variables:
//   - SERVICEX_API_KEY, SERVICEX_ENV, SERVICEX_APP_NAME, SERVICEX_MARKET_ID
//   - SERVICEX_LANGUAGE, SERVICEX_USER_AGENT, SERVICEX_THEME_FILE
//   - SERVICEX_API_URL, SERVICEX_WEB_URL
//   - HTTP_TIMEOUT, HTTP_RATE_LIMIT_RPS, HTTP_BREAKER_FAILURES
//   - LOG_LEVEL, LOG_DEV
//   - PORT, HOST, ALLOWED_ORIGINS, RATE_LIMIT_RPS, RATE_LIMIT_BURST
package config
