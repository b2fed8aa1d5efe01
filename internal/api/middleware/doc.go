// Package middleware provides the gin middleware of the dev harness.
//
// Middleware stack:
//   - CORS: origins from ALLOWED_ORIGINS, websocket upgrades allowed,
//     trace headers exposed
//   - RateLimit: per-IP token bucket with idle eviction
//   - GlobalRateLimit: one bucket for every client
//
// Example Usage:
//
//	router.Use(middleware.CORS(middleware.CORSFromConfig(cfg.Server)))
//	router.Use(middleware.RateLimit(middleware.RateLimitConfig{RequestsPerSecond: 5, Burst: 10}))
package middleware
