// Package main runs the servicex dev harness.
//
// The harness hosts one bridge SDK behind a small HTTP server so the hosted
// web app can be exercised from a desktop browser:
//
//	Browser page ⇄ /ws ⇄ bridge session ⇄ platform API
//
// The server provides:
//   - /ws where the page acts as the embedded web view
//   - /offers and /bnpl/availability for the retrieval use cases
//   - /theme, /healthz, /metrics and /metrics/json
//
// Configuration:
//   - Environment variables (see internal/config)
//   - CLI flags override the environment
//
// Usage:
//
//	SERVICEX_API_KEY=... ./server -env uat -port 8000
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
