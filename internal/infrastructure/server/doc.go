// Package server assembles the dev harness: a gin router in front of one
// servicex SDK instance.
//
// Components:
//   - gin with recovery, request tracing, Prometheus middleware and CORS
//   - optional per-IP rate limiting (RATE_LIMIT_RPS)
//   - REST handlers from internal/api/http
//   - the /ws endpoint from internal/api/ws, where a browser page plays the
//     embedded web view
//   - one main loop shared by every session
//
// Server Lifecycle:
//  1. Load configuration from the environment
//  2. Build logger, metrics, tracer and main loop
//  3. Build the SDK (fails fast without an API key)
//  4. Register routes
//  5. Run until the context is canceled, then shut down gracefully
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	srv, err := server.NewServer(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer srv.Close()
//	err = srv.Run(ctx)
package server
