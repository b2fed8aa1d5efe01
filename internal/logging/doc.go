// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Bridge components take a *Logger and scope it with Named, e.g. the
// presenter logs under "presenter" and the API client under "api".
// Inbound messages that fail to decode are logged here and otherwise
// ignored, so this is the only place a misbehaving web counterpart shows up.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("Session started", zap.String("flow", "bnpl"))
//	logger.Warn("Inbound message ignored", zap.String("action", name))
package logging
