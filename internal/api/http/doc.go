// Package http provides the REST handlers of the dev harness.
//
// Endpoints:
//   - GET  /               service identity
//   - GET  /healthz        liveness and API breaker state
//   - GET  /theme          configured theme as json, yaml or toml
//   - POST /offers         offer lookup for a user
//   - POST /bnpl/availability
//   - POST /logs           page console lines merged into the harness log
//   - POST /simulate       scripted flow run on a headless surface
//   - GET  /metrics/json   flattened metrics snapshot
//
// Prometheus exposition is served at /metrics by the server itself.
package http
