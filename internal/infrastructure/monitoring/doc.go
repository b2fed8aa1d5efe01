/*
Package monitoring provides Prometheus metrics for the bridge.

# Overview

Each SDK instance owns a Metrics value with its own registry. Bridge sessions
record inbound and outbound messages and delivered results; the API client
records call latency, errors and token refreshes; the dev harness records
HTTP requests and websocket frames.

# Usage

	metrics := monitoring.NewMetrics()

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Time API calls
	timer := monitoring.NewTimer(metrics, "offers")
	// ... perform call ...
	timer.Stop("200")

A nil *Metrics is valid and records nothing.
*/
package monitoring
