package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics of one SDK instance. Every record
// method is safe on a nil *Metrics so components can run without metrics.
type Metrics struct {
	registry *prometheus.Registry

	// Bridge metrics
	InboundMessages  *prometheus.CounterVec
	OutboundMessages *prometheus.CounterVec
	ResultsDelivered *prometheus.CounterVec
	SessionsActive   prometheus.Gauge
	SessionsTotal    *prometheus.CounterVec

	// API metrics
	APICalls      *prometheus.CounterVec
	APIDuration   *prometheus.HistogramVec
	APIErrors     *prometheus.CounterVec
	TokenRefresh  *prometheus.CounterVec
	BreakerStates *prometheus.GaugeVec

	// Harness metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	WSConnections   prometheus.Gauge
	WSMessages      *prometheus.CounterVec

	startTime time.Time
}

// NewMetrics creates a collector backed by its own registry, so several SDK
// instances in one process never collide.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		InboundMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "servicex_bridge_inbound_messages_total",
				Help: "Inbound messages from the web app by action and outcome",
			},
			[]string{"action", "outcome"},
		),
		OutboundMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "servicex_bridge_outbound_messages_total",
				Help: "Outbound messages posted to the web app",
			},
			[]string{"action"},
		),
		ResultsDelivered: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "servicex_bridge_results_delivered_total",
				Help: "Terminal results handed to the host",
			},
			[]string{"category", "status"},
		),
		SessionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "servicex_bridge_sessions_active",
				Help: "Sessions currently presented",
			},
		),
		SessionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "servicex_bridge_sessions_total",
				Help: "Sessions started by flow category",
			},
			[]string{"category"},
		),

		APICalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "servicex_api_calls_total",
				Help: "Calls to the platform API",
			},
			[]string{"endpoint", "status"},
		),
		APIDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "servicex_api_duration_seconds",
				Help:    "Platform API call duration in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint"},
		),
		APIErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "servicex_api_errors_total",
				Help: "Platform API errors by kind",
			},
			[]string{"endpoint", "kind"},
		),
		TokenRefresh: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "servicex_api_token_refresh_total",
				Help: "Access token acquisitions by reason",
			},
			[]string{"reason"},
		),
		BreakerStates: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "servicex_api_breaker_state",
				Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
			},
			[]string{"name"},
		),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "servicex_harness_http_requests_total",
				Help: "Harness HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "servicex_harness_http_request_duration_seconds",
				Help:    "Harness HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"method", "path"},
		),
		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "servicex_harness_ws_connections",
				Help: "Open harness websocket connections",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "servicex_harness_ws_messages_total",
				Help: "Harness websocket frames",
			},
			[]string{"direction", "type"},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "servicex_uptime_seconds",
			Help: "Seconds since the SDK instance was created",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Registry exposes the underlying registry for tests and custom exporters.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordInbound records an inbound message with outcome handled or ignored.
func (m *Metrics) RecordInbound(action, outcome string) {
	if m == nil {
		return
	}
	m.InboundMessages.WithLabelValues(action, outcome).Inc()
}

// RecordOutbound records an outbound message.
func (m *Metrics) RecordOutbound(action string) {
	if m == nil {
		return
	}
	m.OutboundMessages.WithLabelValues(action).Inc()
}

// RecordResult records a delivered terminal result.
func (m *Metrics) RecordResult(category, status string) {
	if m == nil {
		return
	}
	m.ResultsDelivered.WithLabelValues(category, status).Inc()
}

// SessionOpened increments active sessions.
func (m *Metrics) SessionOpened(category string) {
	if m == nil {
		return
	}
	m.SessionsActive.Inc()
	m.SessionsTotal.WithLabelValues(category).Inc()
}

// SessionClosed decrements active sessions.
func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.SessionsActive.Dec()
}

// RecordAPICall records one platform API call.
func (m *Metrics) RecordAPICall(endpoint, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.APICalls.WithLabelValues(endpoint, status).Inc()
	m.APIDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordAPIError records a platform API failure.
func (m *Metrics) RecordAPIError(endpoint, kind string) {
	if m == nil {
		return
	}
	m.APIErrors.WithLabelValues(endpoint, kind).Inc()
}

// RecordTokenRefresh records a token acquisition.
func (m *Metrics) RecordTokenRefresh(reason string) {
	if m == nil {
		return
	}
	m.TokenRefresh.WithLabelValues(reason).Inc()
}

// SetBreakerState records a breaker state transition.
func (m *Metrics) SetBreakerState(name string, state int) {
	if m == nil {
		return
	}
	m.BreakerStates.WithLabelValues(name).Set(float64(state))
}

// RecordHTTPRequest records a harness HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordWSMessage records a harness websocket frame.
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	if m == nil {
		return
	}
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// IncWSConnections increments websocket connections.
func (m *Metrics) IncWSConnections() {
	if m == nil {
		return
	}
	m.WSConnections.Inc()
}

// DecWSConnections decrements websocket connections.
func (m *Metrics) DecWSConnections() {
	if m == nil {
		return
	}
	m.WSConnections.Dec()
}
