package monitoring

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func value(t *testing.T, m prometheus.Metric) float64 {
	t.Helper()
	var out dto.Metric
	require.NoError(t, m.Write(&out))
	switch {
	case out.Counter != nil:
		return out.Counter.GetValue()
	case out.Gauge != nil:
		return out.Gauge.GetValue()
	}
	return 0
}

func TestIndependentRegistries(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()

	a.RecordInbound("actionClose", "handled")
	assert.Equal(t, 1.0, value(t, a.InboundMessages.WithLabelValues("actionClose", "handled")))
	assert.Equal(t, 0.0, value(t, b.InboundMessages.WithLabelValues("actionClose", "handled")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordInbound("x", "y")
		m.RecordOutbound("x")
		m.RecordResult("bnpl", "completed")
		m.SessionOpened("bnpl")
		m.SessionClosed()
		m.RecordAPICall("offers", "200", time.Millisecond)
		m.RecordAPIError("offers", "parse")
		m.RecordTokenRefresh("expired")
		m.SetBreakerState("api", 2)
		m.RecordWSMessage("in", "message")
		m.IncWSConnections()
		m.DecWSConnections()
		NewTimer(m, "offers").Stop("200")
	})
}

func TestSessionGauge(t *testing.T) {
	m := NewMetrics()
	m.SessionOpened("passport")
	m.SessionOpened("bnpl")
	m.SessionClosed()

	assert.Equal(t, 1.0, value(t, m.SessionsActive))
	assert.Equal(t, 1.0, value(t, m.SessionsTotal.WithLabelValues("bnpl")))
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()

	r := gin.New()
	r.Use(Middleware(m))
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 1.0, value(t, m.RequestsTotal.WithLabelValues("GET", "/healthz", "200")))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "servicex_harness_http_requests_total"))
	assert.True(t, strings.Contains(w.Body.String(), "servicex_uptime_seconds"))
}
