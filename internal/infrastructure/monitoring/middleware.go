package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Middleware creates a Gin middleware for metrics collection
func Middleware(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		c.Next()

		metrics.RecordHTTPRequest(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

// Timer measures an API call.
type Timer struct {
	start    time.Time
	metrics  *Metrics
	endpoint string
}

// NewTimer starts timing a call to endpoint.
func NewTimer(metrics *Metrics, endpoint string) *Timer {
	return &Timer{
		start:    time.Now(),
		metrics:  metrics,
		endpoint: endpoint,
	}
}

// Stop records the call with the given status.
func (t *Timer) Stop(status string) {
	t.metrics.RecordAPICall(t.endpoint, status, time.Since(t.start))
}
