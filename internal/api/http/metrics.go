package http

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	dto "github.com/prometheus/client_model/go"
)

// MetricsSnapshot is a JSON view of the bridge metrics for quick inspection
// without a Prometheus server.
type MetricsSnapshot struct {
	Timestamp time.Time         `json:"timestamp"`
	Series    []MetricSeries    `json:"series"`
	Summary   map[string]string `json:"summary"`
}

// MetricSeries is one labelled sample.
type MetricSeries struct {
	Name   string            `json:"name"`
	Labels map[string]string `json:"labels,omitempty"`
	Value  float64           `json:"value"`
	// Count is set for histograms; Value then holds the sample sum.
	Count uint64 `json:"count,omitempty"`
}

// MetricsJSON gathers the registry and flattens it.
func (h *Handlers) MetricsJSON(c *gin.Context) {
	if h.metrics == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "metrics disabled"})
		return
	}

	families, err := h.metrics.Registry().Gather()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	prefix := c.Query("prefix")
	snapshot := MetricsSnapshot{
		Timestamp: time.Now(),
		Series:    []MetricSeries{},
		Summary: map[string]string{
			"breaker": h.sdk.BreakerState(),
			"env":     string(h.sdk.Config().SDK.Env),
		},
	}
	for _, mf := range families {
		if prefix != "" && !strings.HasPrefix(mf.GetName(), prefix) {
			continue
		}
		snapshot.Series = append(snapshot.Series, flatten(mf)...)
	}
	sort.SliceStable(snapshot.Series, func(i, j int) bool {
		return snapshot.Series[i].Name < snapshot.Series[j].Name
	})

	c.JSON(http.StatusOK, snapshot)
}

func flatten(mf *dto.MetricFamily) []MetricSeries {
	out := make([]MetricSeries, 0, len(mf.GetMetric()))
	for _, m := range mf.GetMetric() {
		s := MetricSeries{Name: mf.GetName()}
		if pairs := m.GetLabel(); len(pairs) > 0 {
			s.Labels = make(map[string]string, len(pairs))
			for _, p := range pairs {
				s.Labels[p.GetName()] = p.GetValue()
			}
		}

		switch mf.GetType() {
		case dto.MetricType_COUNTER:
			s.Value = m.GetCounter().GetValue()
		case dto.MetricType_GAUGE:
			s.Value = m.GetGauge().GetValue()
		case dto.MetricType_HISTOGRAM:
			s.Value = m.GetHistogram().GetSampleSum()
			s.Count = m.GetHistogram().GetSampleCount()
		case dto.MetricType_UNTYPED:
			s.Value = m.GetUntyped().GetValue()
		default:
			continue
		}
		out = append(out, s)
	}
	return out
}
