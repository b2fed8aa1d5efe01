package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxLogBatch bounds one POST /logs request.
const maxLogBatch = 200

// PageLogEntry is a console line captured by the harness page, usually from
// the embedded web app.
type PageLogEntry struct {
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Context   map[string]any `json:"context"`
	Timestamp string         `json:"timestamp"`
}

// PageLogRequest is a batch of page log entries.
type PageLogRequest struct {
	Session string         `json:"session"`
	Entries []PageLogEntry `json:"entries"`
}

// StreamLogs writes page console output into the harness log so bridge
// traffic and web app logs read as one timeline.
func (h *Handlers) StreamLogs(c *gin.Context) {
	var req PageLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid log request format"})
		return
	}
	if len(req.Entries) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "no log entries provided"})
		return
	}
	if len(req.Entries) > maxLogBatch {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"success": false, "error": "too many log entries"})
		return
	}

	logger := h.log.Named("page")
	for _, entry := range req.Entries {
		fields := make([]zap.Field, 0, len(entry.Context)+2)
		fields = append(fields,
			zap.String("session", req.Session),
			zap.String("page_timestamp", entry.Timestamp),
		)
		for key, value := range entry.Context {
			fields = append(fields, zap.Any(key, value))
		}

		switch entry.Level {
		case "error":
			logger.Error(entry.Message, fields...)
		case "warn":
			logger.Warn(entry.Message, fields...)
		case "debug", "verbose":
			logger.Debug(entry.Message, fields...)
		default:
			logger.Info(entry.Message, fields...)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"entries_processed": len(req.Entries),
		"timestamp":         time.Now().Unix(),
	})
}
