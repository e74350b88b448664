package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/verona-ai/profilesearch/v1/logger"
)

// HTTPRecorder receives one call per finished request. metrics.MetricsCollector
// satisfies it.
type HTTPRecorder interface {
	RecordHTTPRequest(method, route string, code int, start time.Time)
}

// Metrics records method, matched route and status. Unmatched paths are
// reported as "unmatched" to keep label cardinality bounded.
func Metrics(rec HTTPRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		rec.RecordHTTPRequest(c.Request.Method, route, c.Writer.Status(), start)
	}
}

// RequestLogger logs each request after it completes. 5xx responses are
// logged at error level with the first handler error attached.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := map[string]interface{}{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": float64(time.Since(start).Microseconds()) / 1000,
			"client_ip":   c.ClientIP(),
		}
		var err error
		if last := c.Errors.Last(); last != nil {
			err = last.Err
		}

		ctx := c.Request.Context()
		switch status := c.Writer.Status(); {
		case status >= 500:
			log.ErrorWithContext(ctx, "http request", err, fields)
		case status >= 400:
			log.WarnWithContext(ctx, "http request", err, fields)
		default:
			log.DebugWithContext(ctx, "http request", nil, fields)
		}
	}
}
