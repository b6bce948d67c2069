package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wms-platform/fulfillment-service/pkg/metrics"
)

// MetricsMiddleware records request count, latency and in-flight requests by route pattern
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isProbe(c.Request.URL.Path) {
			c.Next()
			return
		}

		m.IncrementHTTPRequestsInFlight()
		start := time.Now()
		c.Next()
		m.DecrementHTTPRequestsInFlight()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RecordHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
