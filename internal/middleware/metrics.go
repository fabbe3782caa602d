package middleware

import (
	"strconv"
	"time"

	"github.com/DarkArtheme/museumguide-backend/internal/metrics"

	"github.com/gin-gonic/gin"
)

// PrometheusMetrics records count and latency per matched route.
// Unmatched paths are folded into one label to keep cardinality bounded.
func PrometheusMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordAPIRequest(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
		)
	}
}
