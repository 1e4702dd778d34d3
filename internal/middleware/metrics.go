package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"campusride/internal/observability"
)

// MetricsMiddleware records request counts and latency for Prometheus.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		// Use the route template, not the raw URL, to keep cardinality low.
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		observability.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method, path, strconv.Itoa(c.Writer.Status()),
		).Inc()
		observability.HTTPRequestDuration.WithLabelValues(
			c.Request.Method, path,
		).Observe(time.Since(start).Seconds())
	}
}
