package middleware

import (
	"strconv"
	"time"

	"socialdesk/pkg/metrics"

	"github.com/gin-gonic/gin"
)

func MetricsMiddleware(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		metrics.HTTPRequestsTotal.WithLabelValues(service, c.Request.Method, path, status).Inc()
		metrics.HTTPResponseTime.WithLabelValues(service, c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
