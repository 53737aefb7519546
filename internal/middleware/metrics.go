package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-guardian-tools/internal/service"
	"github.com/noah-isme/sma-guardian-tools/pkg/logger"
)

// Metrics records request latency per route and, for tool routes, the
// status each tool answered with.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := c.Writer.Status()
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, status, time.Since(start))
		metricsSvc.ObserveToolCall(c.GetString(logger.ToolKey), status)
	}
}
