package middleware

import (
	"time"

	"update-keeper/services"

	"github.com/gin-gonic/gin"
)

/**
 * HTTP request statistics middleware
 * @description
 * - Counts requests received by the local API
 * - Records request handling time
 * - Separates successful and failed requests
 */
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		statusCode := c.Writer.Status()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}

		services.IncrementRequestCount(route)
		services.RecordRequestDuration(route, duration)

		if statusCode >= 400 {
			services.IncrementErrorCount(route)
		}
	}
}
