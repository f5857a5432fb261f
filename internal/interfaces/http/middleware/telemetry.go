package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

type HTTPRecorder interface {
	HTTPRequest(method, route string, status int, elapsed time.Duration)
}

// Telemetry labels requests by route template so ids in paths do not
// explode label cardinality. Unmatched routes share one label.
func Telemetry(recorder HTTPRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		recorder.HTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
