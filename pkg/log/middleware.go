// Integrates the zerolog wrapper created in logger.go into the gin server.

package log

import (
	"time"

	"github.com/gin-gonic/gin"
)

// LoggerGinExtension replaces gin's default access log with the structured logger.
// One entry per request, level picked from the response status.
func LoggerGinExtension(logger Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		// Process request
		c.Next()

		latency := time.Since(start)
		if latency > time.Minute {
			latency = latency.Truncate(time.Second)
		}
		status := c.Writer.Status()

		event := logger.Info()
		if status >= 500 {
			event = logger.Error()
		} else if status >= 400 {
			event = logger.Warn()
		}
		event.
			Str("ClientIP", c.ClientIP()).
			Str("Method", c.Request.Method).
			Str("Path", path).
			Int("Status", status).
			Dur("Latency", latency).
			Msg(c.Errors.ByType(gin.ErrorTypePrivate).String())
	}
}
