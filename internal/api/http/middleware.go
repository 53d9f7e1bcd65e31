package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nominadocs/payslip-server/internal/logger"
)

// RequestLogger logs method, path, status and duration for every request.
func RequestLogger(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start)
		l.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", duration.Milliseconds())

		if len(c.Errors) > 0 {
			l.Error("http request failed",
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", c.Errors.String())
		}
	}
}
