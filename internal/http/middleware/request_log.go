package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mealprep-backend/internal/platform/logger"
)

// slowRequest promotes an otherwise successful request to a warning.
const slowRequest = 2 * time.Second

// RequestLogger writes one line per request once the handler chain is done,
// tagged with the ids AttachTraceContext and RequireAuth put on the context.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		elapsed := time.Since(start)
		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		fields := []interface{}{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"duration_ms", elapsed.Milliseconds(),
			"response_bytes", c.Writer.Size(),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "error", c.Errors.Last().Error())
		}

		reqLog := log.WithContext(c.Request.Context())
		switch {
		case status >= 500:
			reqLog.Error("HTTP request", fields...)
		case status >= 400:
			reqLog.Warn("HTTP request", fields...)
		case elapsed >= slowRequest:
			reqLog.Warn("Slow HTTP request", fields...)
		default:
			reqLog.Info("HTTP request", fields...)
		}
	}
}
