package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fintrack/internal/log"
)

// Trace assigns every request an id, attaches a request-scoped logger to the
// context, and logs completion with a level derived from the status code.
func Trace(logger *log.Logger) gin.HandlerFunc {
	httpLogger := logger.WithComponent(log.ComponentHTTP)
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()

		reqLogger := httpLogger.With(log.FieldRequestID, requestID)
		c.Request = c.Request.WithContext(log.IntoContext(c.Request.Context(), reqLogger))
		c.Header("X-Request-ID", requestID)

		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}

		reqLogger.Log(c.Request.Context(), level, "request completed",
			log.FieldMethod, c.Request.Method,
			log.FieldPath, c.Request.URL.Path,
			log.FieldQuery, c.Request.URL.RawQuery,
			log.FieldStatusCode, status,
			log.FieldDuration, time.Since(start).Milliseconds(),
			log.FieldClientIP, c.ClientIP(),
			log.FieldSuccess, status < 400,
		)
	}
}
