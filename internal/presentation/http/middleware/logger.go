package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"kasir-pos-backend/pkg/logger"
)

// LoggerMiddleware creates a structured logging middleware
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Generate request ID if not present
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		// Process request
		c.Next()

		latency := time.Since(start)
		if raw != "" {
			path = path + "?" + raw
		}

		logger.HTTPRequest(requestID, c.Request.Method, path, c.Writer.Status(), latency, c.ClientIP())

		// Log errors if any
		if len(c.Errors) > 0 {
			reqLog := logger.WithRequestID(requestID)
			for _, e := range c.Errors {
				reqLog.Error().Err(e.Err).Msg("request error")
			}
		}
	}
}
