package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/best-koder-ever/matchmaking-service/pkg/logger"
)

var skipLoggingPaths = map[string]bool{
	"/health":      true,
	"/health/live": true,
	"/health/ready": true,
}

// RequestID assigns (or propagates) a correlation ID for every request.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// Logging emits one structured log line per request, in the same shape the
// rest of this service's logging uses (pkg/logger, logrus fields).
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if skipLoggingPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		duration := time.Since(start)

		requestID, _ := c.Get("request_id")
		fields := map[string]interface{}{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"duration_ms": duration.Milliseconds(),
			"ip":         c.ClientIP(),
		}

		switch {
		case c.Writer.Status() >= 500:
			logger.WithFields(fields).Error("request completed")
		case c.Writer.Status() >= 400:
			logger.WithFields(fields).Warn("request completed")
		default:
			logger.WithFields(fields).Info("request completed")
		}
	}
}
