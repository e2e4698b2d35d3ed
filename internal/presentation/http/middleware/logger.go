package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// LoggerMiddleware creates a structured logging middleware
func LoggerMiddleware(logg *logrus.Logger) gin.HandlerFunc {
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
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		statusCode := c.Writer.Status()
		entry := logg.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       path,
			"status":     statusCode,
			"latency":    time.Since(start).String(),
			"client_ip":  c.ClientIP(),
		})

		for _, e := range c.Errors {
			entry.WithError(e.Err).Error("request error")
		}

		switch {
		case statusCode >= 500:
			entry.Error("request completed")
		case statusCode >= 400:
			entry.Warn("request completed")
		default:
			entry.Info("request completed")
		}
	}
}
