package middleware

import (
	"bytes"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/kitchen-inventory-api/internal/domain/entity"
	"github.com/sangkips/kitchen-inventory-api/internal/domain/repository"
	"github.com/sangkips/kitchen-inventory-api/internal/logger"
	"github.com/sirupsen/logrus"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyTTL is how long keys are valid
	IdempotencyKeyTTL = 24 * time.Hour
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo   repository.IdempotencyRepository
	Logger *logrus.Logger
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func isWriteMethod(method string) bool {
	return method == "POST" || method == "PUT" || method == "PATCH"
}

// Idempotency replays the stored response when a write repeats a key the
// same client already used. Requests without a key pass through.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isWriteMethod(c.Request.Method) {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		clientID := ClientID(c)
		existing, err := config.Repo.GetByKey(c.Request.Context(), key, clientID)
		if err != nil {
			c.Next()
			return
		}
		if replay(c, existing) {
			return
		}

		blw := &responseWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		config.store(c, key, clientID, blw.body.String())
	}
}

// IdempotencyRequired rejects writes without a key and only remembers
// successful responses, so a failed consumption can be retried
func IdempotencyRequired(config IdempotencyConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != "POST" {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.AbortWithStatusJSON(400, gin.H{
				"success": false,
				"message": "Idempotency-Key header is required for this request",
			})
			return
		}

		clientID := ClientID(c)
		existing, err := config.Repo.GetByKey(c.Request.Context(), key, clientID)
		if err != nil {
			c.AbortWithStatusJSON(500, gin.H{
				"success": false,
				"message": "Failed to check idempotency key",
			})
			return
		}
		if replay(c, existing) {
			return
		}

		blw := &responseWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		if status := c.Writer.Status(); status >= 200 && status < 300 {
			config.store(c, key, clientID, blw.body.String())
		}
	}
}

func replay(c *gin.Context, existing *entity.IdempotencyKey) bool {
	if existing == nil || existing.IsExpired() {
		return false
	}
	c.Header("X-Idempotency-Replayed", "true")
	c.Data(existing.ResponseCode, "application/json", []byte(existing.ResponseBody))
	c.Abort()
	return true
}

func (config IdempotencyConfig) store(c *gin.Context, key, clientID, body string) {
	ikey := &entity.IdempotencyKey{
		ID:           uuid.New().String(),
		Key:          key,
		ClientID:     clientID,
		Endpoint:     c.Request.Method + " " + c.FullPath(),
		ResponseCode: c.Writer.Status(),
		ResponseBody: body,
		ExpiresAt:    time.Now().Add(IdempotencyKeyTTL),
	}

	if err := config.Repo.Create(c.Request.Context(), ikey); err != nil && config.Logger != nil {
		logger.LogWarn(config.Logger, "middleware", "Idempotency", "store key "+key+" for "+clientID, err)
	}
}
