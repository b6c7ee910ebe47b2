package bot

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// updateIDKey carries the Telegram update ID from the webhook handler to the access log
const updateIDKey = "update_id"

// BotLoggingMiddleware logs bot webhook requests.
// Message bodies are not logged; they carry user chat text.
func BotLoggingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		attrs := []any{
			"component", "webhook",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if updateID, ok := c.Get(updateIDKey); ok {
			attrs = append(attrs, "update_id", updateID)
		}

		if c.Writer.Status() >= 400 {
			logger.Warn("Webhook request", attrs...)
			return
		}
		logger.Debug("Webhook request", attrs...)
	}
}
