package bot

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// SecretTokenHeader is the header Telegram sends the webhook secret in
const SecretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// UpdateHandler processes a decoded Telegram update
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update) error
}

// WebhookHandler handles incoming webhook requests from Telegram
type WebhookHandler struct {
	bot    UpdateHandler
	logger *slog.Logger
	secret string
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(bot UpdateHandler, secret string, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		bot:    bot,
		logger: logger,
		secret: secret,
	}
}

// HandleWebhook processes incoming webhook requests
func (h *WebhookHandler) HandleWebhook(c *gin.Context) {
	if h.secret != "" {
		token := c.GetHeader(SecretTokenHeader)
		if subtle.ConstantTimeCompare([]byte(token), []byte(h.secret)) != 1 {
			h.logger.Warn("Invalid webhook secret token",
				"remote_addr", c.ClientIP(),
			)
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid secret token",
			})
			return
		}
	}

	var update tgbotapi.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		h.logger.Error("Failed to unmarshal update", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid update format",
		})
		return
	}

	c.Set(updateIDKey, update.UpdateID)

	if err := h.bot.HandleUpdate(c.Request.Context(), update); err != nil {
		h.logger.Error("Failed to handle update",
			"update_id", update.UpdateID,
			"error", err,
		)
		// Still return 200 to Telegram to avoid retries
	}

	c.JSON(http.StatusOK, gin.H{
		"ok": true,
	})
}
