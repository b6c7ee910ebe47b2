package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sleepcountdown/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// telegramAPI is the subset of *tgbotapi.BotAPI the bot uses
type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetWebhookInfo() (tgbotapi.WebhookInfo, error)
}

// countdownClient is the subset of *CountdownAPI the bot uses
type countdownClient interface {
	GetProfile(ctx context.Context, profileID string) (*Profile, error)
	GetCountdown(ctx context.Context, profileID string) (*Countdown, error)
	GetTimeline(ctx context.Context, profileID, preset string) (*Timeline, error)
	StartActivity(ctx context.Context, profileID string) (*Activity, error)
	ListActivities(ctx context.Context) ([]Activity, error)
	EndActivity(ctx context.Context, activityID string) (*Activity, error)
}

// Bot represents the Telegram bot
type Bot struct {
	api    telegramAPI
	client countdownClient
	config *config.BotConfig
	logger *slog.Logger
}

// NewBot creates a new Telegram bot instance
func NewBot(cfg *config.BotConfig, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	client := NewCountdownAPI(
		cfg.API.BaseURL,
		cfg.API.APIKey,
		logger,
	)

	return newBot(api, client, cfg, logger), nil
}

func newBot(api telegramAPI, client countdownClient, cfg *config.BotConfig, logger *slog.Logger) *Bot {
	return &Bot{
		api:    api,
		client: client,
		config: cfg,
		logger: logger.With("component", "bot"),
	}
}

// SetWebhook configures the webhook for the bot
func (b *Bot) SetWebhook() error {
	webhookConfig, err := tgbotapi.NewWebhook(b.config.Telegram.WebhookURL)
	if err != nil {
		return fmt.Errorf("invalid webhook url: %w", err)
	}

	// The secret token is checked by WebhookHandler
	if _, err := b.api.Request(webhookConfig); err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}

	info, err := b.api.GetWebhookInfo()
	if err != nil {
		return fmt.Errorf("failed to get webhook info: %w", err)
	}

	b.logger.Info("Webhook configured",
		"url", info.URL,
		"pending_updates", info.PendingUpdateCount,
	)

	return nil
}

// HandleUpdate processes a Telegram update
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) error {
	var userID int64
	switch {
	case update.Message != nil && update.Message.From != nil:
		userID = update.Message.From.ID
	case update.CallbackQuery != nil && update.CallbackQuery.From != nil:
		userID = update.CallbackQuery.From.ID
	default:
		// Ignore updates without user info
		return nil
	}

	if !b.config.IsUserAllowed(userID) {
		b.logger.Warn("Unauthorized access attempt",
			"user_id", userID,
		)
		return b.sendUnauthorizedMessage(update)
	}

	if update.Message != nil {
		return b.handleMessage(ctx, update.Message)
	}

	return b.handleCallback(ctx, update.CallbackQuery)
}

// handleMessage processes incoming messages
func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) error {
	b.logger.Info("Received message",
		"user_id", message.From.ID,
		"username", message.From.UserName,
		"text", message.Text,
	)

	if !message.IsCommand() {
		return nil
	}

	switch message.Command() {
	case "start", "help":
		return b.handleStart(ctx, message)
	case "countdown":
		return b.handleCountdown(ctx, message)
	case "timeline":
		return b.handleTimeline(ctx, message)
	case "sleep":
		return b.handleSleep(ctx, message)
	case "wake":
		return b.handleWake(ctx, message)
	default:
		return b.sendMessage(message.Chat.ID,
			"Unknown command. Use /start to see available commands.", nil)
	}
}

// handleCallback processes quick action buttons; their data is a raw command
func (b *Bot) handleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) error {
	b.logger.Info("Received callback",
		"user_id", callback.From.ID,
		"data", callback.Data,
	)

	answer := tgbotapi.NewCallback(callback.ID, "")
	if _, err := b.api.Request(answer); err != nil {
		b.logger.Error("Failed to answer callback", "error", err)
	}

	if callback.Message == nil || len(callback.Data) == 0 || callback.Data[0] != '/' {
		return nil
	}

	msg := &tgbotapi.Message{
		Chat: callback.Message.Chat,
		From: callback.From,
		Text: callback.Data,
		Entities: []tgbotapi.MessageEntity{
			{Type: "bot_command", Offset: 0, Length: commandLength(callback.Data)},
		},
	}
	return b.handleMessage(ctx, msg)
}

// handleStart handles the /start command
func (b *Bot) handleStart(ctx context.Context, message *tgbotapi.Message) error {
	text := `👋 *Welcome to Sleep Countdown!*

I tell you how long until bedtime, or how much sleep is left.

*Available Commands:*

⏳ /countdown - Time until the next bedtime or wake-up
🗓 /timeline - The next 24 hours (/timeline control for the next hour)
🌙 /sleep - Start the lock-screen live activity
☀️ /wake - End the live activity`

	return b.sendMessage(message.Chat.ID, text, BuildQuickActionsButtons())
}

// handleCountdown handles the /countdown command
func (b *Bot) handleCountdown(ctx context.Context, message *tgbotapi.Message) error {
	profile, err := b.client.GetProfile(ctx, b.config.API.ProfileID)
	if err != nil {
		return b.sendError(message.Chat.ID, err)
	}

	countdown, err := b.client.GetCountdown(ctx, profile.ID)
	if err != nil {
		return b.sendError(message.Chat.ID, err)
	}

	return b.sendMessage(message.Chat.ID, FormatCountdown(profile, countdown), BuildQuickActionsButtons())
}

// handleTimeline handles the /timeline [widget|control] command
func (b *Bot) handleTimeline(ctx context.Context, message *tgbotapi.Message) error {
	preset := message.CommandArguments()
	if preset == "" {
		preset = "widget"
	}

	timeline, err := b.client.GetTimeline(ctx, b.config.API.ProfileID, preset)
	if err != nil {
		return b.sendError(message.Chat.ID, err)
	}

	return b.sendMessage(message.Chat.ID, FormatTimeline(timeline), BuildQuickActionsButtons())
}

// handleSleep handles the /sleep command
func (b *Bot) handleSleep(ctx context.Context, message *tgbotapi.Message) error {
	activity, err := b.client.StartActivity(ctx, b.config.API.ProfileID)
	if errors.Is(err, ErrActivityAlreadyActive) {
		return b.sendMessage(message.Chat.ID,
			"🌙 A live activity is already running. Use /wake to end it.", BuildQuickActionsButtons())
	}
	if err != nil {
		return b.sendError(message.Chat.ID, err)
	}

	b.logger.Info("Live activity started",
		"activity_id", activity.ID,
		"ends_at", activity.EndsAt,
	)

	return b.sendMessage(message.Chat.ID, FormatActivity(activity), BuildQuickActionsButtons())
}

// handleWake handles the /wake command
func (b *Bot) handleWake(ctx context.Context, message *tgbotapi.Message) error {
	activities, err := b.client.ListActivities(ctx)
	if err != nil {
		return b.sendError(message.Chat.ID, err)
	}

	for _, activity := range activities {
		if activity.ProfileID != b.config.API.ProfileID {
			continue
		}

		ended, err := b.client.EndActivity(ctx, activity.ID)
		if err != nil {
			return b.sendError(message.Chat.ID, err)
		}
		return b.sendMessage(message.Chat.ID, FormatActivity(ended), BuildQuickActionsButtons())
	}

	return b.sendMessage(message.Chat.ID, "☀️ No live activity is running.", BuildQuickActionsButtons())
}

// sendMessage sends a text message
func (b *Bot) sendMessage(chatID int64, text string, keyboard *tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	if keyboard != nil {
		msg.ReplyMarkup = *keyboard
	}

	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			"chat_id", chatID,
			"error", err,
		)
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

// sendError reports an API failure to the chat
func (b *Bot) sendError(chatID int64, err error) error {
	b.logger.Error("Countdown API request failed",
		"chat_id", chatID,
		"error", err,
	)
	return b.sendMessage(chatID, FormatError(err), BuildQuickActionsButtons())
}

// sendUnauthorizedMessage sends an unauthorized access message
func (b *Bot) sendUnauthorizedMessage(update tgbotapi.Update) error {
	var chatID int64
	switch {
	case update.Message != nil:
		chatID = update.Message.Chat.ID
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		chatID = update.CallbackQuery.Message.Chat.ID
	default:
		return nil
	}

	return b.sendMessage(chatID, "⛔ You are not authorized to use this bot.", nil)
}

// commandLength returns the length of the leading /command in text
func commandLength(text string) int {
	for i, r := range text {
		if r == ' ' {
			return i
		}
	}
	return len(text)
}
