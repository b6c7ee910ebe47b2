package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BuildQuickActionsButtons creates the keyboard shown under every reply.
// Button data is a raw command, replayed by handleCallback.
func BuildQuickActionsButtons() *tgbotapi.InlineKeyboardMarkup {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏳ Countdown", "/countdown"),
			tgbotapi.NewInlineKeyboardButtonData("🗓 Timeline", "/timeline"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🌙 Sleep", "/sleep"),
			tgbotapi.NewInlineKeyboardButtonData("☀️ Wake", "/wake"),
		),
	)
	return &keyboard
}
