package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/loyaltyhub/core/pkg/logger"
)

// Telegram forwards notification events to an ops channel. Purely
// observational; delivery failures are logged and dropped.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telegram bot: %w", err)
	}
	return &Telegram{bot: bot, chatID: chatID}, nil
}

func (t *Telegram) Notify(accountID uint, title, message, category string) {
	text := fmt.Sprintf("[%s] account %d\n%s\n%s", category, accountID, title, message)
	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.bot.Send(msg); err != nil {
		logger.Warn("Failed to send telegram notification", "account_id", accountID, "error", err)
	}
}
