package notifier

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"mysql-backup-service/internal/domain"
)

// Telegram sends the run summary as a bot message to a chat.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegram(botToken, chatID string, timeout time.Duration) (*Telegram, error) {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid telegram chat_id %q: %w", chatID, err)
	}

	bot, err := tgbotapi.NewBotAPIWithClient(botToken, tgbotapi.APIEndpoint, &http.Client{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &Telegram{bot: bot, chatID: id}, nil
}

func (t *Telegram) Name() string { return "telegram" }

// Send delivers subject and message as a single text message. The bot client
// carries its own timeout; ctx is checked before the call since the API
// client predates context support.
func (t *Telegram) Send(ctx context.Context, subject, message string) error {
	if err := ctx.Err(); err != nil {
		return &domain.DispatchError{Channel: t.Name(), Err: err}
	}

	msg := tgbotapi.NewMessage(t.chatID, subject+"\n\n"+message)
	if _, err := t.bot.Send(msg); err != nil {
		return &domain.DispatchError{Channel: t.Name(), Err: err}
	}
	return nil
}
