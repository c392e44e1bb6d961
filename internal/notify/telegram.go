// Package notify sends the end-of-run summary to a Telegram chat.
package notify

import (
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram posts run summaries to a single chat.
type Telegram struct {
	api    telegramAPI
	chatID int64
	log    *slog.Logger
}

// NewTelegram creates a notifier for the given bot token and chat.
func NewTelegram(token string, chatID int64, log *slog.Logger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	return &Telegram{api: api, chatID: chatID, log: log}, nil
}

// Notify sends the summary text. Failures are logged, not returned; a
// missed notification must not fail the run.
func (t *Telegram) Notify(summary string) {
	msg := tgbotapi.NewMessage(t.chatID, summary)
	msg.DisableWebPagePreview = true
	if _, err := t.api.Send(msg); err != nil {
		t.log.Error("send telegram summary", "error", err)
	}
}
