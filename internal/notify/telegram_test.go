package notify

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/go-cmp/cmp"
)

type fakeAPI struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNotify(t *testing.T) {
	api := &fakeAPI{}
	n := &Telegram{api: api, chatID: 42, log: testLogger()}

	n.Notify("scanned 3 posts: 2 matched")

	if len(api.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(api.sent))
	}
	if diff := cmp.Diff(int64(42), api.sent[0].ChatID); diff != "" {
		t.Errorf("chat ID mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("scanned 3 posts: 2 matched", api.sent[0].Text); diff != "" {
		t.Errorf("text mismatch (-want +got):\n%s", diff)
	}
}

func TestNotifySendFailureIsSwallowed(t *testing.T) {
	api := &fakeAPI{err: errors.New("telegram down")}
	n := &Telegram{api: api, chatID: 42, log: testLogger()}

	// Must not panic or surface the error.
	n.Notify("summary")
}
