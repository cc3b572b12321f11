package notify

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"task-manager/internal/model"
)

// Sender is the part of the Telegram bot API used for delivery.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram delivers reminders and digests to one chat.
type Telegram struct {
	log    *slog.Logger
	api    Sender
	chatID int64
}

// NewTelegram authorizes the bot token and returns a notifier for chatID.
func NewTelegram(log *slog.Logger, token string, chatID int64) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	log.Info("telegram bot authorized", "account", api.Self.UserName)
	return NewTelegramWithSender(log, api, chatID), nil
}

func NewTelegramWithSender(log *slog.Logger, api Sender, chatID int64) *Telegram {
	return &Telegram{log: log, api: api, chatID: chatID}
}

// Notify sends a reminder as an HTML message.
func (t *Telegram) Notify(ctx context.Context, r model.Reminder) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return t.sendText(FormatReminder(r))
}

// SendDigest sends a pre-rendered HTML digest.
func (t *Telegram) SendDigest(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return t.sendText(text)
}

func (t *Telegram) sendText(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}

// FormatReminder renders a reminder for chat delivery.
func FormatReminder(r model.Reminder) string {
	icon := "🔔"
	switch r.Kind {
	case model.ReminderOverdue:
		icon = "⚠️"
	case model.ReminderApproaching:
		icon = "⏳"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s <b>%s</b>", icon, html.EscapeString(strings.TrimSpace(r.Title))))
	if desc := strings.TrimSpace(r.Description); desc != "" {
		sb.WriteString("\n" + html.EscapeString(desc))
	}
	sb.WriteString(fmt.Sprintf("\n🗓 %s", r.Date.Format("2006-01-02 15:04")))
	return sb.String()
}

// Nop discards everything; used when no chat is configured.
type Nop struct{}

func (Nop) Notify(context.Context, model.Reminder) error { return nil }
func (Nop) SendDigest(context.Context, string) error     { return nil }
