// Package bot implements the Telegram frontend: update dispatch, command and
// callback renderers, and the supervised update loop.
package bot

import (
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier sends operational messages to the admin chat
type Notifier struct {
	api    API
	chatID int64
}

// NewNotifier creates a notifier. A zero chatID disables it.
func NewNotifier(api API, chatID int64) *Notifier {
	return &Notifier{api: api, chatID: chatID}
}

// SendNotification sends a message to the admin chat
func (n *Notifier) SendNotification(message string) {
	if n == nil || n.api == nil || n.chatID == 0 {
		return
	}
	msg := tgbotapi.NewMessage(n.chatID, message)
	if _, err := n.api.Send(msg); err != nil {
		slog.Warn("failed to notify admin", "chat_id", n.chatID, "err", err)
	}
}
