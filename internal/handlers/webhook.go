package handlers

import (
	"context"
	"log/slog"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// UpdateDecoder parses a webhook request into an update. *tgbotapi.BotAPI implements it.
type UpdateDecoder interface {
	HandleUpdate(r *http.Request) (*tgbotapi.Update, error)
}

// UpdateSink receives decoded updates
type UpdateSink interface {
	Push(ctx context.Context, update tgbotapi.Update) error
}

// WebhookHandler receives Telegram webhook calls
type WebhookHandler struct {
	decoder UpdateDecoder
	sink    UpdateSink
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(decoder UpdateDecoder, sink UpdateSink) *WebhookHandler {
	return &WebhookHandler{decoder: decoder, sink: sink}
}

func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	update, err := h.decoder.HandleUpdate(r)
	if err != nil {
		slog.Warn("invalid webhook request", "method", r.Method, "err", err)
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.sink.Push(r.Context(), *update); err != nil {
		slog.Warn("dropped webhook update", "update_id", update.UpdateID, "err", err)
		http.Error(w, "Unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
}
