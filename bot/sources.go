package bot

import (
	"context"
	"errors"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ErrSourceClosed is returned by Push once the source has been closed
var ErrSourceClosed = errors.New("update source closed")

// PollingSource long-polls getUpdates. The channel is opened once and reused
// across loop restarts; Stop closes it, which ends Serve.
type PollingSource struct {
	api     *tgbotapi.BotAPI
	timeout int

	once    sync.Once
	updates tgbotapi.UpdatesChannel
}

// NewPollingSource creates a new long-polling source with the given timeout in seconds
func NewPollingSource(api *tgbotapi.BotAPI, timeout int) *PollingSource {
	return &PollingSource{api: api, timeout: timeout}
}

// Updates starts polling on first use and returns the shared channel
func (p *PollingSource) Updates() tgbotapi.UpdatesChannel {
	p.once.Do(func() {
		u := tgbotapi.NewUpdate(0)
		u.Timeout = p.timeout
		p.updates = p.api.GetUpdatesChan(u)
	})
	return p.updates
}

// Stop ends polling. The channel is closed once the in-flight request returns.
func (p *PollingSource) Stop() {
	p.api.StopReceivingUpdates()
}

// WebhookSource is fed by the webhook HTTP handler
type WebhookSource struct {
	mu     sync.RWMutex
	closed bool
	ch     chan tgbotapi.Update
}

// NewWebhookSource creates a new webhook source buffering up to buffer updates
func NewWebhookSource(buffer int) *WebhookSource {
	return &WebhookSource{ch: make(chan tgbotapi.Update, buffer)}
}

func (w *WebhookSource) Updates() tgbotapi.UpdatesChannel {
	return w.ch
}

// Push queues an update, giving up when ctx is done or the source is closed
func (w *WebhookSource) Push(ctx context.Context, update tgbotapi.Update) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return ErrSourceClosed
	}

	select {
	case w.ch <- update:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close rejects further pushes and closes the channel. Updates already
// queued are still delivered to the loop.
func (w *WebhookSource) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	close(w.ch)
}
