package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"vahan-rc-bot/internal/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// DefaultRestartDelay is the pause before the update loop is restarted after a crash
const DefaultRestartDelay = 5 * time.Second

// ErrUpdatesClosed is returned by Run when the update channel is closed
var ErrUpdatesClosed = errors.New("update channel closed")

// API is the subset of *tgbotapi.BotAPI the bot uses
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// UpdateSource provides the stream of inbound updates
type UpdateSource interface {
	Updates() tgbotapi.UpdatesChannel
}

// Config holds the bot's chat-facing settings
type Config struct {
	OwnerContact string
	RestartDelay time.Duration
}

// Bot answers commands, button taps and plate lookups
type Bot struct {
	api      API
	lookup   services.VehicleLookup
	notifier *Notifier
	cfg      Config
	wg       sync.WaitGroup
}

// New creates a new bot. notifier may be nil.
func New(api API, lookup services.VehicleLookup, notifier *Notifier, cfg Config) *Bot {
	if cfg.RestartDelay <= 0 {
		cfg.RestartDelay = DefaultRestartDelay
	}
	return &Bot{
		api:      api,
		lookup:   lookup,
		notifier: notifier,
		cfg:      cfg,
	}
}

// Serve runs the update loop until ctx is cancelled or the source closes its
// channel, restarting it after a fixed delay whenever it panics.
func (b *Bot) Serve(ctx context.Context, src UpdateSource) {
	b.notifier.SendNotification("✅ Bot started")

	for {
		err := b.runSafely(ctx, src)
		if ctx.Err() != nil || errors.Is(err, ErrUpdatesClosed) {
			slog.Info("update loop stopped", "err", err)
			return
		}

		slog.Error("update loop crashed, restarting", "err", err, "delay", b.cfg.RestartDelay)
		b.notifier.SendNotification(fmt.Sprintf("⚠️ Update loop crashed, restarting in %s", b.cfg.RestartDelay))

		select {
		case <-ctx.Done():
			return
		case <-time.After(b.cfg.RestartDelay):
		}
	}
}

func (b *Bot) runSafely(ctx context.Context, src UpdateSource) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return b.Run(ctx, src.Updates())
}

// Run dispatches updates until ctx is cancelled or the channel closes.
// Every update is handled on its own goroutine; Run waits for all of them
// before returning.
func (b *Bot) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) error {
	defer b.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return ErrUpdatesClosed
			}
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				b.HandleUpdate(ctx, update)
			}()
		}
	}
}

// HandleUpdate processes a single update. A panic is recovered and the chat
// gets a fixed error reply instead of the handler's output.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic while handling update", "update_id", update.UpdateID, "panic", r)
			if chat := replyChat(update); chat != nil {
				b.send(tgbotapi.NewMessage(chat.ID, failedText))
			}
		}
	}()

	kind := classify(update)
	slog.Debug("update received", "update_id", update.UpdateID, "kind", kind)

	switch kind {
	case kindCommand:
		b.handleCommand(update.Message)
	case kindCallback:
		b.handleCallback(update.CallbackQuery)
	case kindText:
		b.handleText(ctx, update.Message)
	}
}

func (b *Bot) handleCommand(message *tgbotapi.Message) {
	msg := tgbotapi.NewMessage(message.Chat.ID, "")
	msg.ParseMode = tgbotapi.ModeMarkdown

	switch message.Command() {
	case "start":
		msg.Text = startText
		msg.ReplyMarkup = startKeyboard()
	case "help":
		msg.Text = helpText
	case "about":
		msg.Text = aboutText
	case "owner":
		msg.Text = ownerText(b.cfg.OwnerContact)
	default:
		msg.Text = unknownText
		msg.ParseMode = ""
	}

	b.send(msg)
}

func (b *Bot) handleCallback(query *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		slog.Warn("failed to answer callback", "err", err)
	}

	if query.Message == nil || query.Message.Chat == nil {
		return
	}
	chatID := query.Message.Chat.ID
	messageID := query.Message.MessageID

	var text string
	switch query.Data {
	case callbackExtract:
		edit := tgbotapi.NewEditMessageText(chatID, messageID, extractText)
		edit.ParseMode = tgbotapi.ModeMarkdown
		b.send(edit)
		return
	case callbackHelp:
		text = helpText
	case callbackAbout:
		text = aboutText
	case callbackOwner:
		text = ownerText(b.cfg.OwnerContact)
	default:
		slog.Debug("unknown callback data", "data", query.Data)
		return
	}

	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, startKeyboard())
	edit.ParseMode = tgbotapi.ModeMarkdown
	b.send(edit)
}

func (b *Bot) handleText(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	plate, err := services.Normalize(message.Text)
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID, invalidText))
		return
	}

	pending, err := b.api.Send(tgbotapi.NewMessage(chatID, searchingText))
	if err != nil {
		slog.Error("bot send error", "chat_id", chatID, "err", err)
		return
	}

	// The pending message is replaced even if the lookup panics.
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic during lookup", "chat_id", chatID, "plate", plate, "panic", r)
			b.send(tgbotapi.NewEditMessageText(chatID, pending.MessageID, failedText))
		}
	}()

	res := b.lookup.Lookup(ctx, plate)

	edit := tgbotapi.NewEditMessageText(chatID, pending.MessageID, renderResult(res))
	if res.Outcome == services.OutcomeFound {
		edit.ParseMode = tgbotapi.ModeMarkdown
	}
	b.send(edit)
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		slog.Error("bot send error", "err", err)
	}
}
