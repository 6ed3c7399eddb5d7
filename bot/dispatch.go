package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type updateKind int

const (
	kindIgnored updateKind = iota
	kindCommand
	kindCallback
	kindText
)

func (k updateKind) String() string {
	switch k {
	case kindCommand:
		return "command"
	case kindCallback:
		return "callback"
	case kindText:
		return "text"
	}
	return "ignored"
}

// classify maps an update onto the single kind the bot reacts to
func classify(update tgbotapi.Update) updateKind {
	if update.CallbackQuery != nil {
		return kindCallback
	}
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return kindIgnored
	}
	if msg.IsCommand() {
		return kindCommand
	}
	if msg.Text == "" {
		return kindIgnored
	}
	return kindText
}

// replyChat is update.FromChat without the nil dereference on callbacks
// whose message is no longer available.
func replyChat(update tgbotapi.Update) *tgbotapi.Chat {
	if update.CallbackQuery != nil && update.CallbackQuery.Message == nil {
		return nil
	}
	return update.FromChat()
}
