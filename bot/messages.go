package bot

import (
	"fmt"
	"strings"

	"vahan-rc-bot/internal/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Callback payloads carried by the inline buttons
const (
	callbackExtract = "extract"
	callbackHelp    = "help"
	callbackAbout   = "about"
	callbackOwner   = "owner"
)

const (
	startText = "🚗 *Vehicle Information Bot*\n\n" +
		"Send any vehicle number to get details."

	extractText = "🔢 Send any vehicle number like:\n`MH12AB1234`"

	helpText = "ℹ️ *How to use*\n\n" +
		"1. Send a vehicle registration number, e.g. `MH12AB1234`\n" +
		"2. Wait a few seconds while the details are fetched\n\n" +
		"*Commands:*\n" +
		"/start - Main menu\n" +
		"/help - This message\n" +
		"/about - About this bot\n" +
		"/owner - Bot owner"

	aboutText = "📄 *About*\n\n" +
		"Looks up public RC details (owner, model, insurance, fitness) " +
		"for Indian vehicle registration numbers.\n" +
		"Data comes from a public RC search page and may be incomplete."

	searchingText   = "⏳ Fetching details..."
	invalidText     = "❌ Invalid vehicle number."
	notFoundText    = "❌ No data found for this vehicle number."
	unavailableText = "⚠️ Could not reach the registry right now. Please try again later."
	unknownText     = "Unknown command. Use /start"
	failedText      = "❌ Something went wrong. Please try again."
)

func ownerText(contact string) string {
	if contact == "" {
		return "👤 *Owner*\n\nNo contact configured."
	}
	return "👤 *Owner*\n\n" + tgbotapi.EscapeText(tgbotapi.ModeMarkdown, contact)
}

func startKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔍 Extract Vehicle Number", callbackExtract),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("ℹ️ Help", callbackHelp),
			tgbotapi.NewInlineKeyboardButtonData("📄 About", callbackAbout),
			tgbotapi.NewInlineKeyboardButtonData("👤 Owner", callbackOwner),
		),
	)
}

// renderResult turns a lookup result into the final reply text
func renderResult(res services.Result) string {
	switch res.Outcome {
	case services.OutcomeUnavailable:
		return unavailableText
	case services.OutcomeNotFound:
		return notFoundText
	}
	if res.Record.Empty() {
		return notFoundText
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🚗 *Vehicle:* `%s`\n\n", strings.ReplaceAll(res.Plate, "`", "'")))
	for _, f := range res.Record.Fields {
		if f.Value == "" {
			continue
		}
		sb.WriteString(fmt.Sprintf("• *%s:* %s\n", f.Label, tgbotapi.EscapeText(tgbotapi.ModeMarkdown, f.Value)))
	}
	return sb.String()
}
