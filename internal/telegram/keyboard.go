package telegram

import (
	"fmt"

	"github.com/go-telegram/bot/models"
)

// InlineButton creates a single inline keyboard button.
func InlineButton(text, callbackData string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text:         text,
		CallbackData: callbackData,
	}
}

// InlineKeyboard creates an inline keyboard from rows of buttons.
func InlineKeyboard(rows ...[]models.InlineKeyboardButton) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: rows,
	}
}

// ButtonRow creates a row of inline buttons.
func ButtonRow(buttons ...models.InlineKeyboardButton) []models.InlineKeyboardButton {
	return buttons
}

// MainReplyKeyboard is the persistent donation keyboard: preset amounts,
// custom-amount entry, and pay. The button labels double as the intents the
// message handler matches on.
func MainReplyKeyboard(presets []int64) *models.ReplyKeyboardMarkup {
	var rows [][]models.KeyboardButton
	for i := 0; i < len(presets); i += 2 {
		row := []models.KeyboardButton{{Text: FormatRupiah(presets[i])}}
		if i+1 < len(presets) {
			row = append(row, models.KeyboardButton{Text: FormatRupiah(presets[i+1])})
		}
		rows = append(rows, row)
	}
	rows = append(rows,
		[]models.KeyboardButton{{Text: ButtonCustomAmount}},
		[]models.KeyboardButton{{Text: ButtonPay}},
	)

	return &models.ReplyKeyboardMarkup{
		Keyboard:       rows,
		ResizeKeyboard: true,
	}
}

// QRStatusKeyboard is the inline keyboard attached to a QR photo message.
func QRStatusKeyboard(orderID string) *models.InlineKeyboardMarkup {
	return InlineKeyboard(
		ButtonRow(InlineButton("🔍 Cek Status Pembayaran", fmt.Sprintf("check:%s", orderID))),
	)
}

// ForceReply prompts the client to reply to the bot's message, used for
// custom-amount entry.
func ForceReply() *models.ForceReply {
	return &models.ForceReply{ForceReply: true}
}

// Reply keyboard button labels.
const (
	ButtonCustomAmount = "💰 Custom Nominal"
	ButtonPay          = "💳 Bayar"
)
