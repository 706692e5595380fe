package handler

import (
	"github.com/sahabat-berbagi/donasibot/internal/config"
	"github.com/sahabat-berbagi/donasibot/internal/telegram"
)

type intent int

const (
	// intentNone means the text matched no button and is ignored unless the
	// session is awaiting a custom amount.
	intentNone intent = iota
	intentPreset
	intentCustomRequest
	intentPay
)

// classifyIntent maps reply-keyboard button text to an intent. For preset
// buttons the parsed amount is returned alongside.
func classifyIntent(text string) (intent, int64) {
	for _, amount := range config.PresetAmounts {
		if text == telegram.FormatRupiah(amount) {
			return intentPreset, amount
		}
	}
	switch text {
	case telegram.ButtonCustomAmount:
		return intentCustomRequest, 0
	case telegram.ButtonPay:
		return intentPay, 0
	}
	return intentNone, 0
}
