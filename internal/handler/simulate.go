package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/sahabat-berbagi/donasibot/internal/domain"
)

// handleSimulatePayment is the operator-only test hook: it marks a pending
// order completed as if the gateway had reported payment.
func (h *Handler) handleSimulatePayment(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	chatID := update.Message.Chat.ID

	if !h.cfg.IsOperator(update.Message.From.ID) {
		h.reply(ctx, chatID, "⛔ Perintah ini hanya untuk admin.")
		return
	}

	parts := strings.Fields(update.Message.Text)
	if len(parts) < 2 {
		h.reply(ctx, chatID, "Gunakan: /simulate_payment <orderId>")
		return
	}
	orderID := parts[1]

	err := h.donations.SimulateCompletion(ctx, orderID)
	switch {
	case err == nil:
		h.reply(ctx, chatID, fmt.Sprintf("✅ Pembayaran untuk order `%s` berhasil disimulasikan.", orderID))
	case errors.Is(err, domain.ErrOrderNotFound):
		h.reply(ctx, chatID, fmt.Sprintf("❌ Order `%s` tidak ditemukan.", orderID))
	case errors.Is(err, domain.ErrOrderNotPending):
		h.reply(ctx, chatID, fmt.Sprintf("❌ Order `%s` sudah tidak pending.", orderID))
	default:
		slog.Error("simulate payment failed", "error", err, "order_id", orderID)
		h.reply(ctx, chatID, "❌ Gagal mensimulasikan pembayaran.")
	}
}

func (h *Handler) reply(ctx context.Context, chatID int64, text string) {
	if _, err := h.sender.SendMessage(ctx, chatID, text, nil); err != nil {
		slog.Error("send reply failed", "error", err, "chat_id", chatID)
	}
}
