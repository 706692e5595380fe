package handler

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/sahabat-berbagi/donasibot/internal/domain"
)

// handleCheckStatus handles the "check:<orderId>" button under a QR photo.
// The donor gets the result as a callback toast; a completion not yet seen
// locally is applied by the donation service, which also sends the full
// confirmation messages.
func (h *Handler) handleCheckStatus(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}

	orderID := strings.TrimPrefix(update.CallbackQuery.Data, "check:")

	status, err := h.donations.CheckStatus(ctx, orderID)
	if err != nil {
		toast := "Gagal cek status"
		if errors.Is(err, domain.ErrOrderNotFound) {
			toast = "Order tidak ditemukan"
		} else {
			slog.Error("status check failed", "error", err, "order_id", orderID)
		}
		if err := h.sender.AnswerCallback(ctx, update.CallbackQuery.ID, toast); err != nil {
			slog.Warn("answer callback failed", "error", err)
		}
		return
	}

	if err := h.sender.AnswerCallback(ctx, update.CallbackQuery.ID, "Status: "+strings.ToUpper(string(status))); err != nil {
		slog.Warn("answer callback failed", "error", err)
	}
}
