package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/sahabat-berbagi/donasibot/internal/config"
	"github.com/sahabat-berbagi/donasibot/internal/domain"
	"github.com/sahabat-berbagi/donasibot/internal/service"
	"github.com/sahabat-berbagi/donasibot/internal/telegram"
)

// HandleText drives the conversation state machine for reply-keyboard
// presses and free-form input. Unrecognized text outside the custom-amount
// prompt is ignored on purpose, so the bot stays quiet on arbitrary chatter.
func (h *Handler) HandleText(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	text := update.Message.Text
	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID

	sess := h.sessions.GetOrCreate(userID)

	switch in, amount := classifyIntent(text); in {
	case intentPreset:
		// Re-selecting simply overwrites the previous choice; the reply
		// keyboard has no toggle-off.
		h.sessions.SetAmount(userID, amount)
		h.replyWithSummary(ctx, chatID, userID)

	case intentCustomRequest:
		h.sessions.SetAwaitingCustom(userID, true)
		prompt := "💰 *Masukkan jumlah donasi custom (minimal Rp1.000):*\n\nKirim angka saja, contoh: `15000`"
		if _, err := h.sender.SendMessage(ctx, chatID, prompt, telegram.ForceReply()); err != nil {
			slog.Error("send custom prompt failed", "error", err, "user_id", userID)
		}

	case intentPay:
		h.handlePay(ctx, chatID, userID, update.Message.From)

	default:
		if sess.AwaitingCustomAmount {
			h.handleCustomInput(ctx, chatID, userID, text)
		}
	}
}

func (h *Handler) handleCustomInput(ctx context.Context, chatID, userID int64, text string) {
	amount, err := service.ParseAmount(text)
	if err != nil {
		// Session stays in the awaiting state so the donor can retry.
		var msg string
		switch {
		case errors.Is(err, domain.ErrAmountBelowMinimum):
			msg = fmt.Sprintf("❌ Minimal donasi adalah %s.", telegram.FormatRupiah(config.MinDonationAmount))
		case errors.Is(err, domain.ErrAmountAboveMaximum):
			msg = fmt.Sprintf("❌ Maksimal donasi adalah %s.", telegram.FormatRupiah(config.MaxDonationAmount))
		default:
			msg = "❌ Jumlah donasi harus berupa angka yang valid."
		}
		msg += "\n\nSilakan masukkan jumlah yang benar:"
		if _, err := h.sender.SendMessage(ctx, chatID, msg, telegram.ForceReply()); err != nil {
			slog.Error("send validation reply failed", "error", err, "user_id", userID)
		}
		return
	}

	h.sessions.SetAmount(userID, amount)
	h.replyWithSummary(ctx, chatID, userID)
	slog.Info("custom amount selected", "user_id", userID, "amount", amount)
}

func (h *Handler) handlePay(ctx context.Context, chatID, userID int64, from *models.User) {
	sess := h.sessions.GetOrCreate(userID)
	if !sess.HasAmount() {
		text := "⚠️ *Belum Pilih Nominal*\n\nKamu belum memilih nominal donasi nih!\n\nSilakan pilih nominal terlebih dahulu menggunakan tombol di bawah 👇"
		if _, err := h.sender.SendMessage(ctx, chatID, text, telegram.MainReplyKeyboard(config.PresetAmounts)); err != nil {
			slog.Error("send pick-amount reply failed", "error", err, "user_id", userID)
		}
		return
	}

	username := from.Username
	if username == "" {
		username = from.FirstName
	}

	if _, err := h.donations.Initiate(ctx, chatID, userID, username, sess.SelectedAmount); err != nil {
		slog.Error("payment initiation failed", "error", err, "user_id", userID, "amount", sess.SelectedAmount)
		text := "❌ *Oops! Terjadi Kesalahan*\n\nMaaf, sistem sedang mengalami gangguan. Silakan coba lagi dalam beberapa saat.\n\n💡 Jika masalah berlanjut, hubungi admin ya!"
		if _, sendErr := h.sender.SendMessage(ctx, chatID, text, telegram.MainReplyKeyboard(config.PresetAmounts)); sendErr != nil {
			slog.Error("send gateway failure reply failed", "error", sendErr, "user_id", userID)
		}
		return
	}

	// The order owns the amount now; the session goes back to idle.
	h.sessions.Clear(userID)
}

func (h *Handler) replyWithSummary(ctx context.Context, chatID, userID int64) {
	sess := h.sessions.GetOrCreate(userID)
	if _, err := h.sender.SendMessage(ctx, chatID, summaryText(sess), telegram.MainReplyKeyboard(config.PresetAmounts)); err != nil {
		slog.Error("send summary failed", "error", err, "user_id", userID)
	}
}
