package handler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/sahabat-berbagi/donasibot/internal/config"
	"github.com/sahabat-berbagi/donasibot/internal/domain"
	"github.com/sahabat-berbagi/donasibot/internal/telegram"
)

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID
	firstName := update.Message.From.FirstName
	if firstName == "" {
		firstName = "Sahabat"
	}

	h.sessions.Reset(userID)

	welcome := fmt.Sprintf(
		"✨ *SELAMAT DATANG* ✨\n\n"+
			"Hai *%s*! 👋\n\n"+
			"Terima kasih sudah membuka hatimu untuk *berbagi kebahagiaan* dengan sesama 💝\n",
		firstName,
	)

	// Running total is decorative: a storage hiccup here never blocks /start.
	if total, err := h.orders.MonthlyCompletedTotal(ctx, time.Now()); err != nil {
		slog.Warn("monthly donation total unavailable", "error", err)
	} else if total.IsPositive() {
		welcome += fmt.Sprintf("\n🌟 *Donasi terkumpul bulan ini:* %s\n",
			telegram.FormatRupiah(total.IntPart()))
	}

	welcome += "\n💡 *Cara Donasi Mudah:*\n" +
		"1️⃣ Pilih nominal donasi\n" +
		"2️⃣ Klik tombol \"💳 Bayar\"\n" +
		"3️⃣ Scan QRIS yang muncul\n" +
		"4️⃣ Selesai! ✨\n\n" +
		"🎯 Pilih nominal di bawah atau masukkan jumlah custom sesuai kemampuanmu 👇"

	if _, err := h.sender.SendMessage(ctx, chatID, welcome, telegram.MainReplyKeyboard(config.PresetAmounts)); err != nil {
		slog.Error("send welcome failed", "error", err, "user_id", userID)
	}
}

// summaryText renders the selection state shown after every keyboard action.
func summaryText(sess *domain.Session) string {
	text := "🎉 *Donasi — Bantu Sesama*\n\nMari bantu sesama dengan donasi Anda!\n\n"
	if sess.HasAmount() {
		text += fmt.Sprintf("💰 *Nominal terpilih:* %s\n", telegram.FormatRupiah(sess.SelectedAmount))
	} else {
		text += "💰 *Pilih nominal donasi di bawah*\n"
	}
	text += "\nGunakan tombol keyboard untuk memilih:"
	return text
}
