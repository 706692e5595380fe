package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sahabat-berbagi/donasibot/internal/domain"
	"github.com/sahabat-berbagi/donasibot/internal/telegram"
)

// Notifier sends lifecycle notifications to the donor and the operator. Every
// send is best-effort: a delivery failure is logged and never propagated, so
// a broken operator chat cannot roll back a completed order.
type Notifier struct {
	sender  telegram.Sender
	ownerID int64
}

func NewNotifier(sender telegram.Sender, ownerID int64) *Notifier {
	return &Notifier{sender: sender, ownerID: ownerID}
}

func (n *Notifier) NotifyCompleted(ctx context.Context, order *domain.Order, completedAt time.Time) {
	donorText := fmt.Sprintf(
		"✅ *PEMBAYARAN BERHASIL!*\n\n"+
			"Terima kasih atas donasimu! 🎉\n\n"+
			"💰 *Nominal:* %s\n"+
			"📅 *Tanggal:* %s\n\n"+
			"💝 Setiap kebaikan yang kamu berikan akan kembali dengan cara yang lebih indah. Barakallah!\n\n"+
			"🌟 Mau donasi lagi? Ketik /start",
		telegram.FormatRupiah(order.Amount),
		completedAt.Format("02/01/2006 15:04"),
	)
	if _, err := n.sender.SendMessage(ctx, order.UserID, donorText, nil); err != nil {
		slog.Error("notify donor failed", "error", err, "order_id", order.OrderID, "user_id", order.UserID)
	}

	operatorText := fmt.Sprintf(
		"🎊 *DONASI BARU MASUK!*\n\n"+
			"👤 *Donatur:* %s\n"+
			"💰 *Nominal:* %s\n"+
			"📅 *Waktu:* %s\n"+
			"✅ *Status:* BERHASIL",
		order.Username,
		telegram.FormatRupiah(order.Amount),
		completedAt.Format("02/01/2006 15:04"),
	)
	if _, err := n.sender.SendMessage(ctx, n.ownerID, operatorText, nil); err != nil {
		slog.Error("notify operator failed", "error", err, "order_id", order.OrderID)
	}
}

func (n *Notifier) NotifyExpired(ctx context.Context, order *domain.Order) {
	text := fmt.Sprintf(
		"⏰ *Waktu Pembayaran Habis*\n\n"+
			"Pembayaran untuk donasi %s sudah kedaluwarsa.\n\n"+
			"Ketik /start untuk membuat donasi baru ya!",
		telegram.FormatRupiah(order.Amount),
	)
	if _, err := n.sender.SendMessage(ctx, order.UserID, text, nil); err != nil {
		slog.Error("notify expiry failed", "error", err, "order_id", order.OrderID, "user_id", order.UserID)
	}
}
