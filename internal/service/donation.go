package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sahabat-berbagi/donasibot/internal/config"
	"github.com/sahabat-berbagi/donasibot/internal/domain"
	"github.com/sahabat-berbagi/donasibot/internal/gateway"
	"github.com/sahabat-berbagi/donasibot/internal/qr"
	"github.com/sahabat-berbagi/donasibot/internal/repository"
	"github.com/sahabat-berbagi/donasibot/internal/telegram"
)

// DonationService coordinates the order lifecycle: it creates QRIS payment
// requests, reconciles their status against the gateway via polling and
// webhook push, and enforces expiry with a process-lifetime timer.
//
// Completion from every path (status check, webhook, simulation, expiry race)
// funnels through applyCompletion, which re-reads the persisted status before
// acting so duplicate deliveries stay idempotent.
type DonationService struct {
	store    repository.OrderStore
	gateway  gateway.Client
	sender   telegram.Sender
	notifier *Notifier

	// afterFunc is swappable in tests; defaults to time.AfterFunc.
	afterFunc func(d time.Duration, f func()) *time.Timer
}

func NewDonationService(store repository.OrderStore, gw gateway.Client, sender telegram.Sender, notifier *Notifier) *DonationService {
	return &DonationService{
		store:     store,
		gateway:   gw,
		sender:    sender,
		notifier:  notifier,
		afterFunc: time.AfterFunc,
	}
}

// NewOrderID builds a unique order identifier from the current time and a
// short random suffix, safe against collision under concurrent creation.
func NewOrderID() string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("ORD%d%s", time.Now().UnixMilli(), suffix)
}

// Initiate creates a pending order for the selected amount, arms its expiry
// timer, and sends the QR photo to the chat. Nothing is persisted when the
// gateway call fails.
func (s *DonationService) Initiate(ctx context.Context, chatID, userID int64, username string, amount int64) (*domain.Order, error) {
	orderID := NewOrderID()

	tx, err := s.gateway.CreateTransaction(ctx, orderID, amount)
	if err != nil {
		return nil, fmt.Errorf("create qris transaction: %w", err)
	}

	order := &domain.Order{
		OrderID:       orderID,
		UserID:        userID,
		Username:      username,
		Amount:        amount,
		PaymentMethod: domain.PaymentMethodQRIS,
		Status:        domain.OrderStatusPending,
		QRString:      tx.PaymentNumber,
		ExpiredAt:     tx.ExpiredAt,
	}

	// Persist before rendering: a created-but-unsaved payment request is an
	// orphan the donor can still pay into, so the failure is logged with
	// enough context for the operator to reconcile it manually.
	if err := s.store.Insert(ctx, order); err != nil {
		slog.Error("orphaned gateway transaction: order not persisted",
			"order_id", orderID, "user_id", userID, "amount", amount, "error", err)
		return nil, fmt.Errorf("save order: %w", err)
	}

	// Armed as soon as the order exists: even when rendering or delivery
	// fails below, the persisted pending order still expires on schedule.
	s.scheduleExpiry(orderID, tx.ExpiredAt)

	png, err := qr.EncodePNG(tx.PaymentNumber, config.QRImageSize)
	if err != nil {
		return nil, fmt.Errorf("render qr image: %w", err)
	}

	caption := fmt.Sprintf(
		"💰 *Total Pembayaran:* %s\n"+
			"⏰ *Batas Waktu:* %s\n\n"+
			"📱 Scan QRIS di atas untuk menyelesaikan pembayaran.\n\n"+
			"✅ Klik tombol \"Cek Status\" setelah bayar untuk verifikasi otomatis!",
		telegram.FormatRupiah(tx.TotalPayment),
		tx.ExpiredAt.Format("02/01/2006 15:04"),
	)

	msgID, err := s.sender.SendPhoto(ctx, chatID, png, caption, telegram.QRStatusKeyboard(orderID))
	if err != nil {
		return nil, fmt.Errorf("send qr photo: %w", err)
	}

	if err := s.store.SetQRMessage(ctx, orderID, msgID); err != nil {
		slog.Error("record qr message id failed", "error", err, "order_id", orderID)
	}
	mid := msgID
	order.QRMessageID = &mid

	slog.Info("qris payment created", "order_id", orderID, "user_id", userID, "amount", amount)
	return order, nil
}

// CheckStatus polls the gateway for the order's current status and applies a
// completion not yet reflected locally. Calling it again after completion is
// a no-op beyond the status report.
func (s *DonationService) CheckStatus(ctx context.Context, orderID string) (domain.OrderStatus, error) {
	order, err := s.store.GetByOrderID(ctx, orderID)
	if err != nil {
		return "", err
	}

	if order.Status == domain.OrderStatusCompleted {
		return domain.OrderStatusCompleted, nil
	}

	detail, err := s.gateway.TransactionDetail(ctx, orderID, order.Amount)
	if err != nil {
		return "", fmt.Errorf("check qris status: %w", err)
	}

	if detail.Status == gateway.StatusCompleted {
		if err := s.applyCompletion(ctx, orderID); err != nil {
			return "", err
		}
		return domain.OrderStatusCompleted, nil
	}
	return order.Status, nil
}

// HandleWebhook applies a completion pushed by the gateway. Statuses other
// than completed are accepted and ignored; duplicate or out-of-order
// deliveries for a completed order do nothing.
func (s *DonationService) HandleWebhook(ctx context.Context, orderID, status string) error {
	if status != gateway.StatusCompleted {
		slog.Info("webhook ignored", "order_id", orderID, "status", status)
		return nil
	}
	return s.applyCompletion(ctx, orderID)
}

// SimulateCompletion marks a pending order completed without consulting the
// gateway. Used by the operator-only /simulate_payment command.
func (s *DonationService) SimulateCompletion(ctx context.Context, orderID string) error {
	order, err := s.store.GetByOrderID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.Status != domain.OrderStatusPending {
		return domain.ErrOrderNotPending
	}
	return s.applyCompletion(ctx, orderID)
}

// applyCompletion is the single idempotent completion path. It re-reads the
// persisted status first: an already-completed order is left untouched and
// triggers no notifications.
func (s *DonationService) applyCompletion(ctx context.Context, orderID string) error {
	order, err := s.store.GetByOrderID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.Status == domain.OrderStatusCompleted {
		slog.Info("completion already applied", "order_id", orderID)
		return nil
	}

	now := time.Now()
	if err := s.store.UpdateStatus(ctx, orderID, domain.OrderStatusCompleted, &now); err != nil {
		return fmt.Errorf("mark order completed: %w", err)
	}

	if order.QRMessageID != nil {
		if err := s.sender.DeleteMessage(ctx, order.UserID, *order.QRMessageID); err != nil {
			slog.Warn("delete qr message failed", "error", err, "order_id", orderID)
		}
	}

	s.notifier.NotifyCompleted(ctx, order, now)
	slog.Info("donation completed", "order_id", orderID, "user_id", order.UserID, "amount", order.Amount)
	return nil
}

// scheduleExpiry arms a one-shot timer firing at expiresAt. The timer lives
// only for the lifetime of the process: a restart loses pending expirations
// and leaves stale QR messages undeleted until the donor rechecks.
func (s *DonationService) scheduleExpiry(orderID string, expiresAt time.Time) {
	d := time.Until(expiresAt)
	if d < 0 {
		d = 0
	}
	s.afterFunc(d, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.ExpireOrder(ctx, orderID); err != nil {
			slog.Error("expire order failed", "error", err, "order_id", orderID)
		}
	})
}

// ExpireOrder re-validates the order when the expiry timer fires. An order
// that completed in the meantime is left alone; a still-pending one has its
// QR message deleted, transitions to the expired terminal state, and the
// donor is told the payment window closed.
func (s *DonationService) ExpireOrder(ctx context.Context, orderID string) error {
	order, err := s.store.GetByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return nil
		}
		return err
	}
	if order.Status != domain.OrderStatusPending {
		return nil
	}

	if order.QRMessageID != nil {
		if err := s.sender.DeleteMessage(ctx, order.UserID, *order.QRMessageID); err != nil {
			slog.Warn("delete expired qr message failed", "error", err, "order_id", orderID)
		}
	}

	if err := s.store.UpdateStatus(ctx, orderID, domain.OrderStatusExpired, nil); err != nil {
		return fmt.Errorf("mark order expired: %w", err)
	}

	s.notifier.NotifyExpired(ctx, order)
	slog.Info("order expired", "order_id", orderID, "user_id", order.UserID)
	return nil
}
