package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/sahabat-berbagi/donasibot/internal/domain"
)

// OrderStore persists donation orders. Orders are append-only: rows are
// inserted once and only their status-related columns change afterwards.
type OrderStore interface {
	Insert(ctx context.Context, order *domain.Order) error
	GetByOrderID(ctx context.Context, orderID string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus, completedAt *time.Time) error
	SetQRMessage(ctx context.Context, orderID string, messageID int) error
	MonthlyCompletedTotal(ctx context.Context, now time.Time) (decimal.Decimal, error)
}

type PgOrderStore struct {
	db *pgxpool.Pool
}

func NewPgOrderStore(db *pgxpool.Pool) *PgOrderStore {
	return &PgOrderStore{db: db}
}

func (s *PgOrderStore) Insert(ctx context.Context, order *domain.Order) error {
	err := s.db.QueryRow(ctx, `
		INSERT INTO orders (
			order_id, user_id, username, amount, payment_method,
			status, qr_string, expired_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`,
		order.OrderID, order.UserID, order.Username, order.Amount,
		order.PaymentMethod, order.Status, order.QRString, order.ExpiredAt,
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (s *PgOrderStore) GetByOrderID(ctx context.Context, orderID string) (*domain.Order, error) {
	var o domain.Order
	var status string
	err := s.db.QueryRow(ctx, `
		SELECT id, order_id, user_id, username, amount, payment_method,
		       status, qr_string, expired_at, qr_message_id, completed_at, created_at
		FROM orders
		WHERE order_id = $1`,
		orderID,
	).Scan(&o.ID, &o.OrderID, &o.UserID, &o.Username, &o.Amount, &o.PaymentMethod,
		&status, &o.QRString, &o.ExpiredAt, &o.QRMessageID, &o.CompletedAt, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	o.Status = normalizeStatus(status)
	return &o, nil
}

func (s *PgOrderStore) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus, completedAt *time.Time) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE orders SET status = $1, completed_at = $2
		WHERE order_id = $3`,
		status, completedAt, orderID,
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (s *PgOrderStore) SetQRMessage(ctx context.Context, orderID string, messageID int) error {
	_, err := s.db.Exec(ctx, `
		UPDATE orders SET qr_message_id = $1 WHERE order_id = $2`,
		messageID, orderID,
	)
	if err != nil {
		return fmt.Errorf("set qr message id: %w", err)
	}
	return nil
}

// MonthlyCompletedTotal sums completed donations for the calendar month
// containing now. SUM over bigint yields numeric, scanned as decimal.
func (s *PgOrderStore) MonthlyCompletedTotal(ctx context.Context, now time.Time) (decimal.Decimal, error) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	nextMonth := monthStart.AddDate(0, 1, 0)

	var total decimal.Decimal
	err := s.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM orders
		WHERE status IN ('completed', 'verified')
		  AND completed_at >= $1 AND completed_at < $2`,
		monthStart, nextMonth,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum monthly donations: %w", err)
	}
	return total, nil
}

// normalizeStatus maps the legacy 'verified' status, written by an earlier
// version of the bot, onto completed.
func normalizeStatus(status string) domain.OrderStatus {
	if status == "verified" {
		return domain.OrderStatusCompleted
	}
	return domain.OrderStatus(status)
}
