package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusExpired   OrderStatus = "expired"
)

// PaymentMethodQRIS is the only payment method this bot issues.
const PaymentMethodQRIS = "qris"

// Order is a single donation payment attempt. Orders are never deleted,
// only transitioned between statuses.
type Order struct {
	ID            int64
	OrderID       string
	UserID        int64
	Username      string
	Amount        int64
	PaymentMethod string
	Status        OrderStatus
	QRString      string
	ExpiredAt     time.Time
	QRMessageID   *int
	CompletedAt   *time.Time
	CreatedAt     time.Time
}
