package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/shopspring/decimal"

	"github.com/sahabat-berbagi/donasibot/internal/domain"
	"github.com/sahabat-berbagi/donasibot/internal/gateway"
	"github.com/sahabat-berbagi/donasibot/internal/service"
)

// stubStore holds a fixed set of orders; writes mutate them in place.
type stubStore struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
}

func (s *stubStore) Insert(ctx context.Context, order *domain.Order) error { return nil }

func (s *stubStore) GetByOrderID(ctx context.Context, orderID string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *stubStore) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus, completedAt *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.orders[orderID]; ok {
		o.Status = status
		o.CompletedAt = completedAt
	}
	return nil
}

func (s *stubStore) SetQRMessage(ctx context.Context, orderID string, messageID int) error {
	return nil
}

func (s *stubStore) MonthlyCompletedTotal(ctx context.Context, now time.Time) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

type stubGateway struct{}

func (stubGateway) CreateTransaction(ctx context.Context, orderID string, amount int64) (*gateway.Transaction, error) {
	return nil, domain.ErrGatewayUnavailable
}

func (stubGateway) TransactionDetail(ctx context.Context, orderID string, amount int64) (*gateway.Detail, error) {
	return nil, domain.ErrGatewayUnavailable
}

type stubSender struct {
	mu   sync.Mutex
	sent int
}

func (s *stubSender) SendMessage(ctx context.Context, chatID int64, text string, markup models.ReplyMarkup) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent++
	return s.sent, nil
}

func (s *stubSender) SendPhoto(ctx context.Context, chatID int64, photo []byte, caption string, markup models.ReplyMarkup) (int, error) {
	return 0, nil
}

func (s *stubSender) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	return nil
}

func (s *stubSender) AnswerCallback(ctx context.Context, callbackID, text string) error {
	return nil
}

func newTestServer(orders map[string]*domain.Order) *Server {
	sender := &stubSender{}
	notifier := service.NewNotifier(sender, 999)
	donations := service.NewDonationService(&stubStore{orders: orders}, stubGateway{}, sender, notifier)
	return New(0, "test-token", donations, nil)
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body["status"] != "Bot is running" {
		t.Errorf("status field = %q", body["status"])
	}
	if body["timestamp"] == "" {
		t.Error("timestamp field missing")
	}
}

func TestPakasirWebhookCompleted(t *testing.T) {
	orders := map[string]*domain.Order{
		"ORD1": {
			OrderID:   "ORD1",
			UserID:    100,
			Username:  "budi",
			Amount:    50000,
			Status:    domain.OrderStatusPending,
			ExpiredAt: time.Now().Add(10 * time.Minute),
		},
	}
	srv := newTestServer(orders)

	req := httptest.NewRequest(http.MethodPost, "/webhook/pakasir",
		strings.NewReader(`{"order_id":"ORD1","status":"completed"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if orders["ORD1"].Status != domain.OrderStatusCompleted {
		t.Errorf("order status = %q, want completed", orders["ORD1"].Status)
	}
}

func TestPakasirWebhookUnknownOrderStill200(t *testing.T) {
	srv := newTestServer(nil)

	req := httptest.NewRequest(http.MethodPost, "/webhook/pakasir",
		strings.NewReader(`{"order_id":"NOPE","status":"completed"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 so the gateway stops retrying", rec.Code)
	}
}

func TestPakasirWebhookIgnoresOtherStatuses(t *testing.T) {
	orders := map[string]*domain.Order{
		"ORD1": {OrderID: "ORD1", Status: domain.OrderStatusPending, ExpiredAt: time.Now().Add(time.Minute)},
	}
	srv := newTestServer(orders)

	req := httptest.NewRequest(http.MethodPost, "/webhook/pakasir",
		strings.NewReader(`{"order_id":"ORD1","status":"failed"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if orders["ORD1"].Status != domain.OrderStatusPending {
		t.Errorf("order status = %q, want pending untouched", orders["ORD1"].Status)
	}
}

func TestPakasirWebhookMalformedBody(t *testing.T) {
	srv := newTestServer(nil)

	req := httptest.NewRequest(http.MethodPost, "/webhook/pakasir", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
