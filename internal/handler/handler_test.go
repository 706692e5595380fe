package handler

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/shopspring/decimal"

	"github.com/sahabat-berbagi/donasibot/internal/config"
	"github.com/sahabat-berbagi/donasibot/internal/domain"
	"github.com/sahabat-berbagi/donasibot/internal/gateway"
	"github.com/sahabat-berbagi/donasibot/internal/service"
	"github.com/sahabat-berbagi/donasibot/internal/session"
)

// fakeOrderStore is an in-memory order store for handler tests.
type fakeOrderStore struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: make(map[string]*domain.Order)}
}

func (f *fakeOrderStore) Insert(ctx context.Context, order *domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *order
	cp.ID = int64(len(f.orders) + 1)
	cp.CreatedAt = time.Now()
	f.orders[order.OrderID] = &cp
	return nil
}

func (f *fakeOrderStore) GetByOrderID(ctx context.Context, orderID string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderStore) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus, completedAt *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.Status = status
	o.CompletedAt = completedAt
	return nil
}

func (f *fakeOrderStore) SetQRMessage(ctx context.Context, orderID string, messageID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if o, ok := f.orders[orderID]; ok {
		o.QRMessageID = &messageID
	}
	return nil
}

func (f *fakeOrderStore) MonthlyCompletedTotal(ctx context.Context, now time.Time) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

type fakeGateway struct{}

func (fakeGateway) CreateTransaction(ctx context.Context, orderID string, amount int64) (*gateway.Transaction, error) {
	return &gateway.Transaction{
		OrderID:       orderID,
		PaymentNumber: "00020101021226QRIS-TEST",
		TotalPayment:  amount,
		ExpiredAt:     time.Now().Add(10 * time.Minute),
	}, nil
}

func (fakeGateway) TransactionDetail(ctx context.Context, orderID string, amount int64) (*gateway.Detail, error) {
	return &gateway.Detail{OrderID: orderID, Amount: amount, Status: "pending"}, nil
}

// fakeSender records outbound traffic per chat.
type fakeSender struct {
	mu       sync.Mutex
	nextID   int
	messages map[int64][]string
	photos   map[int64]int
}

func newFakeSender() *fakeSender {
	return &fakeSender{messages: make(map[int64][]string), photos: make(map[int64]int)}
}

func (f *fakeSender) SendMessage(ctx context.Context, chatID int64, text string, markup models.ReplyMarkup) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.messages[chatID] = append(f.messages[chatID], text)
	return f.nextID, nil
}

func (f *fakeSender) SendPhoto(ctx context.Context, chatID int64, photo []byte, caption string, markup models.ReplyMarkup) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.photos[chatID]++
	return f.nextID, nil
}

func (f *fakeSender) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	return nil
}

func (f *fakeSender) AnswerCallback(ctx context.Context, callbackID, text string) error {
	return nil
}

func (f *fakeSender) lastMessage(chatID int64) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	msgs := f.messages[chatID]
	if len(msgs) == 0 {
		return ""
	}
	return msgs[len(msgs)-1]
}

const ownerID int64 = 999

func newTestHandler() (*Handler, *fakeOrderStore, *fakeSender, *session.Store) {
	store := newFakeOrderStore()
	sender := newFakeSender()
	sessions := session.NewStore(10 * time.Minute)
	notifier := service.NewNotifier(sender, ownerID)
	donations := service.NewDonationService(store, fakeGateway{}, sender, notifier)

	h := New(Deps{
		Cfg:       &config.Config{OwnerID: ownerID},
		Sessions:  sessions,
		Orders:    store,
		Donations: donations,
		Sender:    sender,
	})
	return h, store, sender, sessions
}

func textUpdate(userID int64, text string) *models.Update {
	return &models.Update{
		Message: &models.Message{
			Text: text,
			Chat: models.Chat{ID: userID},
			From: &models.User{ID: userID, Username: "budi", FirstName: "Budi"},
		},
	}
}

func TestSimulatePaymentRequiresOperator(t *testing.T) {
	h, store, sender, _ := newTestHandler()
	store.orders["ORD1"] = &domain.Order{
		OrderID: "ORD1", UserID: 100, Amount: 50000,
		Status: domain.OrderStatusPending, ExpiredAt: time.Now().Add(10 * time.Minute),
	}

	h.handleSimulatePayment(context.Background(), nil, textUpdate(100, "/simulate_payment ORD1"))

	if got := sender.lastMessage(100); !strings.Contains(got, "hanya untuk admin") {
		t.Errorf("non-operator reply = %q, want admin-only refusal", got)
	}
	if store.orders["ORD1"].Status != domain.OrderStatusPending {
		t.Errorf("status = %q, order must stay pending for a non-operator", store.orders["ORD1"].Status)
	}

	// The operator goes through.
	h.handleSimulatePayment(context.Background(), nil, textUpdate(ownerID, "/simulate_payment ORD1"))
	if store.orders["ORD1"].Status != domain.OrderStatusCompleted {
		t.Errorf("status = %q, want completed after operator simulate", store.orders["ORD1"].Status)
	}
}

func TestCustomAmountRejectionKeepsAwaiting(t *testing.T) {
	h, store, sender, sessions := newTestHandler()

	h.HandleText(context.Background(), nil, textUpdate(100, "💰 Custom Nominal"))
	if sess := sessions.Get(100); sess == nil || !sess.AwaitingCustomAmount {
		t.Fatal("custom-amount request should enter the awaiting state")
	}

	h.HandleText(context.Background(), nil, textUpdate(100, "500"))

	sess := sessions.Get(100)
	if !sess.AwaitingCustomAmount {
		t.Error("rejected amount must leave the session awaiting so the donor can retry")
	}
	if sess.HasAmount() {
		t.Errorf("SelectedAmount = %d, want none after rejection", sess.SelectedAmount)
	}
	if len(store.orders) != 0 {
		t.Error("no order may be created for a rejected amount")
	}
	if got := sender.lastMessage(100); !strings.Contains(got, "Minimal donasi") {
		t.Errorf("rejection reply = %q, want minimum-amount message", got)
	}
}

func TestDonationFlowClearsSession(t *testing.T) {
	h, store, sender, sessions := newTestHandler()

	h.HandleText(context.Background(), nil, textUpdate(100, "Rp50.000"))
	if sess := sessions.Get(100); sess == nil || sess.SelectedAmount != 50000 {
		t.Fatal("preset press should record the selected amount")
	}

	h.HandleText(context.Background(), nil, textUpdate(100, "💳 Bayar"))

	if sess := sessions.Get(100); sess.HasAmount() {
		t.Errorf("SelectedAmount = %d, session must be cleared after payment starts", sess.SelectedAmount)
	}
	if sender.photos[100] != 1 {
		t.Errorf("QR photos to donor = %d, want 1", sender.photos[100])
	}

	var created *domain.Order
	for _, o := range store.orders {
		created = o
	}
	if created == nil {
		t.Fatal("an order must be persisted for the payment")
	}
	if created.Amount != 50000 || created.Status != domain.OrderStatusPending {
		t.Errorf("order = amount %d status %q, want 50000 pending", created.Amount, created.Status)
	}
}
