// Package gateway wraps the Pakasir payment API. Pakasir issues QRIS payment
// strings and reports transaction status; both lookups are keyed by the pair
// (order_id, amount).
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sahabat-berbagi/donasibot/internal/domain"
)

// Transaction is the payment descriptor returned on create. PaymentNumber is
// the QRIS string the donor scans.
type Transaction struct {
	OrderID       string    `json:"order_id"`
	PaymentNumber string    `json:"payment_number"`
	TotalPayment  int64     `json:"total_payment"`
	ExpiredAt     time.Time `json:"expired_at"`
}

// Detail is the current state of a transaction as reported by the gateway.
type Detail struct {
	OrderID     string     `json:"order_id"`
	Amount      int64      `json:"amount"`
	Status      string     `json:"status"`
	CompletedAt *time.Time `json:"completed_at"`
}

// StatusCompleted is the gateway's terminal success status.
const StatusCompleted = "completed"

type Client interface {
	CreateTransaction(ctx context.Context, orderID string, amount int64) (*Transaction, error)
	TransactionDetail(ctx context.Context, orderID string, amount int64) (*Detail, error)
}

type PakasirClient struct {
	baseURL    string
	project    string
	apiKey     string
	httpClient *http.Client
}

func NewPakasirClient(baseURL, project, apiKey string) *PakasirClient {
	return &PakasirClient{
		baseURL:    baseURL,
		project:    project,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *PakasirClient) CreateTransaction(ctx context.Context, orderID string, amount int64) (*Transaction, error) {
	payload := map[string]any{
		"project":  c.project,
		"order_id": orderID,
		"amount":   amount,
		"api_key":  c.apiKey,
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/transactioncreate/qris", bytes.NewReader(payloadJSON))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrGatewayUnavailable, resp.StatusCode, body)
	}

	var tx Transaction
	if err := json.Unmarshal(body, &tx); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &tx, nil
}

func (c *PakasirClient) TransactionDetail(ctx context.Context, orderID string, amount int64) (*Detail, error) {
	q := url.Values{}
	q.Set("project", c.project)
	q.Set("order_id", orderID)
	q.Set("amount", strconv.FormatInt(amount, 10))
	q.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/transactiondetail?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrGatewayUnavailable, resp.StatusCode, body)
	}

	// The API nests the payload under "transaction"; older responses were flat.
	var result struct {
		Transaction *Detail `json:"transaction"`
	}
	if err := json.Unmarshal(body, &result); err == nil && result.Transaction != nil {
		return result.Transaction, nil
	}

	var detail Detail
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &detail, nil
}
