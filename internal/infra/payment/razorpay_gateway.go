package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"lms-platform/internal/domain"
	"lms-platform/internal/domain/ports/adapter"
)

// RazorpayGateway implements adapter.PaymentGateway over Razorpay's orders API
// using direct HTTP calls with basic auth.
type RazorpayGateway struct {
	keyID     string
	keySecret string
	baseURL   string
	client    *http.Client
}

var _ adapter.PaymentGateway = (*RazorpayGateway)(nil)

// NewRazorpayGateway creates a gateway client. timeout bounds every call so a
// stalled processor surfaces ErrGatewayTimeout instead of hanging the request.
func NewRazorpayGateway(keyID, keySecret, baseURL string, timeout time.Duration) (*RazorpayGateway, error) {
	if keyID == "" || keySecret == "" {
		return nil, errors.New("razorpay: key id and secret are required")
	}
	if baseURL == "" {
		baseURL = "https://api.razorpay.com/v1"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RazorpayGateway{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   baseURL,
		client:    &http.Client{Timeout: timeout},
	}, nil
}

func (g *RazorpayGateway) Name() string { return "razorpay" }

type razorpayOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type razorpayErrorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder implements adapter.PaymentGateway.CreateOrder.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (adapter.OrderHandle, error) {
	requestData := map[string]interface{}{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receipt,
	}
	if notes != nil {
		requestData["notes"] = notes
	}

	jsonData, err := json.Marshal(requestData)
	if err != nil {
		return adapter.OrderHandle{}, fmt.Errorf("razorpay: marshal order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/orders", bytes.NewBuffer(jsonData))
	if err != nil {
		return adapter.OrderHandle{}, fmt.Errorf("razorpay: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.keyID, g.keySecret)

	return g.do(req)
}

// FetchOrder implements adapter.PaymentGateway.FetchOrder.
func (g *RazorpayGateway) FetchOrder(ctx context.Context, orderID string) (adapter.OrderHandle, error) {
	if orderID == "" {
		return adapter.OrderHandle{}, domain.ErrValidation
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/orders/"+orderID, nil)
	if err != nil {
		return adapter.OrderHandle{}, fmt.Errorf("razorpay: build request: %w", err)
	}
	req.SetBasicAuth(g.keyID, g.keySecret)

	return g.do(req)
}

func (g *RazorpayGateway) do(req *http.Request) (adapter.OrderHandle, error) {
	resp, err := g.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return adapter.OrderHandle{}, fmt.Errorf("razorpay: %w", domain.ErrGatewayTimeout)
		}
		return adapter.OrderHandle{}, fmt.Errorf("razorpay: %w: %v", domain.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return adapter.OrderHandle{}, fmt.Errorf("razorpay: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr razorpayErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Description != "" {
			return adapter.OrderHandle{}, fmt.Errorf("razorpay: %w: %s (%s)", domain.ErrGatewayUnavailable, apiErr.Error.Description, apiErr.Error.Code)
		}
		return adapter.OrderHandle{}, fmt.Errorf("razorpay: %w: status %d", domain.ErrGatewayUnavailable, resp.StatusCode)
	}

	var order razorpayOrderResponse
	if err := json.Unmarshal(body, &order); err != nil {
		return adapter.OrderHandle{}, fmt.Errorf("razorpay: unmarshal response: %w, body: %s", err, string(body))
	}
	return adapter.OrderHandle{
		ID:       order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Receipt:  order.Receipt,
		Status:   order.Status,
	}, nil
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
