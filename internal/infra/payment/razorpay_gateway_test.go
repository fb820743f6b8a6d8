//go:build !integration

package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lms-platform/internal/domain"
	"lms-platform/internal/domain/ports/adapter"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc) (*RazorpayGateway, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	gw, err := NewRazorpayGateway("key-id", "key-secret", srv.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("NewRazorpayGateway: %v", err)
	}
	return gw, srv
}

func TestRazorpayGateway_CreateOrder(t *testing.T) {
	t.Run("posts amount in minor units and returns the handle", func(t *testing.T) {
		var gotBody map[string]interface{}
		gw, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/orders" {
				t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			}
			if user, pass, ok := r.BasicAuth(); !ok || user != "key-id" || pass != "key-secret" {
				t.Error("expected basic auth with gateway credentials")
			}
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"id": "order_123", "amount": 50000, "currency": "INR",
				"receipt": "course-c1", "status": "created",
			})
		})

		h, err := gw.CreateOrder(context.Background(), 50000, "INR", "course-c1", map[string]string{
			"courseId": "c1", "userId": "u1",
		})
		if err != nil {
			t.Fatalf("CreateOrder: %v", err)
		}
		if h.ID != "order_123" || h.Amount != 50000 || h.Status != adapter.OrderStatusCreated {
			t.Errorf("unexpected handle: %+v", h)
		}
		if gotBody["amount"].(float64) != 50000 {
			t.Errorf("expected amount 50000 in request, got %v", gotBody["amount"])
		}
		notes := gotBody["notes"].(map[string]interface{})
		if notes["courseId"] != "c1" || notes["userId"] != "u1" {
			t.Errorf("expected courseId/userId notes, got %v", notes)
		}
	})

	t.Run("maps non-2xx responses to ErrGatewayUnavailable", func(t *testing.T) {
		gw, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]string{"code": "SERVER_ERROR", "description": "try later"},
			})
		})

		_, err := gw.CreateOrder(context.Background(), 100, "INR", "r", nil)
		if !errors.Is(err, domain.ErrGatewayUnavailable) {
			t.Errorf("expected ErrGatewayUnavailable, got %v", err)
		}
	})
}

func TestRazorpayGateway_FetchOrder(t *testing.T) {
	t.Run("returns paid status for a settled order", func(t *testing.T) {
		gw, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/orders/order_123" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"id": "order_123", "amount": 50000, "currency": "INR", "status": "paid",
			})
		})

		h, err := gw.FetchOrder(context.Background(), "order_123")
		if err != nil {
			t.Fatalf("FetchOrder: %v", err)
		}
		if h.Status != adapter.OrderStatusPaid {
			t.Errorf("expected paid, got %q", h.Status)
		}
	})

	t.Run("rejects empty order id", func(t *testing.T) {
		gw, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {})
		if _, err := gw.FetchOrder(context.Background(), ""); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})
}

func TestRazorpayGateway_Timeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(block)
		srv.Close()
	})

	gw, err := NewRazorpayGateway("key-id", "key-secret", srv.URL, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("NewRazorpayGateway: %v", err)
	}

	_, err = gw.CreateOrder(context.Background(), 50000, "INR", "course-c1", nil)
	if !errors.Is(err, domain.ErrGatewayTimeout) {
		t.Fatalf("expected ErrGatewayTimeout, got %v", err)
	}
}
