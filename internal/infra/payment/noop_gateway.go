package payment

import (
	"context"
	"fmt"
	"sync"

	"lms-platform/internal/domain"
	"lms-platform/internal/domain/ports/adapter"
)

var _ adapter.PaymentGateway = (*NoopGateway)(nil)

// NoopGateway is a simple in-memory gateway for dev mode and tests.
type NoopGateway struct {
	mu     sync.Mutex
	seq    int64
	orders map[string]adapter.OrderHandle
}

func NewNoopGateway() *NoopGateway {
	return &NoopGateway{orders: make(map[string]adapter.OrderHandle)}
}

func (g *NoopGateway) Name() string { return "noop" }

func (g *NoopGateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (adapter.OrderHandle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	h := adapter.OrderHandle{
		ID:       fmt.Sprintf("order_noop_%d", g.seq),
		Amount:   amountMinor,
		Currency: currency,
		Receipt:  receipt,
		Status:   adapter.OrderStatusCreated,
	}
	g.orders[h.ID] = h
	return h, nil
}

func (g *NoopGateway) FetchOrder(ctx context.Context, orderID string) (adapter.OrderHandle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	h, ok := g.orders[orderID]
	if !ok {
		return adapter.OrderHandle{}, domain.ErrNotFound
	}
	return h, nil
}

// MarkPaid flips an order to paid so reconciler tests can observe completion.
func (g *NoopGateway) MarkPaid(orderID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if h, ok := g.orders[orderID]; ok {
		h.Status = adapter.OrderStatusPaid
		g.orders[orderID] = h
	}
}
