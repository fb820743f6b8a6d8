package adapter

import "context"

// OrderHandle is what the gateway returns for an initiated charge: the
// identifier the payer-side checkout needs plus the amount actually booked.
type OrderHandle struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // minor currency units
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"` // created | attempted | paid
}

const (
	OrderStatusCreated   = "created"
	OrderStatusAttempted = "attempted"
	OrderStatusPaid      = "paid"
)

// PaymentGateway is the hex port for the external payment processor.
// Amounts are minor units; converting from the catalog's major units is the
// adapter caller's concern.
type PaymentGateway interface {
	Name() string

	// CreateOrder books an order with the processor. notes travel opaquely to
	// the processor and come back on dashboards/webhooks.
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (OrderHandle, error)

	// FetchOrder reads the current processor-side state of an order. Used by
	// the reconciler to finalize purchases whose callback never arrived.
	FetchOrder(ctx context.Context, orderID string) (OrderHandle, error)
}

// SignatureVerifier checks that a payment callback was produced by the
// processor holding the shared secret.
type SignatureVerifier interface {
	Verify(orderID, paymentID, signature string) bool
}
