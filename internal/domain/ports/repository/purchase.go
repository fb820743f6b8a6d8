package repository

import (
	"context"
	"time"

	"lms-platform/internal/domain/model"
)

// PurchasePatch carries the mutable fields of a status transition. Nil fields
// are left untouched by the update.
type PurchasePatch struct {
	RefundID     *string
	RefundAmount *int64
	RefundReason *string
}

type PurchaseRepository interface {
	Save(ctx context.Context, tx Tx, p *model.Purchase) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Purchase, error)
	// FindByPaymentID resolves the purchase whose gateway order id matches.
	FindByPaymentID(ctx context.Context, tx Tx, paymentID string) (*model.Purchase, error)
	ListByUser(ctx context.Context, tx Tx, userID string) ([]*model.Purchase, error)
	// ListPendingOlderThan feeds the reconciler with stale pending purchases.
	ListPendingOlderThan(ctx context.Context, tx Tx, olderThan time.Time, limit int) ([]*model.Purchase, error)
	// UpdateStatusIf is the compare-and-swap gate for every transition: the row
	// is touched only when its current status equals `expected`. Returns false
	// when the guard does not match; callers decide whether that is an error
	// (lost race) or an idempotent no-op.
	UpdateStatusIf(ctx context.Context, tx Tx, id string, expected, next model.PurchaseStatus, patch PurchasePatch) (bool, error)
}
