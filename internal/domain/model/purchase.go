package model

import (
	"strings"
	"time"

	"lms-platform/internal/domain"
)

type PurchaseStatus string

const (
	PurchaseStatusPending   PurchaseStatus = "pending"   // order created at gateway; awaiting verified callback
	PurchaseStatusCompleted PurchaseStatus = "completed" // signature-verified payment
	PurchaseStatusFailed    PurchaseStatus = "failed"    // gateway reported failure or order expired
	PurchaseStatusRefunded  PurchaseStatus = "refunded"  // terminal
)

// validNext encodes the only legal transitions:
// pending -> completed|failed, completed -> refunded.
var validNext = map[PurchaseStatus]map[PurchaseStatus]bool{
	PurchaseStatusPending:   {PurchaseStatusCompleted: true, PurchaseStatusFailed: true},
	PurchaseStatusCompleted: {PurchaseStatusRefunded: true},
	PurchaseStatusFailed:    {},
	PurchaseStatusRefunded:  {},
}

func CanTransition(from, to PurchaseStatus) bool {
	return validNext[from][to]
}

// RefundWindow is how long after creation a completed purchase stays refundable.
const RefundWindow = 30 * 24 * time.Hour

// Purchase records one attempt to buy a course. Amount mirrors the course
// price at creation time and is never re-read from the course afterwards.
type Purchase struct {
	ID            string
	CourseID      string
	UserID        string
	Amount        int64 // major currency units
	Currency      string
	Status        PurchaseStatus
	PaymentMethod string
	PaymentID     string // gateway order identifier
	RefundID      string
	RefundAmount  int64
	RefundReason  string
	Metadata      map[string]string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewPurchase(id, courseID, userID string, amount int64, currency string) (*Purchase, error) {
	if id == "" || courseID == "" || userID == "" {
		return nil, domain.ErrValidation
	}
	if amount < 0 {
		return nil, domain.ErrValidation
	}
	if currency == "" {
		currency = "USD"
	}
	now := time.Now().UTC()
	return &Purchase{
		ID:        id,
		CourseID:  courseID,
		UserID:    userID,
		Amount:    amount,
		Currency:  strings.ToUpper(currency),
		Status:    PurchaseStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsRefundable reports whether the purchase is completed and still inside the
// refund window measured from its creation time.
func (p *Purchase) IsRefundable(now time.Time) bool {
	if p.Status != PurchaseStatusCompleted {
		return false
	}
	return now.Sub(p.CreatedAt) <= RefundWindow
}
