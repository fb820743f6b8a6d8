//go:build !integration

package sched

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"lms-platform/internal/domain"
	"lms-platform/internal/domain/model"
	"lms-platform/internal/domain/ports/repository"
)

type stubPurchaseUC struct {
	mu        sync.Mutex
	finalized []string
	err       error
	errCount  int // fail this many calls before succeeding
}

func (s *stubPurchaseUC) FinalizeFromGateway(ctx context.Context, p *model.Purchase, failAfter time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.errCount > 0 {
		s.errCount--
		return false, s.err
	}
	s.finalized = append(s.finalized, p.ID)
	return true, nil
}

type stubPurchaseRepo struct {
	repository.PurchaseRepository
	pending []*model.Purchase
}

func (s *stubPurchaseRepo) ListPendingOlderThan(ctx context.Context, tx repository.Tx, olderThan time.Time, limit int) ([]*model.Purchase, error) {
	return s.pending, nil
}

func testReconciler(uc *stubPurchaseUC, repo *stubPurchaseRepo) *PurchaseReconciler {
	log := zerolog.Nop()
	return &PurchaseReconciler{
		uc:        uc,
		purchases: repo,
		interval:  time.Minute,
		staleAge:  15 * time.Minute,
		failAfter: time.Hour,
		batchSize: 100,
		log:       &log,
	}
}

func pendingPurchase(id, orderID string) *model.Purchase {
	return &model.Purchase{
		ID:        id,
		CourseID:  "course-1",
		UserID:    "user-1",
		Amount:    500,
		Currency:  "USD",
		Status:    model.PurchaseStatusPending,
		PaymentID: orderID,
		CreatedAt: time.Now().UTC().Add(-time.Hour),
	}
}

func TestPurchaseReconciler_Tick(t *testing.T) {
	t.Run("finalizes each stale pending purchase", func(t *testing.T) {
		uc := &stubPurchaseUC{}
		repo := &stubPurchaseRepo{pending: []*model.Purchase{
			pendingPurchase("p1", "order_1"),
			pendingPurchase("p2", "order_2"),
		}}

		testReconciler(uc, repo).tick(context.Background())

		if len(uc.finalized) != 2 {
			t.Fatalf("finalized = %v, want both purchases", uc.finalized)
		}
	})

	t.Run("skips purchases without an order id", func(t *testing.T) {
		uc := &stubPurchaseUC{}
		repo := &stubPurchaseRepo{pending: []*model.Purchase{
			pendingPurchase("p1", ""),
		}}

		testReconciler(uc, repo).tick(context.Background())

		if len(uc.finalized) != 0 {
			t.Fatalf("finalized = %v, want none", uc.finalized)
		}
	})

	t.Run("retries transient gateway errors within a sweep", func(t *testing.T) {
		uc := &stubPurchaseUC{err: domain.ErrGatewayTimeout, errCount: 2}
		repo := &stubPurchaseRepo{pending: []*model.Purchase{
			pendingPurchase("p1", "order_1"),
		}}

		testReconciler(uc, repo).tick(context.Background())

		if len(uc.finalized) != 1 {
			t.Fatalf("finalized = %v, want success after retries", uc.finalized)
		}
	})
}
