package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"lms-platform/internal/domain"
	"lms-platform/internal/domain/model"
	"lms-platform/internal/domain/ports/adapter"
	"lms-platform/internal/domain/ports/repository"
	"lms-platform/internal/infra/logging"
	"lms-platform/internal/infra/metrics"

	"github.com/jackc/pgx/v4"
)

// Compile-time check
var _ PurchaseUseCase = (*purchaseUC)(nil)

// Locker serializes operations on a single purchase across request handlers.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, err error)
	Unlock(ctx context.Context, key, token string) error
}

type PurchaseUseCase interface {
	// InitiateOrder books a gateway order for the course's current price and
	// persists a pending purchase whose PaymentID is the order id.
	InitiateOrder(ctx context.Context, userID, courseID string) (adapter.OrderHandle, *model.Purchase, error)
	// VerifyAndCompletePayment is the trust boundary: the HMAC signature gate
	// precedes every state mutation. Repeating a valid call is a no-op success.
	VerifyAndCompletePayment(ctx context.Context, orderID, paymentID, signature string) (*model.Purchase, error)
	// Refund transitions a completed purchase to its terminal refunded state.
	// amount defaults to the full original amount and is capped at it.
	Refund(ctx context.Context, purchaseID, reason string, amount *int64) (*model.Purchase, error)
	// FinalizeFromGateway resolves a stale pending purchase from the
	// processor-side order state. Used by the reconciler.
	FinalizeFromGateway(ctx context.Context, p *model.Purchase, failAfter time.Duration) (resolved bool, err error)
	ListByUser(ctx context.Context, userID string) ([]*model.Purchase, error)
}

const (
	lockTTL = 10 * time.Second

	// minorUnitFactor converts catalog prices (major units) to the gateway's
	// smallest-denomination amounts (paise/cents).
	minorUnitFactor = 100
)

type purchaseUC struct {
	purchases repository.PurchaseRepository
	courses   repository.CourseRepository
	users     repository.UserRepository
	progress  repository.ProgressRepository
	gateway   adapter.PaymentGateway
	verifier  adapter.SignatureVerifier
	locker    Locker
	tm        repository.TransactionManager
	currency  string // gateway order currency; processor compatibility fixed point
	log       *zerolog.Logger
}

func NewPurchaseUseCase(
	purchases repository.PurchaseRepository,
	courses repository.CourseRepository,
	users repository.UserRepository,
	progress repository.ProgressRepository,
	gateway adapter.PaymentGateway,
	verifier adapter.SignatureVerifier,
	locker Locker,
	tm repository.TransactionManager,
	orderCurrency string,
	logger *zerolog.Logger,
) *purchaseUC {
	if orderCurrency == "" {
		orderCurrency = "INR"
	}
	return &purchaseUC{
		purchases: purchases,
		courses:   courses,
		users:     users,
		progress:  progress,
		gateway:   gateway,
		verifier:  verifier,
		locker:    locker,
		tm:        tm,
		currency:  orderCurrency,
		log:       logger,
	}
}

func (u *purchaseUC) InitiateOrder(ctx context.Context, userID, courseID string) (adapter.OrderHandle, *model.Purchase, error) {
	if userID == "" || courseID == "" {
		return adapter.OrderHandle{}, nil, domain.ErrValidation
	}

	course, err := u.courses.FindByID(ctx, repository.NoTX, courseID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return adapter.OrderHandle{}, nil, domain.ErrCourseNotFound
		}
		return adapter.OrderHandle{}, nil, err
	}

	handle, err := u.gateway.CreateOrder(ctx, course.Price*minorUnitFactor, u.currency, "course-"+courseID, map[string]string{
		"courseId": courseID,
		"userId":   userID,
	})
	if err != nil {
		return adapter.OrderHandle{}, nil, err
	}

	p, err := model.NewPurchase(ulid.Make().String(), courseID, userID, course.Price, "")
	if err != nil {
		return adapter.OrderHandle{}, nil, err
	}
	p.PaymentMethod = u.gateway.Name()
	p.PaymentID = handle.ID
	p.Metadata = map[string]string{"receipt": handle.Receipt}

	// Order and purchase writes are not transactional: the gateway order
	// already exists, so a failed persist must reach an operator channel
	// instead of silently orphaning it.
	if err := u.purchases.Save(ctx, repository.NoTX, p); err != nil {
		metrics.IncReconciliation("persist_failed")
		logging.With(ctx, u.log).Error().
			Str("order_id", handle.ID).
			Str("course_id", courseID).
			Str("user_id", userID).
			Err(err).
			Msg("gateway order created but purchase persist failed")
		return handle, nil, fmt.Errorf("persist purchase for order %s: %w: %v", handle.ID, domain.ErrReconciliationRequired, err)
	}

	metrics.IncPurchase(string(model.PurchaseStatusPending))
	return handle, p, nil
}

func (u *purchaseUC) VerifyAndCompletePayment(ctx context.Context, orderID, paymentID, signature string) (*model.Purchase, error) {
	defer logging.TraceDuration(u.log, "PurchaseUC.VerifyAndCompletePayment")()

	if orderID == "" || paymentID == "" || signature == "" {
		return nil, domain.ErrValidation
	}

	// The single authoritative gate. Nothing is read or written before it.
	if !u.verifier.Verify(orderID, paymentID, signature) {
		metrics.IncVerify("fail", "signature_mismatch")
		return nil, domain.ErrSignatureMismatch
	}

	token, err := u.locker.TryLock(ctx, "purchase:order:"+orderID, lockTTL)
	if err != nil {
		return nil, domain.ErrLockNotAcquired
	}
	defer func() { _ = u.locker.Unlock(ctx, "purchase:order:"+orderID, token) }()

	var out *model.Purchase
	err = u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		p, err := u.purchases.FindByPaymentID(ctx, tx, orderID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrPurchaseNotFound
			}
			return err
		}
		out, err = u.complete(ctx, tx, p)
		return err
	})
	if err != nil {
		if !errors.Is(err, domain.ErrPurchaseNotFound) {
			metrics.IncVerify("fail", "complete_error")
		} else {
			metrics.IncVerify("fail", "purchase_not_found")
		}
		return nil, err
	}

	metrics.IncVerify("ok", "")
	return out, nil
}

// complete performs the pending->completed transition plus enrollment. Calling
// it on an already-completed purchase succeeds without touching anything.
func (u *purchaseUC) complete(ctx context.Context, tx repository.Tx, p *model.Purchase) (*model.Purchase, error) {
	switch p.Status {
	case model.PurchaseStatusCompleted:
		return p, nil // idempotent replay of a verified callback
	case model.PurchaseStatusPending:
	default:
		return nil, domain.ErrInvalidStateTransition
	}

	ok, err := u.purchases.UpdateStatusIf(ctx, tx, p.ID, model.PurchaseStatusPending, model.PurchaseStatusCompleted, repository.PurchasePatch{})
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost the race; accept if the winner completed it.
		cur, err := u.purchases.FindByID(ctx, tx, p.ID)
		if err != nil {
			return nil, err
		}
		if cur.Status == model.PurchaseStatusCompleted {
			return cur, nil
		}
		return nil, domain.ErrInvalidStateTransition
	}

	if err := u.enroll(ctx, tx, p.UserID, p.CourseID); err != nil {
		return nil, err
	}

	p.Status = model.PurchaseStatusCompleted
	p.UpdatedAt = time.Now().UTC()
	metrics.IncPurchase(string(model.PurchaseStatusCompleted))
	metrics.AddRevenue(p.Currency, p.Amount)
	logging.With(ctx, u.log).Info().Str("purchase_id", p.ID).Str("order_id", p.PaymentID).Msg("purchase completed")
	return p, nil
}

// enroll links a completed purchase to course access: user roster, course
// roster, and an empty progress document.
func (u *purchaseUC) enroll(ctx context.Context, tx repository.Tx, userID, courseID string) error {
	if err := u.users.AddEnrolledCourse(ctx, tx, userID, courseID); err != nil {
		return fmt.Errorf("enroll user: %w", err)
	}
	if err := u.courses.AddEnrolledStudent(ctx, tx, courseID, userID); err != nil {
		return fmt.Errorf("enroll course roster: %w", err)
	}
	if _, err := u.progress.FindByUserAndCourse(ctx, tx, userID, courseID); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	cp, err := model.NewCourseProgress(uuid.NewString(), userID, courseID)
	if err != nil {
		return err
	}
	return u.progress.Save(ctx, tx, cp)
}

func (u *purchaseUC) Refund(ctx context.Context, purchaseID, reason string, amount *int64) (*model.Purchase, error) {
	defer logging.TraceDuration(u.log, "PurchaseUC.Refund")()

	if purchaseID == "" || reason == "" {
		return nil, domain.ErrValidation
	}

	token, err := u.locker.TryLock(ctx, "purchase:"+purchaseID, lockTTL)
	if err != nil {
		return nil, domain.ErrLockNotAcquired
	}
	defer func() { _ = u.locker.Unlock(ctx, "purchase:"+purchaseID, token) }()

	var out *model.Purchase
	err = u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		p, err := u.purchases.FindByID(ctx, tx, purchaseID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrPurchaseNotFound
			}
			return err
		}

		now := time.Now().UTC()
		if p.Status != model.PurchaseStatusCompleted {
			return domain.ErrInvalidStateTransition
		}
		if !p.IsRefundable(now) {
			return domain.ErrRefundWindowExpired
		}

		refundAmount := p.Amount
		if amount != nil && *amount > 0 && *amount <= p.Amount {
			refundAmount = *amount
		}
		refundID := "rfnd_" + uuid.NewString()

		ok, err := u.purchases.UpdateStatusIf(ctx, tx, p.ID, model.PurchaseStatusCompleted, model.PurchaseStatusRefunded, repository.PurchasePatch{
			RefundID:     &refundID,
			RefundAmount: &refundAmount,
			RefundReason: &reason,
		})
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrInvalidStateTransition
		}

		p.Status = model.PurchaseStatusRefunded
		p.RefundID = refundID
		p.RefundAmount = refundAmount
		p.RefundReason = reason
		p.UpdatedAt = now
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.IncPurchase(string(model.PurchaseStatusRefunded))
	logging.With(ctx, u.log).Info().Str("purchase_id", out.ID).Int64("refund_amount", out.RefundAmount).Msg("purchase refunded")
	return out, nil
}

func (u *purchaseUC) FinalizeFromGateway(ctx context.Context, p *model.Purchase, failAfter time.Duration) (bool, error) {
	if p == nil || p.PaymentID == "" {
		return false, domain.ErrValidation
	}

	handle, err := u.gateway.FetchOrder(ctx, p.PaymentID)
	if err != nil {
		return false, err
	}

	token, err := u.locker.TryLock(ctx, "purchase:order:"+p.PaymentID, lockTTL)
	if err != nil {
		return false, domain.ErrLockNotAcquired
	}
	defer func() { _ = u.locker.Unlock(ctx, "purchase:order:"+p.PaymentID, token) }()

	switch {
	case handle.Status == adapter.OrderStatusPaid:
		err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
			_, err := u.complete(ctx, tx, p)
			return err
		})
		return err == nil, err

	case time.Since(p.CreatedAt) > failAfter:
		ok, err := u.purchases.UpdateStatusIf(ctx, repository.NoTX, p.ID, model.PurchaseStatusPending, model.PurchaseStatusFailed, repository.PurchasePatch{})
		if err != nil {
			return false, err
		}
		if ok {
			metrics.IncPurchase(string(model.PurchaseStatusFailed))
			u.log.Warn().Str("purchase_id", p.ID).Str("order_id", p.PaymentID).Msg("stale unpaid order marked failed")
		}
		return ok, nil
	}

	return false, nil
}

func (u *purchaseUC) ListByUser(ctx context.Context, userID string) ([]*model.Purchase, error) {
	if userID == "" {
		return nil, domain.ErrValidation
	}
	return u.purchases.ListByUser(ctx, repository.NoTX, userID)
}
