package sched

import (
	"context"
	"errors"
	"time"

	"github.com/avast/retry-go"
	"github.com/rs/zerolog"

	"lms-platform/internal/config"
	"lms-platform/internal/domain"
	"lms-platform/internal/domain/model"
	"lms-platform/internal/domain/ports/repository"
	"lms-platform/internal/infra/metrics"
)

// PurchaseFinalizer is the slice of the purchase workflow the reconciler
// needs; usecase.PurchaseUseCase satisfies it.
type PurchaseFinalizer interface {
	FinalizeFromGateway(ctx context.Context, p *model.Purchase, failAfter time.Duration) (resolved bool, err error)
}

// PurchaseReconciler periodically scans for stale pending purchases and
// finalizes them from the processor-side order state. This covers callbacks
// that never arrived and processes that crashed mid-completion.
type PurchaseReconciler struct {
	uc        PurchaseFinalizer
	purchases repository.PurchaseRepository
	interval  time.Duration
	staleAge  time.Duration
	failAfter time.Duration
	batchSize int
	log       *zerolog.Logger
}

func NewPurchaseReconciler(uc PurchaseFinalizer, purchases repository.PurchaseRepository, cfg config.ReconcilerConfig, log *zerolog.Logger) *PurchaseReconciler {
	return &PurchaseReconciler{
		uc:        uc,
		purchases: purchases,
		interval:  cfg.Interval,
		staleAge:  cfg.StaleAge,
		failAfter: cfg.FailAfter,
		batchSize: cfg.BatchSize,
		log:       log,
	}
}

func (w *PurchaseReconciler) Start(ctx context.Context) {
	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			w.tick(ctx)
		}
	}
}

func (w *PurchaseReconciler) tick(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-w.staleAge)
	pending, err := w.purchases.ListPendingOlderThan(ctx, repository.NoTX, cutoff, w.batchSize)
	if err != nil {
		w.log.Error().Err(err).Msg("reconciler: list pending failed")
		return
	}
	if len(pending) == 0 {
		return
	}
	w.log.Debug().Int("count", len(pending)).Msg("reconciler: sweeping stale pending purchases")

	for _, p := range pending {
		if p.PaymentID == "" {
			continue
		}
		metrics.IncReconciliation("stale_pending")

		var resolved bool
		err := retry.Do(
			func() error {
				var err error
				resolved, err = w.uc.FinalizeFromGateway(ctx, p, w.failAfter)
				return err
			},
			retry.Attempts(3),
			retry.Delay(500*time.Millisecond),
			retry.Context(ctx),
			retry.RetryIf(func(err error) bool {
				// Only transport trouble is worth retrying inside one sweep;
				// state conflicts resolve themselves on the next pass.
				return errors.Is(err, domain.ErrGatewayTimeout) || errors.Is(err, domain.ErrGatewayUnavailable)
			}),
		)
		if err != nil {
			metrics.IncReconciliation("gateway_unreachable")
			w.log.Warn().Err(err).
				Str("purchase_id", p.ID).
				Str("order_id", p.PaymentID).
				Msg("reconciler: finalize failed")
			continue
		}
		if resolved {
			w.log.Info().Str("purchase_id", p.ID).Msg("reconciler: purchase resolved")
		}
	}
}
