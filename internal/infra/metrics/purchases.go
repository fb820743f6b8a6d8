package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		purchasesTotal,
		purchaseRevenueTotal,
		reconciliationTotal,
	)
}

var (
	purchasesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "purchases_total",
			Help: "Purchase state changes by resulting status (pending/completed/failed/refunded).",
		},
		[]string{"status"},
	)

	purchaseRevenueTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "purchase_revenue_total",
			Help: "Total monetary value of completed purchases in major currency units, labeled by currency.",
		},
		[]string{"currency"},
	)

	reconciliationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "purchase_reconciliation_total",
			Help: "Purchases flagged for reconciliation, by bounded reason (persist_failed/gateway_unreachable/stale_pending).",
		},
		[]string{"reason"},
	)
)

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func IncPurchase(status string) {
	purchasesTotal.WithLabelValues(norm(status)).Inc()
}

func AddRevenue(currency string, amountMinor int64) {
	purchaseRevenueTotal.WithLabelValues(norm(currency)).Add(float64(amountMinor))
}

func IncReconciliation(reason string) {
	reconciliationTotal.WithLabelValues(norm(reason)).Inc()
}
