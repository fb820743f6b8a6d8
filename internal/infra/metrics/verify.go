package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		verifyRequests,
		verifyDuration,
	)
}

var (
	// Count of verify calls grouped by result and bounded reason.
	// result: ok|fail
	// reason (fail only): signature_mismatch|not_found|bad_state|bad_json|unknown
	verifyRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_verify_requests_total",
			Help: "Count of payment verification calls by result and reason.",
		},
		[]string{"result", "reason"},
	)

	// Latency of the verify operation grouped by result.
	verifyDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "payment_verify_duration_seconds",
			Help:    "Duration of payment verification in seconds.",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"result"},
	)
)

func IncVerify(result, reason string) {
	verifyRequests.WithLabelValues(norm(result), norm(reason)).Inc()
}

func ObserveVerifyDuration(result string, seconds float64) {
	verifyDuration.WithLabelValues(norm(result)).Observe(seconds)
}
