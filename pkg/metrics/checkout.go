package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Checkout outcome labels.
const (
	OutcomePlaced             = "placed"
	OutcomeInvalid            = "invalid"
	OutcomeWriteFailed        = "write_failed"
	OutcomeVerificationFailed = "verification_failed"
)

// CheckoutMetrics tracks order placement outcomes.
type CheckoutMetrics struct {
	orders             *prometheus.CounterVec
	verificationFailed prometheus.Counter
	dispatchFailed     *prometheus.CounterVec
	duration           *prometheus.HistogramVec
}

// NewCheckoutMetrics registers the checkout collectors on the provided registerer.
// A nil registerer yields a no-op collector.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	orders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_orders_total",
		Help: "Order placement attempts by mode and outcome.",
	}, []string{"mode", "outcome"})
	verificationFailed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_verification_failures_total",
		Help: "Orders whose read-back did not find both records.",
	})
	dispatchFailed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_dispatch_failures_total",
		Help: "Best-effort notification or vendor message failures.",
	}, []string{"channel"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of order placement in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"mode"})
	reg.MustRegister(orders, verificationFailed, dispatchFailed, duration)
	return &CheckoutMetrics{
		orders:             orders,
		verificationFailed: verificationFailed,
		dispatchFailed:     dispatchFailed,
		duration:           duration,
	}
}

// ObserveOrder records one placement attempt.
func (c *CheckoutMetrics) ObserveOrder(mode, outcome string, duration time.Duration) {
	if c == nil || c.orders == nil {
		return
	}
	mode = normalizeLabel(mode)
	c.orders.WithLabelValues(mode, outcome).Inc()
	c.duration.WithLabelValues(mode).Observe(duration.Seconds())
	if outcome == OutcomeVerificationFailed {
		c.verificationFailed.Inc()
	}
}

// IncDispatchFailure counts a swallowed fan-out failure.
func (c *CheckoutMetrics) IncDispatchFailure(channel string) {
	if c == nil || c.dispatchFailed == nil {
		return
	}
	c.dispatchFailed.WithLabelValues(normalizeLabel(channel)).Inc()
}
