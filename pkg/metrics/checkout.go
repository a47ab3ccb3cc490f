package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records checkout submissions, poll ticks, and finalize latency.
type CheckoutMetrics struct {
	submissions      *prometheus.CounterVec
	pollTicks        *prometheus.CounterVec
	finalizeDuration *prometheus.HistogramVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_submissions_total",
		Help: "Checkout submissions by path and outcome.",
	}, []string{"path", "outcome"})
	pollTicks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_poll_ticks_total",
		Help: "Payment callback poll ticks by outcome.",
	}, []string{"outcome"})
	finalizeDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "order_finalize_duration_seconds",
		Help:    "Duration of order finalization in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	reg.MustRegister(submissions, pollTicks, finalizeDuration)
	return &CheckoutMetrics{
		submissions:      submissions,
		pollTicks:        pollTicks,
		finalizeDuration: finalizeDuration,
	}
}

// IncSubmission counts a checkout submission on the given path (direct/gateway).
func (c *CheckoutMetrics) IncSubmission(path, outcome string) {
	if c == nil || c.submissions == nil {
		return
	}
	c.submissions.WithLabelValues(normalizeLabel(path), normalizeLabel(outcome)).Inc()
}

// IncPollTick counts one poll tick with its outcome (pending/success/cancelled/error).
func (c *CheckoutMetrics) IncPollTick(outcome string) {
	if c == nil || c.pollTicks == nil {
		return
	}
	c.pollTicks.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveFinalize records the finalize duration for the given outcome.
func (c *CheckoutMetrics) ObserveFinalize(outcome string, duration time.Duration) {
	if c == nil || c.finalizeDuration == nil {
		return
	}
	c.finalizeDuration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
