package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Quote computation outcome labels.
const (
	QuoteOutcomeOK            = "ok"
	QuoteOutcomeNoRule        = "no_rule_matched"
	QuoteOutcomeInvalidConfig = "invalid_configuration"
	QuoteOutcomeError         = "error"
)

// QuoteMetrics records quote computation latency per outcome.
type QuoteMetrics struct {
	duration *prometheus.HistogramVec
}

// NewQuoteMetrics registers the quote metrics on the provided registerer.
func NewQuoteMetrics(reg prometheus.Registerer) *QuoteMetrics {
	if reg == nil {
		return &QuoteMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "quote_compute_duration_seconds",
		Help:    "Duration of quote computations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	reg.MustRegister(duration)
	return &QuoteMetrics{duration: duration}
}

// Observe records one computation with its outcome.
func (q *QuoteMetrics) Observe(outcome string, duration time.Duration) {
	if q == nil || q.duration == nil {
		return
	}
	q.duration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}
