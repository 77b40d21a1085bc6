package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestQuoteMetricsExportsHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewQuoteMetrics(reg)

	m.Observe(QuoteOutcomeOK, 40*time.Millisecond)
	m.Observe(QuoteOutcomeNoRule, 5*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchHistogramSum(mfs, "quote_compute_duration_seconds", map[string]string{"outcome": "ok"}); err != nil {
		t.Fatalf("fetch ok duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "quote_compute_duration_seconds", map[string]string{"outcome": "no_rule_matched"}); err != nil {
		t.Fatalf("fetch no-rule duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestQuoteMetricsNilSafe(t *testing.T) {
	var m *QuoteMetrics
	m.Observe(QuoteOutcomeOK, time.Millisecond)

	empty := NewQuoteMetrics(nil)
	empty.Observe(QuoteOutcomeError, time.Millisecond)
}
