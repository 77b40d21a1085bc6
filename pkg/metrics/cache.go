package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Lookup and write outcome labels recorded by the cache-aside layer.
const (
	CacheOutcomeHit   = "hit"
	CacheOutcomeMiss  = "miss"
	CacheOutcomeError = "error"
	CacheOutcomeOK    = "ok"
)

// CacheMetrics records cache-aside traffic per key namespace.
type CacheMetrics struct {
	lookups       *prometheus.CounterVec
	writes        *prometheus.CounterVec
	invalidations *prometheus.CounterVec
	invalidated   *prometheus.CounterVec
}

// NewCacheMetrics registers the cache metrics on the provided registerer.
func NewCacheMetrics(reg prometheus.Registerer) *CacheMetrics {
	if reg == nil {
		return &CacheMetrics{}
	}
	lookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_lookups_total",
		Help: "Cache lookups by namespace and outcome (hit/miss/error).",
	}, []string{"namespace", "outcome"})
	writes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_writes_total",
		Help: "Cache writes by namespace and outcome (ok/error).",
	}, []string{"namespace", "outcome"})
	invalidations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_invalidations_total",
		Help: "Namespace-wide invalidation sweeps.",
	}, []string{"namespace"})
	invalidated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_invalidated_keys_total",
		Help: "Keys removed by invalidation sweeps.",
	}, []string{"namespace"})
	reg.MustRegister(lookups, writes, invalidations, invalidated)
	return &CacheMetrics{
		lookups:       lookups,
		writes:        writes,
		invalidations: invalidations,
		invalidated:   invalidated,
	}
}

// IncLookup counts one cache lookup with its outcome.
func (c *CacheMetrics) IncLookup(namespace, outcome string) {
	if c == nil || c.lookups == nil {
		return
	}
	c.lookups.WithLabelValues(normalizeLabel(namespace), normalizeLabel(outcome)).Inc()
}

// IncWrite counts one cache populate attempt with its outcome.
func (c *CacheMetrics) IncWrite(namespace, outcome string) {
	if c == nil || c.writes == nil {
		return
	}
	c.writes.WithLabelValues(normalizeLabel(namespace), normalizeLabel(outcome)).Inc()
}

// AddInvalidated counts one sweep and the keys it removed.
func (c *CacheMetrics) AddInvalidated(namespace string, keys int64) {
	if c == nil || c.invalidations == nil {
		return
	}
	label := normalizeLabel(namespace)
	c.invalidations.WithLabelValues(label).Inc()
	if keys > 0 {
		c.invalidated.WithLabelValues(label).Add(float64(keys))
	}
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
