package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/multierr"

	"github.com/tablerio/tablerio-backend/pkg/logger"
	"github.com/tablerio/tablerio-backend/pkg/metrics"
)

// Namespace labels reported to metrics; they mirror the redis key prefixes.
const (
	NamespaceQuote   = "quote"
	NamespaceRules   = "pricing_rules"
	NamespaceTiers   = "discount_tiers"
	NamespaceExtras  = "extras"
	NamespaceCatalog = "catalog"
)

// Store is the slice of the redis client the cache-aside layer relies on:
// the raw operations plus the namespaced key builders.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	DeleteByPrefix(ctx context.Context, prefix string) (int64, error)

	QuoteKey(hash string) string
	QuotePrefix() string
	ActivePricingRulesKey() string
	PricingRulesPrefix() string
	ActiveDiscountTiersKey() string
	DiscountTiersPrefix() string
	ActiveExtrasKey() string
	ExtrasPrefix() string
	CatalogOptionsKey(kind string) string
	CatalogPrefix() string
}

// TTLs carries the two TTL classes of the caching contract. Rule, tier,
// extra, and catalog snapshots share the long class; computed quotes use the
// medium class as the staleness bound when an invalidation is missed.
type TTLs struct {
	Rules  time.Duration
	Quotes time.Duration
}

// Cache is the fail-open cache-aside façade. Every read failure degrades to
// a miss, every write failure is logged and swallowed; callers never see a
// cache error.
type Cache struct {
	store Store
	ttls  TTLs
	logg  *logger.Logger
	stats *metrics.CacheMetrics
}

// New builds the façade. A nil store yields a façade that always misses and
// never writes, which keeps every caller on the computed path.
func New(store Store, ttls TTLs, logg *logger.Logger, stats *metrics.CacheMetrics) *Cache {
	return &Cache{store: store, ttls: ttls, logg: logg, stats: stats}
}

// FetchQuote reads a cached quote by its canonical hash into dest.
func (c *Cache) FetchQuote(ctx context.Context, hash string, dest any) bool {
	if c == nil || c.store == nil {
		return false
	}
	return c.fetch(ctx, NamespaceQuote, c.store.QuoteKey(hash), dest)
}

// PopulateQuote stores a computed quote under its canonical hash.
func (c *Cache) PopulateQuote(ctx context.Context, hash string, value any) {
	if c == nil || c.store == nil {
		return
	}
	c.populate(ctx, NamespaceQuote, c.store.QuoteKey(hash), value, c.ttls.Quotes)
}

// FetchActiveRules reads the active pricing-rule snapshot into dest.
func (c *Cache) FetchActiveRules(ctx context.Context, dest any) bool {
	if c == nil || c.store == nil {
		return false
	}
	return c.fetch(ctx, NamespaceRules, c.store.ActivePricingRulesKey(), dest)
}

// PopulateActiveRules stores the active pricing-rule snapshot.
func (c *Cache) PopulateActiveRules(ctx context.Context, value any) {
	if c == nil || c.store == nil {
		return
	}
	c.populate(ctx, NamespaceRules, c.store.ActivePricingRulesKey(), value, c.ttls.Rules)
}

// FetchActiveTiers reads the active discount-tier snapshot into dest.
func (c *Cache) FetchActiveTiers(ctx context.Context, dest any) bool {
	if c == nil || c.store == nil {
		return false
	}
	return c.fetch(ctx, NamespaceTiers, c.store.ActiveDiscountTiersKey(), dest)
}

// PopulateActiveTiers stores the active discount-tier snapshot.
func (c *Cache) PopulateActiveTiers(ctx context.Context, value any) {
	if c == nil || c.store == nil {
		return
	}
	c.populate(ctx, NamespaceTiers, c.store.ActiveDiscountTiersKey(), value, c.ttls.Rules)
}

// FetchActiveExtras reads the available extra-item snapshot into dest.
func (c *Cache) FetchActiveExtras(ctx context.Context, dest any) bool {
	if c == nil || c.store == nil {
		return false
	}
	return c.fetch(ctx, NamespaceExtras, c.store.ActiveExtrasKey(), dest)
}

// PopulateActiveExtras stores the available extra-item snapshot.
func (c *Cache) PopulateActiveExtras(ctx context.Context, value any) {
	if c == nil || c.store == nil {
		return
	}
	c.populate(ctx, NamespaceExtras, c.store.ActiveExtrasKey(), value, c.ttls.Rules)
}

// FetchCatalogOptions reads one option-kind listing into dest.
func (c *Cache) FetchCatalogOptions(ctx context.Context, kind string, dest any) bool {
	if c == nil || c.store == nil {
		return false
	}
	return c.fetch(ctx, NamespaceCatalog, c.store.CatalogOptionsKey(kind), dest)
}

// PopulateCatalogOptions stores one option-kind listing.
func (c *Cache) PopulateCatalogOptions(ctx context.Context, kind string, value any) {
	if c == nil || c.store == nil {
		return
	}
	c.populate(ctx, NamespaceCatalog, c.store.CatalogOptionsKey(kind), value, c.ttls.Rules)
}

// InvalidatePricingData sweeps every namespace a rule, tier, or extra
// mutation can influence, the whole quote namespace included. Failures are
// aggregated, logged, and swallowed; the quote TTL bounds any staleness a
// failed sweep leaves behind.
func (c *Cache) InvalidatePricingData(ctx context.Context) {
	if c == nil || c.store == nil {
		return
	}

	sweeps := []struct {
		namespace string
		prefix    string
	}{
		{namespace: NamespaceRules, prefix: c.store.PricingRulesPrefix()},
		{namespace: NamespaceTiers, prefix: c.store.DiscountTiersPrefix()},
		{namespace: NamespaceExtras, prefix: c.store.ExtrasPrefix()},
		{namespace: NamespaceCatalog, prefix: c.store.CatalogPrefix()},
		{namespace: NamespaceQuote, prefix: c.store.QuotePrefix()},
	}

	var errs error
	for _, sweep := range sweeps {
		deleted, err := c.store.DeleteByPrefix(ctx, sweep.prefix)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("sweep %s: %w", sweep.namespace, err))
			continue
		}
		c.stats.AddInvalidated(sweep.namespace, deleted)
	}
	if errs != nil {
		c.logError(ctx, "cache invalidation incomplete", errs)
	}
}

func (c *Cache) fetch(ctx context.Context, namespace, key string, dest any) bool {
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.stats.IncLookup(namespace, metrics.CacheOutcomeMiss)
			return false
		}
		c.stats.IncLookup(namespace, metrics.CacheOutcomeError)
		c.logError(ctx, "cache read failed", err)
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		// A corrupt entry counts as a miss, same as an unreachable cache.
		c.stats.IncLookup(namespace, metrics.CacheOutcomeError)
		c.logError(ctx, "cache entry decode failed", err)
		return false
	}
	c.stats.IncLookup(namespace, metrics.CacheOutcomeHit)
	return true
}

func (c *Cache) populate(ctx context.Context, namespace, key string, value any, ttl time.Duration) {
	payload, err := json.Marshal(value)
	if err != nil {
		c.stats.IncWrite(namespace, metrics.CacheOutcomeError)
		c.logError(ctx, "cache entry encode failed", err)
		return
	}
	if err := c.store.Set(ctx, key, string(payload), ttl); err != nil {
		c.stats.IncWrite(namespace, metrics.CacheOutcomeError)
		c.logError(ctx, "cache write failed", err)
		return
	}
	c.stats.IncWrite(namespace, metrics.CacheOutcomeOK)
}

func (c *Cache) logError(ctx context.Context, msg string, err error) {
	if c.logg == nil || err == nil {
		return
	}
	c.logg.Error(ctx, msg, err)
}
