package cache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/tablerio/tablerio-backend/pkg/metrics"
)

type fakeStore struct {
	data map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string)}
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	value, ok := f.data[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (f *fakeStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.data[key] = value.(string)
	return nil
}

func (f *fakeStore) DeleteByPrefix(_ context.Context, prefix string) (int64, error) {
	var deleted int64
	for key := range f.data {
		if strings.HasPrefix(key, prefix) {
			delete(f.data, key)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeStore) QuoteKey(hash string) string          { return "tbl:quote:" + hash }
func (f *fakeStore) QuotePrefix() string                  { return "tbl:quote" }
func (f *fakeStore) ActivePricingRulesKey() string        { return "tbl:pricing_rules:active" }
func (f *fakeStore) PricingRulesPrefix() string           { return "tbl:pricing_rules" }
func (f *fakeStore) ActiveDiscountTiersKey() string       { return "tbl:discount_tiers:active" }
func (f *fakeStore) DiscountTiersPrefix() string          { return "tbl:discount_tiers" }
func (f *fakeStore) ActiveExtrasKey() string              { return "tbl:extras:active" }
func (f *fakeStore) ExtrasPrefix() string                 { return "tbl:extras" }
func (f *fakeStore) CatalogOptionsKey(kind string) string { return "tbl:catalog:options:" + kind }
func (f *fakeStore) CatalogPrefix() string                { return "tbl:catalog" }

// brokenStore fails every operation, standing in for an unreachable cache.
type brokenStore struct {
	fakeStore
}

func (b *brokenStore) Get(context.Context, string) (string, error) {
	return "", errors.New("connection refused")
}

func (b *brokenStore) Set(context.Context, string, any, time.Duration) error {
	return errors.New("connection refused")
}

func (b *brokenStore) DeleteByPrefix(context.Context, string) (int64, error) {
	return 0, errors.New("connection refused")
}

func newTestCache(store Store) *Cache {
	stats := metrics.NewCacheMetrics(prometheus.NewRegistry())
	return New(store, TTLs{Rules: time.Hour, Quotes: time.Minute}, nil, stats)
}

type payload struct {
	Total string `json:"total"`
}

func TestQuoteRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := newTestCache(newFakeStore())

	var out payload
	if c.FetchQuote(ctx, "abc", &out) {
		t.Fatal("expected miss on empty cache")
	}

	c.PopulateQuote(ctx, "abc", payload{Total: "250.00"})

	if !c.FetchQuote(ctx, "abc", &out) {
		t.Fatal("expected hit after populate")
	}
	if out.Total != "250.00" {
		t.Fatalf("unexpected cached value %+v", out)
	}
}

func TestBrokenCacheFailsOpen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := newTestCache(&brokenStore{})

	var out payload
	if c.FetchQuote(ctx, "abc", &out) {
		t.Fatal("broken cache must read as a miss")
	}

	// Populate and invalidate must swallow the failure entirely.
	c.PopulateQuote(ctx, "abc", payload{Total: "250.00"})
	c.InvalidatePricingData(ctx)
}

func TestNilStoreAlwaysMisses(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := newTestCache(nil)

	var out payload
	if c.FetchQuote(ctx, "abc", &out) {
		t.Fatal("nil store must miss")
	}
	c.PopulateQuote(ctx, "abc", payload{Total: "1.00"})
	c.InvalidatePricingData(ctx)
}

func TestCorruptEntryReadsAsMiss(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newFakeStore()
	store.data[store.QuoteKey("abc")] = "{not json"
	c := newTestCache(store)

	var out payload
	if c.FetchQuote(ctx, "abc", &out) {
		t.Fatal("corrupt entry must read as a miss")
	}
}

func TestInvalidateSweepsEveryNamespace(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newFakeStore()
	c := newTestCache(store)

	c.PopulateQuote(ctx, "abc", payload{Total: "250.00"})
	c.PopulateActiveRules(ctx, []string{"rule"})
	c.PopulateActiveTiers(ctx, []string{"tier"})
	c.PopulateActiveExtras(ctx, []string{"extra"})
	c.PopulateCatalogOptions(ctx, "thickness", []string{"option"})

	c.InvalidatePricingData(ctx)

	if len(store.data) != 0 {
		t.Fatalf("expected all namespaces swept, still holding %v", store.data)
	}
}

func TestRuleSnapshotRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := newTestCache(newFakeStore())

	c.PopulateActiveRules(ctx, []payload{{Total: "1"}})

	var rules []payload
	if !c.FetchActiveRules(ctx, &rules) {
		t.Fatal("expected rule snapshot hit")
	}
	if len(rules) != 1 || rules[0].Total != "1" {
		t.Fatalf("unexpected snapshot %+v", rules)
	}
}
