package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tablerio/tablerio-backend/pkg/config"
	"github.com/tablerio/tablerio-backend/pkg/logger"
)

const (
	keyNamespace   = "tbl"
	quotePrefix    = "quote"
	rulesPrefix    = "pricing_rules"
	tiersPrefix    = "discount_tiers"
	extrasPrefix   = "extras"
	catalogPrefix  = "catalog"
	activeSnapshot = "active"

	scanBatchSize = 200
)

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	Del(context.Context, ...string) *redis.IntCmd
	Scan(context.Context, uint64, string, int64) *redis.ScanCmd
}

// Client wraps the redis connection helpers needed by the platform.
type Client struct {
	store cmdable
	raw   *redis.Client
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(context.Context) error
}

// New bootstraps a Redis client with pooling/timeouts and verifies connectivity.
func New(ctx context.Context, cfg config.RedisConfig, logg *logger.Logger) (*Client, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	if logg != nil {
		logg.Info(ctx, "redis connection established")
	}
	return &Client{store: raw, raw: raw}, nil
}

func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL == "" && cfg.Address == "" {
		return nil, errors.New("redis url or address is required")
	}
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	if opts.DB == 0 {
		opts.DB = cfg.DB
	}
	if opts.PoolSize == 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if opts.MinIdleConns == 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	return opts, nil
}

// Set stores a string value with an optional TTL.
func (c *Client) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if c.store == nil {
		return errors.New("redis client not initialized")
	}
	return c.store.Set(ctx, key, value, ttl).Err()
}

// Get returns the string value stored at key. A missing key surfaces as
// redis.Nil, which callers must treat as a miss rather than a failure.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	if c.store == nil {
		return "", errors.New("redis client not initialized")
	}
	return c.store.Get(ctx, key).Result()
}

// Del removes the provided keys.
func (c *Client) Del(ctx context.Context, keys ...string) error {
	if c.store == nil {
		return errors.New("redis client not initialized")
	}
	return c.store.Del(ctx, keys...).Err()
}

// DeleteByPrefix removes every key under the given prefix and reports how
// many were deleted. The keyspace is walked with SCAN in batches so a large
// namespace never blocks the server the way KEYS would.
func (c *Client) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	if c.store == nil {
		return 0, errors.New("redis client not initialized")
	}

	var deleted int64
	var cursor uint64
	pattern := prefix + "*"
	for {
		keys, next, err := c.store.Scan(ctx, cursor, pattern, scanBatchSize).Result()
		if err != nil {
			return deleted, err
		}
		if len(keys) > 0 {
			removed, err := c.store.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, err
			}
			deleted += removed
		}
		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}

// Ping verifies the connection.
func (c *Client) Ping(ctx context.Context) error {
	if c.store == nil {
		return errors.New("redis client not initialized")
	}
	return c.store.Ping(ctx).Err()
}

// Close shuts down the underlying client if available.
func (c *Client) Close() error {
	if c.raw == nil {
		return nil
	}
	return c.raw.Close()
}

// QuoteKey returns the namespaced key for one computed quote hash.
func (c *Client) QuoteKey(hash string) string {
	return c.buildKey(quotePrefix, hash)
}

// QuotePrefix returns the namespace holding every cached quote result.
func (c *Client) QuotePrefix() string {
	return c.buildKey(quotePrefix)
}

// ActivePricingRulesKey returns the key for the active pricing-rule snapshot.
func (c *Client) ActivePricingRulesKey() string {
	return c.buildKey(rulesPrefix, activeSnapshot)
}

// PricingRulesPrefix returns the pricing-rule cache namespace.
func (c *Client) PricingRulesPrefix() string {
	return c.buildKey(rulesPrefix)
}

// ActiveDiscountTiersKey returns the key for the active discount-tier snapshot.
func (c *Client) ActiveDiscountTiersKey() string {
	return c.buildKey(tiersPrefix, activeSnapshot)
}

// DiscountTiersPrefix returns the discount-tier cache namespace.
func (c *Client) DiscountTiersPrefix() string {
	return c.buildKey(tiersPrefix)
}

// ActiveExtrasKey returns the key for the available extra-item snapshot.
func (c *Client) ActiveExtrasKey() string {
	return c.buildKey(extrasPrefix, activeSnapshot)
}

// ExtrasPrefix returns the extra-item cache namespace.
func (c *Client) ExtrasPrefix() string {
	return c.buildKey(extrasPrefix)
}

// CatalogOptionsKey returns the key for one option-kind listing.
func (c *Client) CatalogOptionsKey(kind string) string {
	return c.buildKey(catalogPrefix, "options", kind)
}

// CatalogPrefix returns the configuration-catalog cache namespace.
func (c *Client) CatalogPrefix() string {
	return c.buildKey(catalogPrefix)
}

func (c *Client) buildKey(parts ...string) string {
	if len(parts) == 0 {
		return keyNamespace
	}
	clean := []string{keyNamespace}
	for _, part := range parts {
		if part == "" {
			continue
		}
		clean = append(clean, strings.TrimSpace(part))
	}
	return strings.Join(clean, ":")
}
