package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tripledger/tripledger/internal/pricing/fx"
)

const cacheVersionKey = "rates:version"

// Cache is a versioned Redis cache for the rate table. Writers bump the
// version instead of deleting keys, so stale entries simply expire.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Version returns the current cache version, initialising when missing.
func (c *Cache) Version(ctx context.Context) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, cacheVersionKey).Int64()
	if err == redis.Nil {
		if err := c.client.Set(ctx, cacheVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// Bump invalidates every cached table by advancing the version.
func (c *Cache) Bump(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, cacheVersionKey).Err()
}

// FetchRates loads the cached rate list or populates it using the loader.
func (c *Cache) FetchRates(ctx context.Context, loader func(context.Context) ([]fx.Rate, error)) ([]fx.Rate, error) {
	if c == nil || c.client == nil {
		return loader(ctx)
	}
	ver, err := c.Version(ctx)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("rates:table:%d", ver)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var cached []fx.Rate
		if err := json.Unmarshal(payload, &cached); err == nil {
			return cached, nil
		}
		// Corrupt entry: fall through and rebuild.
	} else if err != redis.Nil {
		return nil, err
	}

	loaded, err := loader(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(loaded)
	if err != nil {
		return nil, err
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return nil, err
	}
	return loaded, nil
}
