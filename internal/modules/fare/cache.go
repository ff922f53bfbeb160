// README: Redis read-through cache over the fare schedule store.
package fare

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "fare_setting:"

// Cache wraps a Source with a short-lived redis cache. Schedules change only
// through an external admin process, so a small TTL keeps reads cheap without
// holding stale surge values for long. Misses and redis failures fall through
// to the wrapped source; ErrConfigNotFound is deliberately not cached.
type Cache struct {
	next Source
	rdb  *redis.Client
	ttl  time.Duration
}

func NewCache(next Source, rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{next: next, rdb: rdb, ttl: ttl}
}

func (c *Cache) ActiveSetting(ctx context.Context, vehicleType string) (*Setting, error) {
	key := cacheKeyPrefix + vehicleType
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var st Setting
		if json.Unmarshal(b, &st) == nil {
			return &st, nil
		}
	}

	st, err := c.next.ActiveSetting(ctx, vehicleType)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(st); err == nil {
		c.rdb.Set(ctx, key, b, c.ttl)
	}
	return st, nil
}
