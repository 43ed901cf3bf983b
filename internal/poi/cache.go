package poi

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jengzang/guardian-backend-go/internal/spatial"
	"go.uber.org/zap"
)

// CachedLookup caches successful counts in Redis keyed by S2 cell and radius.
// Failed lookups are never cached.
type CachedLookup struct {
	next   Lookup
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedLookup wraps next with a Redis cache
func NewCachedLookup(next Lookup, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedLookup {
	return &CachedLookup{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// CacheKey returns the cache key for a lookup; the cell is about a tenth of the radius
func CacheKey(lat, lon, radiusM float64) string {
	return fmt.Sprintf("poi:%s:%d", spatial.CellToken(lat, lon, radiusM/10), int(radiusM))
}

// Count implements Lookup
func (c *CachedLookup) Count(ctx context.Context, lat, lon, radiusM float64) (int, error) {
	key := CacheKey(lat, lon, radiusM)

	val, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		if n, convErr := strconv.Atoi(val); convErr == nil {
			return n, nil
		}
	case err != redis.Nil:
		c.logger.Warn("POI cache read failed", zap.String("key", key), zap.Error(err))
	}

	n, err := c.next.Count(ctx, lat, lon, radiusM)
	if err != nil {
		return 0, err
	}

	if err := c.client.Set(ctx, key, n, c.ttl).Err(); err != nil {
		c.logger.Warn("POI cache write failed", zap.String("key", key), zap.Error(err))
	}
	return n, nil
}
