// Package rediscache provides the Redis-backed cache in front of the public
// tracking query.
package rediscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces tracking entries inside a shared Redis instance.
const keyPrefix = "tracking:"

// RedisTrackingCache implements TrackingCache on a Redis client. Entries are
// plain JSON payloads under a per-code key with a TTL; invalidation deletes
// the key.
type RedisTrackingCache struct {
	client *redis.Client
}

// NewRedisTrackingCache creates a tracking cache on an existing client.
func NewRedisTrackingCache(client *redis.Client) *RedisTrackingCache {
	return &RedisTrackingCache{client: client}
}

// Get returns the cached payload for a code, or ok=false on a miss.
func (c *RedisTrackingCache) Get(ctx context.Context, code string) ([]byte, bool, error) {
	payload, err := c.client.Get(ctx, keyPrefix+code).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("tracking cache get %s: %w", code, err)
	}
	return payload, true, nil
}

// Set stores a payload under a code with the given TTL.
func (c *RedisTrackingCache) Set(ctx context.Context, code string, payload []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, keyPrefix+code, payload, ttl).Err(); err != nil {
		return fmt.Errorf("tracking cache set %s: %w", code, err)
	}
	return nil
}

// Invalidate drops the cached payload for a code. Deleting a missing key is
// not an error.
func (c *RedisTrackingCache) Invalidate(ctx context.Context, code string) error {
	if err := c.client.Del(ctx, keyPrefix+code).Err(); err != nil {
		return fmt.Errorf("tracking cache invalidate %s: %w", code, err)
	}
	return nil
}
