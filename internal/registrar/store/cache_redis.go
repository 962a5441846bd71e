package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Redis key prefix for cached display names.
	displayNameKeyPrefix = "namereg:display:"

	// DisplayCacheTTL bounds staleness if an invalidation is ever lost.
	DisplayCacheTTL = 5 * time.Minute
)

// RedisDisplayCache caches display-name lookups. Entries are invalidated on
// every mutation that can change an account's display name and carry a TTL
// as a backstop.
type RedisDisplayCache struct {
	client *redis.Client
}

// NewRedisDisplayCache wraps a connected client.
func NewRedisDisplayCache(client *redis.Client) *RedisDisplayCache {
	return &RedisDisplayCache{client: client}
}

// GetDisplayName returns the cached display name, or "" on a miss.
func (c *RedisDisplayCache) GetDisplayName(ctx context.Context, account string) (string, error) {
	val, err := c.client.Get(ctx, displayNameKeyPrefix+account).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("get display name: %w", err)
	}
	return val, nil
}

// SetDisplayName caches a computed display name.
func (c *RedisDisplayCache) SetDisplayName(ctx context.Context, account, displayName string) error {
	if err := c.client.Set(ctx, displayNameKeyPrefix+account, displayName, DisplayCacheTTL).Err(); err != nil {
		return fmt.Errorf("set display name: %w", err)
	}
	return nil
}

// Invalidate drops the account's cached entry.
func (c *RedisDisplayCache) Invalidate(ctx context.Context, account string) error {
	if err := c.client.Del(ctx, displayNameKeyPrefix+account).Err(); err != nil {
		return fmt.Errorf("invalidate display name: %w", err)
	}
	return nil
}
