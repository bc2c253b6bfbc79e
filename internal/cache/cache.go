package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Loader produces the value to cache on a miss.
type Loader func(ctx context.Context) (any, error)

// Cache is the read-through cache collaborator for ticket detail and
// organization list views. Implementations are best-effort: a broken
// cache degrades to loading directly, it never fails the operation.
type Cache interface {
	GetOrPopulate(ctx context.Context, key string, ttl time.Duration, dest any, loader Loader) error
	Invalidate(ctx context.Context, keys ...string)
}

// TicketKey is the cache key for a single ticket detail view.
func TicketKey(ticketID string) string {
	return "ticket:" + ticketID
}

// ListKey is the cache key for an organization's ticket list view.
func ListKey(organizationID string) string {
	return "tickets:list:" + organizationID
}

type redisCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisCache builds a Cache backed by go-redis.
func NewRedisCache(client *redis.Client, logger *zap.Logger) Cache {
	return &redisCache{client: client, logger: logger}
}

// GetOrPopulate returns the cached JSON value for key, running the loader
// and storing its result on a miss. Redis errors are logged and treated
// as misses.
func (c *redisCache) GetOrPopulate(ctx context.Context, key string, ttl time.Duration, dest any, loader Loader) error {
	if c.client != nil {
		raw, err := c.client.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			if err := json.Unmarshal(raw, dest); err == nil {
				return nil
			}
			// stale or corrupt entry, fall through to the loader
			c.client.Del(ctx, key)
		case !errors.Is(err, redis.Nil):
			c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	value, err := loader(ctx)
	if err != nil {
		return err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache value: %w", err)
	}
	if c.client != nil {
		if err := c.client.Set(ctx, key, encoded, ttl).Err(); err != nil {
			c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return json.Unmarshal(encoded, dest)
}

// Invalidate removes the given keys, logging failures.
func (c *redisCache) Invalidate(ctx context.Context, keys ...string) {
	if c.client == nil || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
