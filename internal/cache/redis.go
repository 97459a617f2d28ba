// Package cache wraps Redis for JSON read-through caching. A RedisCache
// built from a nil client is valid and simply never hits.
package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores JSON values under a key prefix.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// New returns a cache namespaced by prefix. client may be nil.
func New(client *redis.Client, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

// Enabled reports whether a Redis connection is configured.
func (c *RedisCache) Enabled() bool { return c != nil && c.client != nil }

func (c *RedisCache) key(k string) string { return c.prefix + ":" + k }

// Set stores value as JSON with the given lifetime.
func (c *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(key), data, ttl).Err()
}

// Get decodes the cached value into dest. A miss returns redis.Nil.
func (c *RedisCache) Get(ctx context.Context, key string, dest any) error {
	if !c.Enabled() {
		return redis.Nil
	}
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// GetOrSet returns the cached value for key, or calls fn and caches its
// result. Cache errors never fail the call.
func GetOrSet[T any](ctx context.Context, c *RedisCache, key string, ttl time.Duration, fn func() (T, error)) (T, error) {
	var result T
	if err := c.Get(ctx, key, &result); err == nil {
		return result, nil
	}
	result, err := fn()
	if err != nil {
		return result, err
	}
	if err := c.Set(ctx, key, result, ttl); err != nil {
		log.Printf("cache: set %s failed: %v", key, err)
	}
	return result, nil
}

// Purge deletes every key under the cache prefix.
func (c *RedisCache) Purge(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return PurgePrefix(ctx, c.client, c.prefix)
}

// PurgePrefix deletes all keys starting with prefix+":" using SCAN so the
// server is never blocked by KEYS.
func PurgePrefix(ctx context.Context, client *redis.Client, prefix string) error {
	if client == nil {
		return nil
	}
	iter := client.Scan(ctx, 0, prefix+":*", 200).Iterator()
	batch := make([]string, 0, 200)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return client.Del(ctx, batch...).Err()
	}
	return nil
}
