// Package cache provides Redis-backed read-side caches: engagement counts
// and the per-channel activity feed.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CountCache caches derived engagement counts (like counts, subscriber
// counts) keyed by target. A negative return from Get means cache miss.
type CountCache interface {
	// Get retrieves a cached count. Returns -1, nil on cache miss.
	Get(ctx context.Context, key string) (int64, error)

	// Set stores a count with the specified TTL.
	Set(ctx context.Context, key string, count int64, ttl time.Duration) error

	// Delete removes a cached count. Returns nil if the key was absent.
	Delete(ctx context.Context, key string) error
}

// LikeCountKey builds the cache key for a like count.
func LikeCountKey(kind string, targetID uuid.UUID) string {
	return "likes:" + kind + ":" + targetID.String()
}

// SubscriberCountKey builds the cache key for a subscriber count.
func SubscriberCountKey(channelID uuid.UUID) string {
	return "subscribers:" + channelID.String()
}

// RedisCountCache implements CountCache using Redis as the backing store.
type RedisCountCache struct {
	client *redis.Client
}

// NewRedisCountCache creates a new Redis-backed count cache.
func NewRedisCountCache(client *redis.Client) *RedisCountCache {
	return &RedisCountCache{client: client}
}

// Get retrieves a cached count. Returns -1, nil on cache miss.
func (c *RedisCountCache) Get(ctx context.Context, key string) (int64, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return -1, nil // Cache miss
		}
		return -1, fmt.Errorf("redis get: %w", err)
	}

	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return -1, fmt.Errorf("parse cached count: %w", err)
	}

	return count, nil
}

// Set stores a count with the specified TTL.
func (c *RedisCountCache) Set(ctx context.Context, key string, count int64, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, strconv.FormatInt(count, 10), ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete removes a cached count.
func (c *RedisCountCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Compile-time verification that RedisCountCache implements CountCache.
var _ CountCache = (*RedisCountCache)(nil)
