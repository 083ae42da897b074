package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const activityFeedKeyPrefix = "activity:"

// ActivityEntry is one rendered event in a channel's activity feed.
type ActivityEntry struct {
	Type       string    `json:"type"`
	ActorID    string    `json:"actor_id"`
	TargetKind string    `json:"target_kind,omitempty"`
	TargetID   string    `json:"target_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ActivityFeed stores a capped, most-recent-first list of engagement events
// per channel. Written by the worker, read by the dashboard.
type ActivityFeed interface {
	// Push prepends an entry to the channel's feed and trims the feed to the
	// configured maximum length.
	Push(ctx context.Context, channelID uuid.UUID, entry ActivityEntry) error

	// List returns up to limit entries, most recent first.
	List(ctx context.Context, channelID uuid.UUID, limit int) ([]ActivityEntry, error)
}

// RedisActivityFeed implements ActivityFeed on a Redis list per channel.
type RedisActivityFeed struct {
	client     *redis.Client
	maxEntries int
}

// NewRedisActivityFeed creates a new Redis-backed activity feed.
func NewRedisActivityFeed(client *redis.Client, maxEntries int) *RedisActivityFeed {
	return &RedisActivityFeed{client: client, maxEntries: maxEntries}
}

// Push prepends an entry and trims the list. LPUSH+LTRIM keeps the feed
// bounded without a separate cleanup job.
func (f *RedisActivityFeed) Push(ctx context.Context, channelID uuid.UUID, entry ActivityEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal activity entry: %w", err)
	}

	key := f.buildKey(channelID)
	pipe := f.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, int64(f.maxEntries-1))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis push activity: %w", err)
	}

	return nil
}

// List returns up to limit entries, most recent first.
func (f *RedisActivityFeed) List(ctx context.Context, channelID uuid.UUID, limit int) ([]ActivityEntry, error) {
	if limit <= 0 || limit > f.maxEntries {
		limit = f.maxEntries
	}

	items, err := f.client.LRange(ctx, f.buildKey(channelID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange activity: %w", err)
	}

	entries := make([]ActivityEntry, 0, len(items))
	for _, item := range items {
		var entry ActivityEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			return nil, fmt.Errorf("unmarshal activity entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func (f *RedisActivityFeed) buildKey(channelID uuid.UUID) string {
	return activityFeedKeyPrefix + channelID.String()
}

// Compile-time verification that RedisActivityFeed implements ActivityFeed.
var _ ActivityFeed = (*RedisActivityFeed)(nil)
