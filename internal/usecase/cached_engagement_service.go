package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/takumi-dev/cliptube/internal/domain/model"
	"github.com/takumi-dev/cliptube/internal/infrastructure/cache"
	"github.com/takumi-dev/cliptube/internal/infrastructure/metrics"
)

// CachedEngagementServiceConfig holds configuration for the caching decorator.
type CachedEngagementServiceConfig struct {
	// CountTTL is the TTL for cached like and subscriber counts.
	CountTTL time.Duration
}

// DefaultCachedEngagementServiceConfig returns the default configuration.
func DefaultCachedEngagementServiceConfig() CachedEngagementServiceConfig {
	return CachedEngagementServiceConfig{
		CountTTL: 30 * time.Second,
	}
}

// cachedEngagementService wraps EngagementService with count caching.
// Counts are derived aggregates and tolerate short staleness; toggles
// invalidate the affected key so the next read recomputes.
type cachedEngagementService struct {
	delegate EngagementService
	counts   cache.CountCache
	sfGroup  singleflight.Group

	countTTL time.Duration
}

// NewCachedEngagementService creates a new caching decorator around the
// provided EngagementService.
func NewCachedEngagementService(
	delegate EngagementService,
	counts cache.CountCache,
	cfg CachedEngagementServiceConfig,
) EngagementService {
	return &cachedEngagementService{
		delegate: delegate,
		counts:   counts,
		countTTL: cfg.CountTTL,
	}
}

// ToggleLike delegates, then drops the cached count for the target.
// A reader racing the toggle can still re-cache the pre-toggle count, so
// staleness is bounded by the TTL rather than eliminated.
func (s *cachedEngagementService) ToggleLike(ctx context.Context, actorID uuid.UUID, kind model.TargetKind, targetID uuid.UUID) (bool, error) {
	liked, err := s.delegate.ToggleLike(ctx, actorID, kind, targetID)
	if err != nil {
		return false, err
	}
	s.invalidate(ctx, cache.LikeCountKey(kind.String(), targetID))
	return liked, nil
}

func (s *cachedEngagementService) IsLiked(ctx context.Context, actorID uuid.UUID, kind model.TargetKind, targetID uuid.UUID) (bool, error) {
	return s.delegate.IsLiked(ctx, actorID, kind, targetID)
}

// LikeCount serves the count from cache when possible, coalescing concurrent
// misses for the same target through singleflight.
func (s *cachedEngagementService) LikeCount(ctx context.Context, kind model.TargetKind, targetID uuid.UUID) (int64, error) {
	if !kind.IsValid() {
		return 0, model.ErrInvalidTargetKind
	}
	return s.countWithCache(ctx, cache.LikeCountKey(kind.String(), targetID), func() (int64, error) {
		return s.delegate.LikeCount(ctx, kind, targetID)
	})
}

func (s *cachedEngagementService) ListLikedVideos(ctx context.Context, actorID uuid.UUID) ([]*model.VideoWithOwner, error) {
	return s.delegate.ListLikedVideos(ctx, actorID)
}

func (s *cachedEngagementService) TopLikedTweets(ctx context.Context, limit int) ([]model.RankedTweet, error) {
	return s.delegate.TopLikedTweets(ctx, limit)
}

// ToggleSubscription delegates, then drops the cached subscriber count.
func (s *cachedEngagementService) ToggleSubscription(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error) {
	subscribed, err := s.delegate.ToggleSubscription(ctx, subscriberID, channelID)
	if err != nil {
		return false, err
	}
	s.invalidate(ctx, cache.SubscriberCountKey(channelID))
	return subscribed, nil
}

// SubscriberCount serves the count from cache when possible.
func (s *cachedEngagementService) SubscriberCount(ctx context.Context, channelID uuid.UUID) (int64, error) {
	return s.countWithCache(ctx, cache.SubscriberCountKey(channelID), func() (int64, error) {
		return s.delegate.SubscriberCount(ctx, channelID)
	})
}

func (s *cachedEngagementService) ChannelProfile(ctx context.Context, channelID, viewerID uuid.UUID) (*model.ChannelProfile, error) {
	return s.delegate.ChannelProfile(ctx, channelID, viewerID)
}

func (s *cachedEngagementService) ListSubscribers(ctx context.Context, channelID uuid.UUID) ([]model.PublicProfile, error) {
	return s.delegate.ListSubscribers(ctx, channelID)
}

func (s *cachedEngagementService) ListSubscribedChannels(ctx context.Context, subscriberID uuid.UUID) ([]model.PublicProfile, error) {
	return s.delegate.ListSubscribedChannels(ctx, subscriberID)
}

func (s *cachedEngagementService) ChannelStats(ctx context.Context, channelID uuid.UUID) (*ChannelStats, error) {
	return s.delegate.ChannelStats(ctx, channelID)
}

// countWithCache implements the cache-aside pattern with singleflight
// coalescing keyed on the cache key.
func (s *cachedEngagementService) countWithCache(ctx context.Context, key string, fetch func() (int64, error)) (int64, error) {
	result, err, shared := s.sfGroup.Do(key, func() (any, error) {
		count, err := s.counts.Get(ctx, key)
		if err != nil {
			// Log cache error but continue to the source of truth
			slog.Warn("count cache get failed, falling back to storage",
				"key", key,
				"error", err,
			)
			metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusError).Inc()
		} else if count >= 0 {
			metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusHit).Inc()
			return count, nil
		} else {
			metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusMiss).Inc()
		}

		count, err = fetch()
		if err != nil {
			return int64(0), err
		}

		if err := s.counts.Set(ctx, key, count, s.countTTL); err != nil {
			slog.Warn("failed to cache count",
				"key", key,
				"error", err,
			)
			metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusError).Inc()
		} else {
			metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusSuccess).Inc()
		}

		return count, nil
	})

	if shared {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightShared).Inc()
	} else {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightInitiated).Inc()
	}

	if err != nil {
		return 0, err
	}
	return result.(int64), nil
}

// invalidate drops a cached count. Failure is logged, never propagated: the
// entry expires via TTL anyway.
func (s *cachedEngagementService) invalidate(ctx context.Context, key string) {
	if err := s.counts.Delete(ctx, key); err != nil {
		slog.Warn("failed to invalidate count cache",
			"key", key,
			"error", err,
		)
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpDelete, metrics.CacheStatusError).Inc()
		return
	}
	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpDelete, metrics.CacheStatusSuccess).Inc()
}
