package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/takumi-dev/cliptube/internal/domain/model"
	"github.com/takumi-dev/cliptube/internal/domain/repository"
	"github.com/takumi-dev/cliptube/internal/infrastructure/metrics"
)

// ChannelStats aggregates the totals shown on a channel's dashboard.
type ChannelStats struct {
	TotalVideos      int64
	TotalViews       int64
	TotalLikes       int64
	TotalSubscribers int64
}

// EngagementService owns the like/subscription relation ledger and the
// read-side views derived from it.
type EngagementService interface {
	// ToggleLike flips the like edge and reports the resulting state.
	ToggleLike(ctx context.Context, actorID uuid.UUID, kind model.TargetKind, targetID uuid.UUID) (liked bool, err error)

	// IsLiked reports whether the actor currently likes the target.
	IsLiked(ctx context.Context, actorID uuid.UUID, kind model.TargetKind, targetID uuid.UUID) (bool, error)

	// LikeCount returns the number of likes on the target.
	LikeCount(ctx context.Context, kind model.TargetKind, targetID uuid.UUID) (int64, error)

	// ListLikedVideos returns the actor's liked videos joined with owner
	// profiles, most recently liked first.
	ListLikedVideos(ctx context.Context, actorID uuid.UUID) ([]*model.VideoWithOwner, error)

	// TopLikedTweets returns exactly limit leaderboard entries, padding the
	// tail with zero-count placeholders when fewer tweets have likes.
	TopLikedTweets(ctx context.Context, limit int) ([]model.RankedTweet, error)

	// ToggleSubscription flips the subscription edge and reports the
	// resulting state. Self-subscription is rejected.
	ToggleSubscription(ctx context.Context, subscriberID, channelID uuid.UUID) (subscribed bool, err error)

	// SubscriberCount returns the number of subscribers of the channel.
	SubscriberCount(ctx context.Context, channelID uuid.UUID) (int64, error)

	// ChannelProfile returns the channel's public profile with subscriber
	// count and, when viewerID is non-nil, the viewer's subscription state.
	ChannelProfile(ctx context.Context, channelID, viewerID uuid.UUID) (*model.ChannelProfile, error)

	// ListSubscribers returns the channel's subscribers.
	ListSubscribers(ctx context.Context, channelID uuid.UUID) ([]model.PublicProfile, error)

	// ListSubscribedChannels returns the channels the subscriber follows.
	ListSubscribedChannels(ctx context.Context, subscriberID uuid.UUID) ([]model.PublicProfile, error)

	// ChannelStats aggregates dashboard totals for the channel.
	ChannelStats(ctx context.Context, channelID uuid.UUID) (*ChannelStats, error)
}

type engagementService struct {
	likes    repository.LikeRepository
	subs     repository.SubscriptionRepository
	users    repository.UserRepository
	videos   repository.VideoRepository
	tweets   repository.TweetRepository
	comments repository.CommentRepository
	events   repository.EventQueue
}

// NewEngagementService creates a new EngagementService instance.
// events may be nil, in which case no engagement events are published.
func NewEngagementService(
	likes repository.LikeRepository,
	subs repository.SubscriptionRepository,
	users repository.UserRepository,
	videos repository.VideoRepository,
	tweets repository.TweetRepository,
	comments repository.CommentRepository,
	events repository.EventQueue,
) EngagementService {
	return &engagementService{
		likes:    likes,
		subs:     subs,
		users:    users,
		videos:   videos,
		tweets:   tweets,
		comments: comments,
		events:   events,
	}
}

// ToggleLike flips the like edge. Target existence is not checked; the edge
// is keyed on the id alone and orphan edges are tolerated.
func (s *engagementService) ToggleLike(ctx context.Context, actorID uuid.UUID, kind model.TargetKind, targetID uuid.UUID) (bool, error) {
	if !kind.IsValid() {
		return false, model.ErrInvalidTargetKind
	}

	liked, err := s.likes.Toggle(ctx, actorID, kind, targetID)
	if err != nil {
		return false, err
	}

	if liked {
		metrics.EngagementTogglesTotal.WithLabelValues(metrics.RelationLike, metrics.ToggleOn).Inc()
	} else {
		metrics.EngagementTogglesTotal.WithLabelValues(metrics.RelationLike, metrics.ToggleOff).Inc()
	}

	s.publishLikeEvent(ctx, actorID, kind, targetID, liked)

	return liked, nil
}

// IsLiked is a pure existence check.
func (s *engagementService) IsLiked(ctx context.Context, actorID uuid.UUID, kind model.TargetKind, targetID uuid.UUID) (bool, error) {
	if !kind.IsValid() {
		return false, model.ErrInvalidTargetKind
	}
	return s.likes.Exists(ctx, actorID, kind, targetID)
}

// LikeCount is derived from edge-set cardinality on demand.
func (s *engagementService) LikeCount(ctx context.Context, kind model.TargetKind, targetID uuid.UUID) (int64, error) {
	if !kind.IsValid() {
		return 0, model.ErrInvalidTargetKind
	}
	return s.likes.Count(ctx, kind, targetID)
}

// ListLikedVideos joins the actor's liked video ids against content and
// owner profiles, preserving most-recently-liked-first order.
func (s *engagementService) ListLikedVideos(ctx context.Context, actorID uuid.UUID) ([]*model.VideoWithOwner, error) {
	ids, err := s.likes.ListLikedVideoIDs(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return s.videos.ListByIDs(ctx, ids)
}

// TopLikedTweets always returns exactly limit entries; when fewer tweets
// have any likes the tail is padded with placeholders so callers can rely
// on a fixed-length result.
func (s *engagementService) TopLikedTweets(ctx context.Context, limit int) ([]model.RankedTweet, error) {
	if limit < 1 {
		return nil, ErrInvalidLimit
	}

	ranked, err := s.likes.TopLikedTweets(ctx, limit)
	if err != nil {
		return nil, err
	}

	for len(ranked) < limit {
		ranked = append(ranked, model.RankedTweet{LikeCount: 0})
	}

	return ranked, nil
}

// ToggleSubscription flips the subscription edge.
func (s *engagementService) ToggleSubscription(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error) {
	if subscriberID == channelID {
		return false, ErrSelfSubscription
	}

	subscribed, err := s.subs.Toggle(ctx, subscriberID, channelID)
	if err != nil {
		return false, err
	}

	if subscribed {
		metrics.EngagementTogglesTotal.WithLabelValues(metrics.RelationSubscription, metrics.ToggleOn).Inc()
	} else {
		metrics.EngagementTogglesTotal.WithLabelValues(metrics.RelationSubscription, metrics.ToggleOff).Inc()
	}

	eventType := repository.EventSubscribed
	if !subscribed {
		eventType = repository.EventUnsubscribed
	}
	s.publishEvent(ctx, repository.EngagementEvent{
		Type:       eventType,
		ActorID:    subscriberID,
		ChannelID:  channelID,
		TargetID:   channelID,
		OccurredAt: time.Now(),
	})

	return subscribed, nil
}

// SubscriberCount is derived from edge-set cardinality on demand.
func (s *engagementService) SubscriberCount(ctx context.Context, channelID uuid.UUID) (int64, error) {
	return s.subs.CountSubscribers(ctx, channelID)
}

// ChannelProfile joins the channel's profile with the derived subscriber
// count and the viewer's subscription state.
func (s *engagementService) ChannelProfile(ctx context.Context, channelID, viewerID uuid.UUID) (*model.ChannelProfile, error) {
	user, err := s.users.GetByID(ctx, channelID)
	if err != nil {
		return nil, err
	}

	count, err := s.SubscriberCount(ctx, channelID)
	if err != nil {
		return nil, err
	}

	profile := &model.ChannelProfile{
		PublicProfile: model.PublicProfile{
			ID:        user.ID,
			Username:  user.Username,
			Email:     user.Email,
			AvatarURL: user.AvatarURL,
		},
		FullName:        user.FullName,
		CoverURL:        user.CoverURL,
		SubscriberCount: count,
	}

	if viewerID != uuid.Nil {
		subscribed, err := s.subs.Exists(ctx, viewerID, channelID)
		if err != nil {
			return nil, err
		}
		profile.IsSubscribed = subscribed
	}

	return profile, nil
}

func (s *engagementService) ListSubscribers(ctx context.Context, channelID uuid.UUID) ([]model.PublicProfile, error) {
	return s.subs.ListSubscribers(ctx, channelID)
}

func (s *engagementService) ListSubscribedChannels(ctx context.Context, subscriberID uuid.UUID) ([]model.PublicProfile, error) {
	return s.subs.ListSubscribedChannels(ctx, subscriberID)
}

// ChannelStats aggregates totals across the channel's videos and edges.
func (s *engagementService) ChannelStats(ctx context.Context, channelID uuid.UUID) (*ChannelStats, error) {
	totalVideos, totalViews, err := s.videos.OwnerStats(ctx, channelID)
	if err != nil {
		return nil, err
	}

	videos, err := s.videos.ListByOwner(ctx, channelID)
	if err != nil {
		return nil, err
	}
	videoIDs := make([]uuid.UUID, 0, len(videos))
	for _, v := range videos {
		videoIDs = append(videoIDs, v.ID)
	}

	totalLikes, err := s.likes.CountForVideos(ctx, videoIDs)
	if err != nil {
		return nil, err
	}

	totalSubscribers, err := s.subs.CountSubscribers(ctx, channelID)
	if err != nil {
		return nil, err
	}

	return &ChannelStats{
		TotalVideos:      totalVideos,
		TotalViews:       totalViews,
		TotalLikes:       totalLikes,
		TotalSubscribers: totalSubscribers,
	}, nil
}

// publishLikeEvent resolves the target's owner and publishes the toggle
// event to that channel's feed. Best-effort: failures are logged, never
// propagated to the toggle.
func (s *engagementService) publishLikeEvent(ctx context.Context, actorID uuid.UUID, kind model.TargetKind, targetID uuid.UUID, liked bool) {
	if s.events == nil {
		return
	}

	channelID, err := s.resolveTargetOwner(ctx, kind, targetID)
	if err != nil {
		slog.Warn("failed to resolve like target owner for event",
			"target_kind", kind.String(),
			"target_id", targetID,
			"error", err,
		)
		return
	}

	eventType := repository.EventLiked
	if !liked {
		eventType = repository.EventUnliked
	}
	s.publishEvent(ctx, repository.EngagementEvent{
		Type:       eventType,
		ActorID:    actorID,
		ChannelID:  channelID,
		TargetKind: kind.String(),
		TargetID:   targetID,
		OccurredAt: time.Now(),
	})
}

func (s *engagementService) publishEvent(ctx context.Context, event repository.EngagementEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishEngagementEvent(ctx, event); err != nil {
		slog.Warn("failed to publish engagement event",
			"type", string(event.Type),
			"target_id", event.TargetID,
			"error", err,
		)
	}
}

// resolveTargetOwner looks up the channel that owns the like target.
func (s *engagementService) resolveTargetOwner(ctx context.Context, kind model.TargetKind, targetID uuid.UUID) (uuid.UUID, error) {
	switch kind {
	case model.TargetVideo:
		video, err := s.videos.GetByID(ctx, targetID)
		if err != nil {
			return uuid.Nil, err
		}
		return video.OwnerID, nil
	case model.TargetTweet:
		tweet, err := s.tweets.GetByID(ctx, targetID)
		if err != nil {
			return uuid.Nil, err
		}
		return tweet.OwnerID, nil
	case model.TargetComment:
		comment, err := s.comments.GetByID(ctx, targetID)
		if err != nil {
			return uuid.Nil, err
		}
		return comment.OwnerID, nil
	default:
		return uuid.Nil, fmt.Errorf("%w: %s", model.ErrInvalidTargetKind, kind)
	}
}
