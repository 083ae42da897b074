package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/takumi-dev/cliptube/internal/domain/model"
	"github.com/takumi-dev/cliptube/internal/domain/repository"
	"github.com/takumi-dev/cliptube/internal/infrastructure/cache"
)

// FeedEntry is an activity feed entry with the actor's public profile
// resolved. Actor is nil when the account no longer exists.
type FeedEntry struct {
	cache.ActivityEntry
	Actor *model.PublicProfile
}

// ActivityService maintains and serves the per-channel activity feed, a
// capped Redis list derived from engagement events. The worker calls
// HandleEvent for each consumed event; the dashboard reads via Recent.
type ActivityService interface {
	// HandleEvent renders an engagement event into the owning channel's feed.
	HandleEvent(ctx context.Context, event repository.EngagementEvent) error

	// Recent returns up to limit feed entries, most recent first, with
	// actor profiles attached.
	Recent(ctx context.Context, channelID uuid.UUID, limit int) ([]FeedEntry, error)
}

type activityService struct {
	feed  cache.ActivityFeed
	users repository.UserRepository
}

// NewActivityService creates a new ActivityService instance.
// users may be nil, in which case Recent serves entries without profiles;
// the worker only writes and never needs the lookup.
func NewActivityService(feed cache.ActivityFeed, users repository.UserRepository) ActivityService {
	return &activityService{feed: feed, users: users}
}

// HandleEvent validates and renders the event. Events without a channel are
// rejected so the queue can discard them instead of requeueing.
func (s *activityService) HandleEvent(ctx context.Context, event repository.EngagementEvent) error {
	if event.ChannelID == uuid.Nil {
		return fmt.Errorf("event %s has no channel id", event.Type)
	}

	entry := cache.ActivityEntry{
		Type:       string(event.Type),
		ActorID:    event.ActorID.String(),
		TargetKind: event.TargetKind,
		TargetID:   event.TargetID.String(),
		OccurredAt: event.OccurredAt,
	}

	if err := s.feed.Push(ctx, event.ChannelID, entry); err != nil {
		return fmt.Errorf("push activity entry: %w", err)
	}

	return nil
}

// Recent resolves actor profiles in one batch lookup. Entries whose actor
// cannot be parsed or was deleted are kept with a nil Actor rather than
// dropped, so the feed length stays stable.
func (s *activityService) Recent(ctx context.Context, channelID uuid.UUID, limit int) ([]FeedEntry, error) {
	entries, err := s.feed.List(ctx, channelID, limit)
	if err != nil {
		return nil, err
	}

	profiles, err := s.actorProfiles(ctx, entries)
	if err != nil {
		return nil, err
	}

	feed := make([]FeedEntry, 0, len(entries))
	for _, entry := range entries {
		fe := FeedEntry{ActivityEntry: entry}
		if actorID, err := uuid.Parse(entry.ActorID); err == nil {
			if profile, ok := profiles[actorID]; ok {
				fe.Actor = &profile
			}
		}
		feed = append(feed, fe)
	}

	return feed, nil
}

func (s *activityService) actorProfiles(ctx context.Context, entries []cache.ActivityEntry) (map[uuid.UUID]model.PublicProfile, error) {
	if s.users == nil || len(entries) == 0 {
		return nil, nil
	}

	seen := make(map[uuid.UUID]struct{}, len(entries))
	ids := make([]uuid.UUID, 0, len(entries))
	for _, entry := range entries {
		actorID, err := uuid.Parse(entry.ActorID)
		if err != nil {
			continue
		}
		if _, ok := seen[actorID]; ok {
			continue
		}
		seen[actorID] = struct{}{}
		ids = append(ids, actorID)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	profiles, err := s.users.GetProfiles(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve actor profiles: %w", err)
	}

	return profiles, nil
}
