package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/takumi-dev/cliptube/internal/domain/model"
)

// LikeRepository maintains the unique like-edge set. Toggle must be atomic at
// the storage layer: a conditional insert followed, only when nothing was
// inserted, by a delete. There is no read-then-write window.
type LikeRepository interface {
	// Toggle flips the edge for (userID, kind, targetID) and reports the
	// resulting state: true when the edge now exists, false when it does not.
	Toggle(ctx context.Context, userID uuid.UUID, kind model.TargetKind, targetID uuid.UUID) (liked bool, err error)

	// Exists reports whether the edge is present. Never mutates.
	Exists(ctx context.Context, userID uuid.UUID, kind model.TargetKind, targetID uuid.UUID) (bool, error)

	// Count returns the number of like edges pointing at the target.
	Count(ctx context.Context, kind model.TargetKind, targetID uuid.UUID) (int64, error)

	// CountForVideos returns the total like count across the given video ids.
	CountForVideos(ctx context.Context, videoIDs []uuid.UUID) (int64, error)

	// ListLikedVideoIDs returns the ids of videos the user has liked,
	// most recently liked first.
	ListLikedVideoIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)

	// TopLikedTweets groups like edges by target tweet and returns up to
	// limit tweets ordered by like count descending, ties broken by most
	// recent tweet creation time then id. The result may be shorter than
	// limit; padding to a fixed length is the caller's concern.
	TopLikedTweets(ctx context.Context, limit int) ([]model.RankedTweet, error)
}

// SubscriptionRepository maintains the unique subscription-edge set with the
// same atomic-toggle contract as likes.
type SubscriptionRepository interface {
	// Toggle flips the edge for (subscriberID, channelID) and reports the
	// resulting state: true when subscribed, false when not.
	Toggle(ctx context.Context, subscriberID, channelID uuid.UUID) (subscribed bool, err error)

	// Exists reports whether subscriberID is subscribed to channelID.
	Exists(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error)

	// CountSubscribers returns the number of subscribers of channelID.
	CountSubscribers(ctx context.Context, channelID uuid.UUID) (int64, error)

	// ListSubscribers returns the public profiles of the channel's subscribers.
	ListSubscribers(ctx context.Context, channelID uuid.UUID) ([]model.PublicProfile, error)

	// ListSubscribedChannels returns the public profiles of the channels the
	// subscriber follows.
	ListSubscribedChannels(ctx context.Context, subscriberID uuid.UUID) ([]model.PublicProfile, error)
}
