package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TargetKind identifies the type of entity a like edge points at.
type TargetKind string

const (
	TargetVideo   TargetKind = "video"
	TargetComment TargetKind = "comment"
	TargetTweet   TargetKind = "tweet"
)

var ErrInvalidTargetKind = errors.New("invalid like target kind")

func (k TargetKind) IsValid() bool {
	switch k {
	case TargetVideo, TargetComment, TargetTweet:
		return true
	default:
		return false
	}
}

func (k TargetKind) String() string {
	return string(k)
}

// ParseTargetKind converts a path segment into a TargetKind.
func ParseTargetKind(s string) (TargetKind, error) {
	k := TargetKind(s)
	if !k.IsValid() {
		return "", ErrInvalidTargetKind
	}
	return k, nil
}

// Like is a presence-only edge: at most one per (UserID, TargetKind, TargetID).
type Like struct {
	UserID     uuid.UUID
	TargetKind TargetKind
	TargetID   uuid.UUID
	CreatedAt  time.Time
}

// Subscription is a presence-only edge: at most one per (SubscriberID, ChannelID).
type Subscription struct {
	SubscriberID uuid.UUID
	ChannelID    uuid.UUID
	CreatedAt    time.Time
}

// ChannelProfile is the read-side view of a channel: public profile plus
// derived subscriber count and the viewer's subscription state.
type ChannelProfile struct {
	PublicProfile
	FullName        string
	CoverURL        string
	SubscriberCount int64
	IsSubscribed    bool
}

// RankedTweet is one leaderboard entry. Tweet is nil for placeholder entries
// padding the tail when fewer tweets have likes than the requested size.
type RankedTweet struct {
	Tweet     *TweetWithOwner
	LikeCount int64
}
