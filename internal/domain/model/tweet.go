package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Tweet is a short text post owned by a user.
type Tweet struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

var (
	ErrEmptyContent   = errors.New("content cannot be empty")
	ErrContentTooLong = errors.New("content exceeds maximum length of 500 characters")
)

const maxTweetLength = 500

// NewTweet creates a Tweet owned by ownerID.
func NewTweet(ownerID uuid.UUID, content string) (*Tweet, error) {
	if ownerID == uuid.Nil {
		return nil, ErrInvalidOwnerID
	}
	if content == "" {
		return nil, ErrEmptyContent
	}
	if len(content) > maxTweetLength {
		return nil, ErrContentTooLong
	}

	now := time.Now()
	return &Tweet{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// TweetWithOwner is a tweet joined with its owner's public profile.
type TweetWithOwner struct {
	Tweet
	Owner PublicProfile
}
