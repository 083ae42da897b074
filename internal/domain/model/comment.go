package model

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a text comment attached to a video.
type Comment struct {
	ID        uuid.UUID
	VideoID   uuid.UUID
	OwnerID   uuid.UUID
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewComment creates a Comment on videoID owned by ownerID.
func NewComment(videoID, ownerID uuid.UUID, content string) (*Comment, error) {
	if ownerID == uuid.Nil {
		return nil, ErrInvalidOwnerID
	}
	if content == "" {
		return nil, ErrEmptyContent
	}

	now := time.Now()
	return &Comment{
		ID:        uuid.New(),
		VideoID:   videoID,
		OwnerID:   ownerID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// CommentWithOwner is a comment joined with its owner's public profile.
type CommentWithOwner struct {
	Comment
	Owner PublicProfile
}
