package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Video represents an uploaded video entity.
type Video struct {
	ID           uuid.UUID
	OwnerID      uuid.UUID
	Title        string
	Description  string
	VideoURL     string
	ThumbnailURL string
	Duration     float64
	Views        int64
	IsPublished  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

var (
	ErrEmptyTitle       = errors.New("title cannot be empty")
	ErrEmptyDescription = errors.New("description cannot be empty")
	ErrInvalidOwnerID   = errors.New("owner ID cannot be nil")
	ErrTitleTooLong     = errors.New("title exceeds maximum length of 255 characters")
)

const maxTitleLength = 255

// NewVideo creates a published Video owned by ownerID. URLs are attached once
// the media has been stored.
func NewVideo(ownerID uuid.UUID, title, description string) (*Video, error) {
	if ownerID == uuid.Nil {
		return nil, ErrInvalidOwnerID
	}
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if len(title) > maxTitleLength {
		return nil, ErrTitleTooLong
	}
	if description == "" {
		return nil, ErrEmptyDescription
	}

	now := time.Now()
	return &Video{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		IsPublished: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// SetMedia attaches the stored media URLs and duration after upload.
func (v *Video) SetMedia(videoURL, thumbnailURL string, duration float64) {
	v.VideoURL = videoURL
	v.ThumbnailURL = thumbnailURL
	v.Duration = duration
	v.UpdatedAt = time.Now()
}

// TogglePublish flips the publication state and returns the new state.
func (v *Video) TogglePublish() bool {
	v.IsPublished = !v.IsPublished
	v.UpdatedAt = time.Now()
	return v.IsPublished
}

// VideoWithOwner is a video joined with its owner's public profile.
type VideoWithOwner struct {
	Video
	Owner PublicProfile
}
