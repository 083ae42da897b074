package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Playlist is an ordered collection of video ids curated by a user.
type Playlist struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Name        string
	Description string
	VideoIDs    []uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

var ErrEmptyPlaylistName = errors.New("playlist name cannot be empty")

// NewPlaylist creates an empty Playlist owned by ownerID.
func NewPlaylist(ownerID uuid.UUID, name, description string) (*Playlist, error) {
	if ownerID == uuid.Nil {
		return nil, ErrInvalidOwnerID
	}
	if name == "" {
		return nil, ErrEmptyPlaylistName
	}

	now := time.Now()
	return &Playlist{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Contains reports whether the playlist already holds videoID.
func (p *Playlist) Contains(videoID uuid.UUID) bool {
	for _, id := range p.VideoIDs {
		if id == videoID {
			return true
		}
	}
	return false
}
