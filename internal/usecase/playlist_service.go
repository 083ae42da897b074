package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/takumi-dev/cliptube/internal/domain/model"
	"github.com/takumi-dev/cliptube/internal/domain/repository"
)

// ErrVideoAlreadyInPlaylist is returned when adding a video the playlist
// already holds.
var ErrVideoAlreadyInPlaylist = errors.New("video already in playlist")

// ErrVideoNotInPlaylist is returned when removing a video the playlist does
// not hold.
var ErrVideoNotInPlaylist = errors.New("video not in playlist")

// PlaylistService manages user-curated video collections.
type PlaylistService interface {
	// Create makes an empty playlist owned by ownerID.
	Create(ctx context.Context, ownerID uuid.UUID, name, description string) (*model.Playlist, error)

	// Get retrieves a playlist by id.
	Get(ctx context.Context, playlistID uuid.UUID) (*model.Playlist, error)

	// Videos resolves the playlist's video ids in playlist order, skipping
	// deleted videos.
	Videos(ctx context.Context, playlistID uuid.UUID) ([]*model.VideoWithOwner, error)

	// ListByOwner returns all of ownerID's playlists, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Playlist, error)

	// AddVideo appends the video to the playlist. Only the owner may add.
	AddVideo(ctx context.Context, playlistID, callerID, videoID uuid.UUID) (*model.Playlist, error)

	// RemoveVideo removes the video from the playlist. Only the owner may
	// remove.
	RemoveVideo(ctx context.Context, playlistID, callerID, videoID uuid.UUID) (*model.Playlist, error)

	// Update replaces name and description. Only the owner may update.
	Update(ctx context.Context, playlistID, callerID uuid.UUID, name, description string) (*model.Playlist, error)

	// Delete removes the playlist. Only the owner may delete.
	Delete(ctx context.Context, playlistID, callerID uuid.UUID) error
}

type playlistService struct {
	playlists repository.PlaylistRepository
	videos    repository.VideoRepository
}

// NewPlaylistService creates a new PlaylistService instance.
func NewPlaylistService(playlists repository.PlaylistRepository, videos repository.VideoRepository) PlaylistService {
	return &playlistService{playlists: playlists, videos: videos}
}

func (s *playlistService) Create(ctx context.Context, ownerID uuid.UUID, name, description string) (*model.Playlist, error) {
	playlist, err := model.NewPlaylist(ownerID, name, description)
	if err != nil {
		return nil, err
	}

	if err := s.playlists.Create(ctx, playlist); err != nil {
		return nil, err
	}

	return playlist, nil
}

func (s *playlistService) Get(ctx context.Context, playlistID uuid.UUID) (*model.Playlist, error) {
	return s.playlists.GetByID(ctx, playlistID)
}

func (s *playlistService) Videos(ctx context.Context, playlistID uuid.UUID) ([]*model.VideoWithOwner, error) {
	playlist, err := s.playlists.GetByID(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	return s.videos.ListByIDs(ctx, playlist.VideoIDs)
}

func (s *playlistService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Playlist, error) {
	return s.playlists.ListByOwner(ctx, ownerID)
}

// AddVideo verifies the video exists before appending; playlists hold
// references to real content only.
func (s *playlistService) AddVideo(ctx context.Context, playlistID, callerID, videoID uuid.UUID) (*model.Playlist, error) {
	playlist, err := s.getOwned(ctx, playlistID, callerID)
	if err != nil {
		return nil, err
	}

	if playlist.Contains(videoID) {
		return nil, ErrVideoAlreadyInPlaylist
	}

	if _, err := s.videos.GetByID(ctx, videoID); err != nil {
		return nil, err
	}

	playlist.VideoIDs = append(playlist.VideoIDs, videoID)
	playlist.UpdatedAt = time.Now()

	if err := s.playlists.Update(ctx, playlist); err != nil {
		return nil, err
	}

	return playlist, nil
}

func (s *playlistService) RemoveVideo(ctx context.Context, playlistID, callerID, videoID uuid.UUID) (*model.Playlist, error) {
	playlist, err := s.getOwned(ctx, playlistID, callerID)
	if err != nil {
		return nil, err
	}

	if !playlist.Contains(videoID) {
		return nil, ErrVideoNotInPlaylist
	}

	kept := playlist.VideoIDs[:0]
	for _, id := range playlist.VideoIDs {
		if id != videoID {
			kept = append(kept, id)
		}
	}
	playlist.VideoIDs = kept
	playlist.UpdatedAt = time.Now()

	if err := s.playlists.Update(ctx, playlist); err != nil {
		return nil, err
	}

	return playlist, nil
}

func (s *playlistService) Update(ctx context.Context, playlistID, callerID uuid.UUID, name, description string) (*model.Playlist, error) {
	playlist, err := s.getOwned(ctx, playlistID, callerID)
	if err != nil {
		return nil, err
	}

	if name == "" {
		return nil, model.ErrEmptyPlaylistName
	}

	playlist.Name = name
	playlist.Description = description
	playlist.UpdatedAt = time.Now()

	if err := s.playlists.Update(ctx, playlist); err != nil {
		return nil, err
	}

	return playlist, nil
}

func (s *playlistService) Delete(ctx context.Context, playlistID, callerID uuid.UUID) error {
	if _, err := s.getOwned(ctx, playlistID, callerID); err != nil {
		return err
	}
	return s.playlists.Delete(ctx, playlistID)
}

func (s *playlistService) getOwned(ctx context.Context, playlistID, callerID uuid.UUID) (*model.Playlist, error) {
	playlist, err := s.playlists.GetByID(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if playlist.OwnerID != callerID {
		return nil, ErrForbidden
	}
	return playlist, nil
}
