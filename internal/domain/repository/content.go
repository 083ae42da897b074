package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/takumi-dev/cliptube/internal/domain/model"
)

// TweetRepository defines persistence operations for tweets.
type TweetRepository interface {
	Create(ctx context.Context, tweet *model.Tweet) error

	// GetByID retrieves a tweet joined with its owner profile.
	// Returns ErrTweetNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.TweetWithOwner, error)

	// ListAll returns a page of tweets joined with owner profiles, newest
	// first with id tie-break.
	ListAll(ctx context.Context, page, limit int) ([]*model.TweetWithOwner, error)

	// ListByOwner returns all tweets by ownerID joined with the owner
	// profile, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.TweetWithOwner, error)

	// UpdateContent replaces the tweet content.
	// Returns ErrTweetNotFound if absent.
	UpdateContent(ctx context.Context, id uuid.UUID, content string) error

	// Delete removes a tweet. Returns ErrTweetNotFound if absent.
	Delete(ctx context.Context, id uuid.UUID) error
}

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error

	// GetByID returns ErrCommentNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error)

	// ListByVideo returns a page of the video's comments joined with owner
	// profiles, newest first with id tie-break.
	ListByVideo(ctx context.Context, videoID uuid.UUID, page, limit int) ([]*model.CommentWithOwner, error)

	// UpdateContent replaces the comment content.
	UpdateContent(ctx context.Context, id uuid.UUID, content string) error

	// Delete removes a comment. Returns ErrCommentNotFound if absent.
	Delete(ctx context.Context, id uuid.UUID) error
}

// PlaylistRepository defines persistence operations for playlists.
type PlaylistRepository interface {
	Create(ctx context.Context, playlist *model.Playlist) error

	// GetByID returns ErrPlaylistNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Playlist, error)

	// ListByOwner returns all playlists owned by ownerID, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Playlist, error)

	// Update persists name, description and video ids.
	Update(ctx context.Context, playlist *model.Playlist) error

	// Delete removes a playlist. Returns ErrPlaylistNotFound if absent.
	Delete(ctx context.Context, id uuid.UUID) error
}
