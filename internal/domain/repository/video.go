package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/takumi-dev/cliptube/internal/domain/model"
)

// VideoSortKey enumerates the columns a video listing may be sorted by.
type VideoSortKey string

const (
	VideoSortCreatedAt VideoSortKey = "created_at"
	VideoSortTitle     VideoSortKey = "title"
	VideoSortViews     VideoSortKey = "views"
	VideoSortDuration  VideoSortKey = "duration"
)

func (k VideoSortKey) IsValid() bool {
	switch k {
	case VideoSortCreatedAt, VideoSortTitle, VideoSortViews, VideoSortDuration:
		return true
	default:
		return false
	}
}

// ListVideosOptions controls pagination, filtering and ordering of video
// listings. Implementations must apply a deterministic total order (sort key
// plus id tie-break) before applying offset/limit.
type ListVideosOptions struct {
	Page          int
	Limit         int
	Query         string // case-insensitive match against title/description
	OwnerID       uuid.UUID
	SortBy        VideoSortKey
	Ascending     bool
	PublishedOnly bool
}

// VideoRepository defines persistence operations for videos.
type VideoRepository interface {
	// Create persists a new video.
	Create(ctx context.Context, video *model.Video) error

	// GetByID retrieves a video joined with its owner profile.
	// Returns ErrVideoNotFound if no such video exists.
	GetByID(ctx context.Context, id uuid.UUID) (*model.VideoWithOwner, error)

	// IncrementViews adds one to the video's view counter.
	IncrementViews(ctx context.Context, id uuid.UUID) error

	// List returns a page of videos joined with owner profiles.
	List(ctx context.Context, opts ListVideosOptions) ([]*model.VideoWithOwner, error)

	// ListByIDs returns videos joined with owner profiles in the exact order
	// of the supplied ids, skipping ids with no matching row. This serves the
	// watch-history and liked-videos views whose order comes from the source
	// record, not from a sort key.
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.VideoWithOwner, error)

	// ListByOwner returns all videos owned by ownerID, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Video, error)

	// ListTrending returns published videos ranked by views weighted with
	// recency, limited to limit entries.
	ListTrending(ctx context.Context, limit int) ([]*model.VideoWithOwner, error)

	// Update persists changes to an existing video.
	Update(ctx context.Context, video *model.Video) error

	// Delete removes a video. Returns ErrVideoNotFound if absent.
	Delete(ctx context.Context, id uuid.UUID) error

	// OwnerStats returns aggregate totals for the owner's channel.
	OwnerStats(ctx context.Context, ownerID uuid.UUID) (totalVideos, totalViews int64, err error)
}
