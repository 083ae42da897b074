package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/takumi-dev/cliptube/internal/domain/model"
	"github.com/takumi-dev/cliptube/internal/domain/repository"
)

// PublishVideoInput holds the parameters for publishing a video.
type PublishVideoInput struct {
	OwnerID     uuid.UUID
	Title       string
	Description string
	Duration    float64
	Video       MediaUpload
	Thumbnail   MediaUpload
}

// UpdateVideoInput holds the mutable video fields. Nil pointers leave the
// current value unchanged.
type UpdateVideoInput struct {
	Title       *string
	Description *string
	Thumbnail   *MediaUpload
}

// ListVideosInput controls pagination, filtering and ordering of the public
// video listing. Zero values fall back to defaults.
type ListVideosInput struct {
	Page      int
	Limit     int
	Query     string
	OwnerID   uuid.UUID
	SortBy    string
	SortOrder string
}

// VideoPage is one page of the public listing together with the normalized
// page and limit that produced it, so responses can echo them back.
type VideoPage struct {
	Videos []*model.VideoWithOwner
	Page   int
	Limit  int
}

const (
	defaultPageSize  = 10
	maxPageSize      = 100
	trendingPageSize = 20

	sourceDownloadExpiry = 15 * time.Minute
)

// VideoService manages the video lifecycle: publishing, retrieval with view
// counting, listing, and owner-gated mutation.
type VideoService interface {
	// Publish uploads the media, persists the video, and announces it.
	Publish(ctx context.Context, input PublishVideoInput) (*model.Video, error)

	// Get retrieves a video with its owner profile, increments its view
	// counter, and records the watch for viewerID when non-nil.
	Get(ctx context.Context, videoID, viewerID uuid.UUID) (*model.VideoWithOwner, error)

	// List returns a page of published videos in a deterministic order,
	// along with the page and limit actually applied.
	List(ctx context.Context, input ListVideosInput) (*VideoPage, error)

	// ListByOwner returns all of ownerID's videos, including unpublished
	// ones, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Video, error)

	// Trending returns published videos ranked by views weighted with recency.
	Trending(ctx context.Context) ([]*model.VideoWithOwner, error)

	// Update applies the provided changes. Only the owner may update.
	Update(ctx context.Context, videoID, callerID uuid.UUID, input UpdateVideoInput) (*model.Video, error)

	// TogglePublish flips publication state. Only the owner may toggle.
	TogglePublish(ctx context.Context, videoID, callerID uuid.UUID) (published bool, err error)

	// Delete removes the video and its stored media. Only the owner may
	// delete.
	Delete(ctx context.Context, videoID, callerID uuid.UUID) error

	// Download returns a time-limited URL for fetching the original source
	// file directly from storage. Only the owner may download the original.
	Download(ctx context.Context, videoID, callerID uuid.UUID) (string, error)
}

type videoService struct {
	videos  repository.VideoRepository
	users   repository.UserRepository
	storage repository.MediaStorage
	events  repository.EventQueue
}

// NewVideoService creates a new VideoService instance.
// events may be nil, in which case publish announcements are skipped.
func NewVideoService(
	videos repository.VideoRepository,
	users repository.UserRepository,
	storage repository.MediaStorage,
	events repository.EventQueue,
) VideoService {
	return &videoService{
		videos:  videos,
		users:   users,
		storage: storage,
		events:  events,
	}
}

// Publish stores the media first so a failed upload never leaves a video row
// pointing at nothing.
func (s *videoService) Publish(ctx context.Context, input PublishVideoInput) (*model.Video, error) {
	video, err := model.NewVideo(input.OwnerID, input.Title, input.Description)
	if err != nil {
		return nil, err
	}

	videoKey := path.Join("videos", video.ID.String(), "source")
	videoURL, err := s.storage.Upload(ctx, videoKey, input.Video.Reader, input.Video.Size, input.Video.ContentType)
	if err != nil {
		return nil, fmt.Errorf("upload video: %w", err)
	}

	thumbKey := path.Join("videos", video.ID.String(), "thumbnail")
	thumbURL, err := s.storage.Upload(ctx, thumbKey, input.Thumbnail.Reader, input.Thumbnail.Size, input.Thumbnail.ContentType)
	if err != nil {
		return nil, fmt.Errorf("upload thumbnail: %w", err)
	}

	video.SetMedia(videoURL, thumbURL, input.Duration)

	if err := s.videos.Create(ctx, video); err != nil {
		return nil, err
	}

	s.announcePublish(ctx, video)

	return video, nil
}

// Get increments the view counter on every retrieval and records the watch
// for authenticated viewers. Both side effects are best-effort relative to
// the read: a failed increment still returns the video.
func (s *videoService) Get(ctx context.Context, videoID, viewerID uuid.UUID) (*model.VideoWithOwner, error) {
	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}

	if err := s.videos.IncrementViews(ctx, videoID); err != nil {
		slog.Warn("failed to increment view count",
			"video_id", videoID,
			"error", err,
		)
	} else {
		video.Views++
	}

	if viewerID != uuid.Nil {
		if err := s.users.AppendWatchHistory(ctx, viewerID, videoID); err != nil {
			slog.Warn("failed to record watch history",
				"user_id", viewerID,
				"video_id", videoID,
				"error", err,
			)
		}
	}

	return video, nil
}

// List validates and normalizes the paging inputs, then delegates. The
// repository applies the id tie-break that makes the page order total.
func (s *videoService) List(ctx context.Context, input ListVideosInput) (*VideoPage, error) {
	if input.Page == 0 {
		input.Page = 1
	}
	if input.Limit == 0 {
		input.Limit = defaultPageSize
	}
	if err := validatePagination(input.Page, input.Limit); err != nil {
		return nil, err
	}
	if input.Limit > maxPageSize {
		input.Limit = maxPageSize
	}

	sortBy := repository.VideoSortCreatedAt
	if input.SortBy != "" {
		sortBy = repository.VideoSortKey(input.SortBy)
		if !sortBy.IsValid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSortKey, input.SortBy)
		}
	}

	videos, err := s.videos.List(ctx, repository.ListVideosOptions{
		Page:          input.Page,
		Limit:         input.Limit,
		Query:         input.Query,
		OwnerID:       input.OwnerID,
		SortBy:        sortBy,
		Ascending:     input.SortOrder == "asc",
		PublishedOnly: true,
	})
	if err != nil {
		return nil, err
	}

	return &VideoPage{Videos: videos, Page: input.Page, Limit: input.Limit}, nil
}

func (s *videoService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Video, error) {
	return s.videos.ListByOwner(ctx, ownerID)
}

func (s *videoService) Trending(ctx context.Context) ([]*model.VideoWithOwner, error) {
	return s.videos.ListTrending(ctx, trendingPageSize)
}

// Update applies the provided changes after the ownership check.
func (s *videoService) Update(ctx context.Context, videoID, callerID uuid.UUID, input UpdateVideoInput) (*model.Video, error) {
	video, err := s.getOwned(ctx, videoID, callerID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, model.ErrEmptyTitle
		}
		video.Title = *input.Title
	}
	if input.Description != nil {
		if *input.Description == "" {
			return nil, model.ErrEmptyDescription
		}
		video.Description = *input.Description
	}
	if input.Thumbnail != nil {
		thumbKey := path.Join("videos", video.ID.String(), "thumbnail")
		video.ThumbnailURL, err = s.storage.Upload(ctx, thumbKey, input.Thumbnail.Reader, input.Thumbnail.Size, input.Thumbnail.ContentType)
		if err != nil {
			return nil, fmt.Errorf("upload thumbnail: %w", err)
		}
	}
	video.UpdatedAt = time.Now()

	if err := s.videos.Update(ctx, video); err != nil {
		return nil, err
	}

	return video, nil
}

// TogglePublish flips publication state after the ownership check.
func (s *videoService) TogglePublish(ctx context.Context, videoID, callerID uuid.UUID) (bool, error) {
	video, err := s.getOwned(ctx, videoID, callerID)
	if err != nil {
		return false, err
	}

	published := video.TogglePublish()

	if err := s.videos.Update(ctx, video); err != nil {
		return false, err
	}

	return published, nil
}

// Delete removes the row first; media cleanup is best-effort since an
// orphaned object is cheaper than a video row pointing at deleted media.
func (s *videoService) Delete(ctx context.Context, videoID, callerID uuid.UUID) error {
	if _, err := s.getOwned(ctx, videoID, callerID); err != nil {
		return err
	}

	if err := s.videos.Delete(ctx, videoID); err != nil {
		return err
	}

	for _, key := range []string{
		path.Join("videos", videoID.String(), "source"),
		path.Join("videos", videoID.String(), "thumbnail"),
	} {
		if err := s.storage.Delete(ctx, key); err != nil {
			slog.Warn("failed to delete stored media",
				"video_id", videoID,
				"key", key,
				"error", err,
			)
		}
	}

	return nil
}

// Download presigns a GET for the stored source object after the ownership
// check. The object is stat-ed first so a missing original surfaces as
// ErrObjectNotFound instead of a signed URL that 404s later.
func (s *videoService) Download(ctx context.Context, videoID, callerID uuid.UUID) (string, error) {
	video, err := s.getOwned(ctx, videoID, callerID)
	if err != nil {
		return "", err
	}

	key := path.Join("videos", video.ID.String(), "source")

	exists, err := s.storage.Exists(ctx, key)
	if err != nil {
		return "", fmt.Errorf("check source object: %w", err)
	}
	if !exists {
		return "", repository.ErrObjectNotFound
	}

	url, err := s.storage.GeneratePresignedDownloadURL(ctx, key, sourceDownloadExpiry)
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}

	return url, nil
}

// getOwned loads the video and enforces that callerID owns it.
func (s *videoService) getOwned(ctx context.Context, videoID, callerID uuid.UUID) (*model.Video, error) {
	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video.OwnerID != callerID {
		return nil, ErrForbidden
	}
	return &video.Video, nil
}

// announcePublish emits a video_published event for the owner's activity
// feed. Best-effort: failures are logged, never propagated.
func (s *videoService) announcePublish(ctx context.Context, video *model.Video) {
	if s.events == nil {
		return
	}
	err := s.events.PublishEngagementEvent(ctx, repository.EngagementEvent{
		Type:       repository.EventVideoPublished,
		ActorID:    video.OwnerID,
		ChannelID:  video.OwnerID,
		TargetKind: model.TargetVideo.String(),
		TargetID:   video.ID,
		OccurredAt: time.Now(),
	})
	if err != nil {
		slog.Warn("failed to publish video announcement",
			"video_id", video.ID,
			"error", err,
		)
	}
}
