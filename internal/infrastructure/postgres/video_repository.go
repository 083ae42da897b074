package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/takumi-dev/cliptube/internal/domain/model"
	"github.com/takumi-dev/cliptube/internal/domain/repository"
)

// VideoRepository implements repository.VideoRepository using PostgreSQL.
type VideoRepository struct {
	db DBTX
}

// NewVideoRepository creates a new VideoRepository instance.
func NewVideoRepository(db DBTX) *VideoRepository {
	return &VideoRepository{db: db}
}

const videoOwnerColumns = `
	v.id, v.owner_id, v.title, v.description, v.video_url, v.thumbnail_url,
	v.duration, v.views, v.is_published, v.created_at, v.updated_at,
	u.id, u.username, u.email, u.avatar_url`

// Create persists a new video.
func (r *VideoRepository) Create(ctx context.Context, video *model.Video) error {
	const query = `
		INSERT INTO videos (id, owner_id, title, description, video_url, thumbnail_url, duration, views, is_published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(ctx, query,
		video.ID,
		video.OwnerID,
		video.Title,
		video.Description,
		video.VideoURL,
		video.ThumbnailURL,
		video.Duration,
		video.Views,
		video.IsPublished,
		video.CreatedAt,
		video.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create video: %w", err)
	}

	return nil
}

// GetByID retrieves a video joined with its owner profile.
func (r *VideoRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.VideoWithOwner, error) {
	query := `
		SELECT ` + videoOwnerColumns + `
		FROM videos v
		JOIN users u ON u.id = v.owner_id
		WHERE v.id = $1
	`

	video, err := scanVideoWithOwner(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to get video by ID: %w", err)
	}

	return video, nil
}

// IncrementViews adds one to the video's view counter.
func (r *VideoRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	const query = `UPDATE videos SET views = views + 1 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrVideoNotFound
	}

	return nil
}

// List returns a page of videos joined with owner profiles. The ORDER BY
// always appends the id tie-break so that repeated pagination over
// concurrently mutated data neither skips nor duplicates rows.
func (r *VideoRepository) List(ctx context.Context, opts repository.ListVideosOptions) ([]*model.VideoWithOwner, error) {
	sortKey := opts.SortBy
	if !sortKey.IsValid() {
		sortKey = repository.VideoSortCreatedAt
	}
	direction := "DESC"
	if opts.Ascending {
		direction = "ASC"
	}

	query := `
		SELECT ` + videoOwnerColumns + `
		FROM videos v
		JOIN users u ON u.id = v.owner_id
		WHERE ($1 = '' OR v.title ILIKE '%' || $1 || '%' OR v.description ILIKE '%' || $1 || '%')
		  AND ($2::uuid IS NULL OR v.owner_id = $2)
		  AND (NOT $3::bool OR v.is_published)
	`
	// Sort column and direction are validated against fixed sets above, so
	// interpolation here cannot inject.
	query += fmt.Sprintf(" ORDER BY v.%s %s, v.id ASC LIMIT $4 OFFSET $5", sortKey, direction)

	var ownerID *uuid.UUID
	if opts.OwnerID != uuid.Nil {
		ownerID = &opts.OwnerID
	}
	offset := (opts.Page - 1) * opts.Limit

	rows, err := r.db.Query(ctx, query, opts.Query, ownerID, opts.PublishedOnly, opts.Limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query videos: %w", err)
	}
	defer rows.Close()

	return collectVideosWithOwner(rows)
}

// ListByIDs returns videos in the exact order of the supplied ids, preserving
// the order stored on the source record (watch history, liked videos).
func (r *VideoRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.VideoWithOwner, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT ` + videoOwnerColumns + `
		FROM unnest($1::uuid[]) WITH ORDINALITY AS w(id, ord)
		JOIN videos v ON v.id = w.id
		JOIN users u ON u.id = v.owner_id
		ORDER BY w.ord
	`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query videos by ids: %w", err)
	}
	defer rows.Close()

	return collectVideosWithOwner(rows)
}

// ListByOwner returns all videos owned by ownerID, newest first.
func (r *VideoRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Video, error) {
	const query = `
		SELECT id, owner_id, title, description, video_url, thumbnail_url, duration, views, is_published, created_at, updated_at
		FROM videos
		WHERE owner_id = $1
		ORDER BY created_at DESC, id ASC
	`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query videos by owner: %w", err)
	}
	defer rows.Close()

	var videos []*model.Video
	for rows.Next() {
		var v model.Video
		err := rows.Scan(
			&v.ID, &v.OwnerID, &v.Title, &v.Description, &v.VideoURL, &v.ThumbnailURL,
			&v.Duration, &v.Views, &v.IsPublished, &v.CreatedAt, &v.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, &v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating videos: %w", err)
	}

	return videos, nil
}

// ListTrending returns published videos ranked by views weighted with upload
// recency, deterministic on the score with an id tie-break.
func (r *VideoRepository) ListTrending(ctx context.Context, limit int) ([]*model.VideoWithOwner, error) {
	query := `
		SELECT ` + videoOwnerColumns + `
		FROM videos v
		JOIN users u ON u.id = v.owner_id
		WHERE v.is_published
		ORDER BY v.views + extract(epoch from v.created_at) * 0.001 DESC, v.id ASC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query trending videos: %w", err)
	}
	defer rows.Close()

	return collectVideosWithOwner(rows)
}

// Update persists changes to an existing video.
func (r *VideoRepository) Update(ctx context.Context, video *model.Video) error {
	const query = `
		UPDATE videos
		SET title = $2, description = $3, thumbnail_url = $4, is_published = $5, updated_at = $6
		WHERE id = $1
	`

	video.UpdatedAt = time.Now()

	tag, err := r.db.Exec(ctx, query,
		video.ID,
		video.Title,
		video.Description,
		video.ThumbnailURL,
		video.IsPublished,
		video.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update video: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrVideoNotFound
	}

	return nil
}

// Delete removes a video.
func (r *VideoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM videos WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrVideoNotFound
	}

	return nil
}

// OwnerStats returns aggregate totals for the owner's channel.
func (r *VideoRepository) OwnerStats(ctx context.Context, ownerID uuid.UUID) (int64, int64, error) {
	const query = `
		SELECT COUNT(*), COALESCE(SUM(views), 0)
		FROM videos
		WHERE owner_id = $1
	`

	var totalVideos, totalViews int64
	if err := r.db.QueryRow(ctx, query, ownerID).Scan(&totalVideos, &totalViews); err != nil {
		return 0, 0, fmt.Errorf("failed to query owner stats: %w", err)
	}

	return totalVideos, totalViews, nil
}

func scanVideoWithOwner(row pgx.Row) (*model.VideoWithOwner, error) {
	var v model.VideoWithOwner
	err := row.Scan(
		&v.ID, &v.OwnerID, &v.Title, &v.Description, &v.VideoURL, &v.ThumbnailURL,
		&v.Duration, &v.Views, &v.IsPublished, &v.CreatedAt, &v.UpdatedAt,
		&v.Owner.ID, &v.Owner.Username, &v.Owner.Email, &v.Owner.AvatarURL,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func collectVideosWithOwner(rows pgx.Rows) ([]*model.VideoWithOwner, error) {
	var videos []*model.VideoWithOwner
	for rows.Next() {
		var v model.VideoWithOwner
		err := rows.Scan(
			&v.ID, &v.OwnerID, &v.Title, &v.Description, &v.VideoURL, &v.ThumbnailURL,
			&v.Duration, &v.Views, &v.IsPublished, &v.CreatedAt, &v.UpdatedAt,
			&v.Owner.ID, &v.Owner.Username, &v.Owner.Email, &v.Owner.AvatarURL,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, &v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating videos: %w", err)
	}

	return videos, nil
}

// Compile-time verification that VideoRepository implements repository.VideoRepository.
var _ repository.VideoRepository = (*VideoRepository)(nil)
