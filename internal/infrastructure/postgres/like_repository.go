package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/takumi-dev/cliptube/internal/domain/model"
	"github.com/takumi-dev/cliptube/internal/domain/repository"
)

// LikeRepository implements repository.LikeRepository using PostgreSQL.
// Edge uniqueness is enforced by the primary key on
// (user_id, target_kind, target_id).
type LikeRepository struct {
	db DBTX
}

// NewLikeRepository creates a new LikeRepository instance.
func NewLikeRepository(db DBTX) *LikeRepository {
	return &LikeRepository{db: db}
}

// Toggle flips the like edge atomically. The insert leg relies on the unique
// constraint (ON CONFLICT DO NOTHING), so two concurrent toggles can never
// both create the edge. When the insert is a no-op the edge existed and is
// deleted instead; a zero-row delete means a concurrent toggle already
// removed it, which still converges on the absent state.
func (r *LikeRepository) Toggle(ctx context.Context, userID uuid.UUID, kind model.TargetKind, targetID uuid.UUID) (bool, error) {
	const insert = `
		INSERT INTO likes (user_id, target_kind, target_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, target_kind, target_id) DO NOTHING
	`

	tag, err := r.db.Exec(ctx, insert, userID, kind.String(), targetID, time.Now())
	if err != nil {
		return false, fmt.Errorf("failed to insert like: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}

	const del = `
		DELETE FROM likes
		WHERE user_id = $1 AND target_kind = $2 AND target_id = $3
	`

	if _, err := r.db.Exec(ctx, del, userID, kind.String(), targetID); err != nil {
		return false, fmt.Errorf("failed to delete like: %w", err)
	}

	return false, nil
}

// Exists reports whether the like edge is present.
func (r *LikeRepository) Exists(ctx context.Context, userID uuid.UUID, kind model.TargetKind, targetID uuid.UUID) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM likes
			WHERE user_id = $1 AND target_kind = $2 AND target_id = $3
		)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, userID, kind.String(), targetID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check like existence: %w", err)
	}

	return exists, nil
}

// Count returns the edge-set cardinality for the target. There is no
// persisted counter to drift out of sync.
func (r *LikeRepository) Count(ctx context.Context, kind model.TargetKind, targetID uuid.UUID) (int64, error) {
	const query = `
		SELECT COUNT(*) FROM likes
		WHERE target_kind = $1 AND target_id = $2
	`

	var count int64
	if err := r.db.QueryRow(ctx, query, kind.String(), targetID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}

	return count, nil
}

// CountForVideos returns the total like count across the given video ids.
func (r *LikeRepository) CountForVideos(ctx context.Context, videoIDs []uuid.UUID) (int64, error) {
	const query = `
		SELECT COUNT(*) FROM likes
		WHERE target_kind = 'video' AND target_id = ANY($1)
	`

	var count int64
	if err := r.db.QueryRow(ctx, query, videoIDs).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count video likes: %w", err)
	}

	return count, nil
}

// ListLikedVideoIDs returns the ids of videos the user has liked, most
// recently liked first.
func (r *LikeRepository) ListLikedVideoIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	const query = `
		SELECT target_id FROM likes
		WHERE user_id = $1 AND target_kind = 'video'
		ORDER BY created_at DESC, target_id ASC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query liked videos: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan liked video id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating liked videos: %w", err)
	}

	return ids, nil
}

// TopLikedTweets groups like edges by target tweet and returns up to limit
// tweets joined with their owner profiles, ordered by like count descending
// with (created_at DESC, id ASC) as the deterministic tie-break.
func (r *LikeRepository) TopLikedTweets(ctx context.Context, limit int) ([]model.RankedTweet, error) {
	const query = `
		SELECT t.id, t.owner_id, t.content, t.created_at, t.updated_at,
		       u.id, u.username, u.email, u.avatar_url,
		       COUNT(*) AS like_count
		FROM likes l
		JOIN tweets t ON t.id = l.target_id AND l.target_kind = 'tweet'
		JOIN users u ON u.id = t.owner_id
		GROUP BY t.id, t.owner_id, t.content, t.created_at, t.updated_at,
		         u.id, u.username, u.email, u.avatar_url
		ORDER BY like_count DESC, t.created_at DESC, t.id ASC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top liked tweets: %w", err)
	}
	defer rows.Close()

	var ranked []model.RankedTweet
	for rows.Next() {
		var (
			tweet model.TweetWithOwner
			count int64
		)
		err := rows.Scan(
			&tweet.ID,
			&tweet.OwnerID,
			&tweet.Content,
			&tweet.CreatedAt,
			&tweet.UpdatedAt,
			&tweet.Owner.ID,
			&tweet.Owner.Username,
			&tweet.Owner.Email,
			&tweet.Owner.AvatarURL,
			&count,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ranked tweet: %w", err)
		}
		ranked = append(ranked, model.RankedTweet{Tweet: &tweet, LikeCount: count})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ranked tweets: %w", err)
	}

	return ranked, nil
}

// Compile-time verification that LikeRepository implements repository.LikeRepository.
var _ repository.LikeRepository = (*LikeRepository)(nil)
