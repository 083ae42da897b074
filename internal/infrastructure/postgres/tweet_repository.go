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

// TweetRepository implements repository.TweetRepository using PostgreSQL.
type TweetRepository struct {
	db DBTX
}

// NewTweetRepository creates a new TweetRepository instance.
func NewTweetRepository(db DBTX) *TweetRepository {
	return &TweetRepository{db: db}
}

const tweetOwnerColumns = `
	t.id, t.owner_id, t.content, t.created_at, t.updated_at,
	u.id, u.username, u.email, u.avatar_url`

// Create persists a new tweet.
func (r *TweetRepository) Create(ctx context.Context, tweet *model.Tweet) error {
	const query = `
		INSERT INTO tweets (id, owner_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query, tweet.ID, tweet.OwnerID, tweet.Content, tweet.CreatedAt, tweet.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create tweet: %w", err)
	}

	return nil
}

// GetByID retrieves a tweet joined with its owner profile.
func (r *TweetRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.TweetWithOwner, error) {
	query := `
		SELECT ` + tweetOwnerColumns + `
		FROM tweets t
		JOIN users u ON u.id = t.owner_id
		WHERE t.id = $1
	`

	var t model.TweetWithOwner
	err := r.db.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.OwnerID, &t.Content, &t.CreatedAt, &t.UpdatedAt,
		&t.Owner.ID, &t.Owner.Username, &t.Owner.Email, &t.Owner.AvatarURL,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrTweetNotFound
		}
		return nil, fmt.Errorf("failed to get tweet by ID: %w", err)
	}

	return &t, nil
}

// ListAll returns a page of tweets joined with owner profiles, newest first.
func (r *TweetRepository) ListAll(ctx context.Context, page, limit int) ([]*model.TweetWithOwner, error) {
	query := `
		SELECT ` + tweetOwnerColumns + `
		FROM tweets t
		JOIN users u ON u.id = t.owner_id
		ORDER BY t.created_at DESC, t.id ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query tweets: %w", err)
	}
	defer rows.Close()

	return collectTweetsWithOwner(rows)
}

// ListByOwner returns all tweets by ownerID joined with the owner profile,
// newest first.
func (r *TweetRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.TweetWithOwner, error) {
	query := `
		SELECT ` + tweetOwnerColumns + `
		FROM tweets t
		JOIN users u ON u.id = t.owner_id
		WHERE t.owner_id = $1
		ORDER BY t.created_at DESC, t.id ASC
	`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tweets by owner: %w", err)
	}
	defer rows.Close()

	return collectTweetsWithOwner(rows)
}

// UpdateContent replaces the tweet content.
func (r *TweetRepository) UpdateContent(ctx context.Context, id uuid.UUID, content string) error {
	const query = `
		UPDATE tweets
		SET content = $2, updated_at = $3
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, id, content, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update tweet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrTweetNotFound
	}

	return nil
}

// Delete removes a tweet.
func (r *TweetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM tweets WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete tweet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrTweetNotFound
	}

	return nil
}

func collectTweetsWithOwner(rows pgx.Rows) ([]*model.TweetWithOwner, error) {
	var tweets []*model.TweetWithOwner
	for rows.Next() {
		var t model.TweetWithOwner
		err := rows.Scan(
			&t.ID, &t.OwnerID, &t.Content, &t.CreatedAt, &t.UpdatedAt,
			&t.Owner.ID, &t.Owner.Username, &t.Owner.Email, &t.Owner.AvatarURL,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tweet: %w", err)
		}
		tweets = append(tweets, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tweets: %w", err)
	}

	return tweets, nil
}

// Compile-time verification that TweetRepository implements repository.TweetRepository.
var _ repository.TweetRepository = (*TweetRepository)(nil)
