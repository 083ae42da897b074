package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/takumi-dev/cliptube/internal/domain/model"
	"github.com/takumi-dev/cliptube/internal/domain/repository"
)

// SubscriptionRepository implements repository.SubscriptionRepository using
// PostgreSQL. Edge uniqueness is enforced by the primary key on
// (subscriber_id, channel_id).
type SubscriptionRepository struct {
	db DBTX
}

// NewSubscriptionRepository creates a new SubscriptionRepository instance.
func NewSubscriptionRepository(db DBTX) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Toggle flips the subscription edge with the same conditional-insert-then-
// delete pattern as likes; see LikeRepository.Toggle for the race semantics.
func (r *SubscriptionRepository) Toggle(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error) {
	const insert = `
		INSERT INTO subscriptions (subscriber_id, channel_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (subscriber_id, channel_id) DO NOTHING
	`

	tag, err := r.db.Exec(ctx, insert, subscriberID, channelID, time.Now())
	if err != nil {
		return false, fmt.Errorf("failed to insert subscription: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}

	const del = `
		DELETE FROM subscriptions
		WHERE subscriber_id = $1 AND channel_id = $2
	`

	if _, err := r.db.Exec(ctx, del, subscriberID, channelID); err != nil {
		return false, fmt.Errorf("failed to delete subscription: %w", err)
	}

	return false, nil
}

// Exists reports whether subscriberID is subscribed to channelID.
func (r *SubscriptionRepository) Exists(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM subscriptions
			WHERE subscriber_id = $1 AND channel_id = $2
		)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, subscriberID, channelID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check subscription existence: %w", err)
	}

	return exists, nil
}

// CountSubscribers returns the number of subscribers of channelID.
func (r *SubscriptionRepository) CountSubscribers(ctx context.Context, channelID uuid.UUID) (int64, error) {
	const query = `SELECT COUNT(*) FROM subscriptions WHERE channel_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, channelID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count subscribers: %w", err)
	}

	return count, nil
}

// ListSubscribers returns the public profiles of the channel's subscribers.
func (r *SubscriptionRepository) ListSubscribers(ctx context.Context, channelID uuid.UUID) ([]model.PublicProfile, error) {
	const query = `
		SELECT u.id, u.username, u.email, u.avatar_url
		FROM subscriptions s
		JOIN users u ON u.id = s.subscriber_id
		WHERE s.channel_id = $1
		ORDER BY s.created_at DESC, u.id ASC
	`

	return r.listProfiles(ctx, query, channelID)
}

// ListSubscribedChannels returns the public profiles of the channels the
// subscriber follows.
func (r *SubscriptionRepository) ListSubscribedChannels(ctx context.Context, subscriberID uuid.UUID) ([]model.PublicProfile, error) {
	const query = `
		SELECT u.id, u.username, u.email, u.avatar_url
		FROM subscriptions s
		JOIN users u ON u.id = s.channel_id
		WHERE s.subscriber_id = $1
		ORDER BY s.created_at DESC, u.id ASC
	`

	return r.listProfiles(ctx, query, subscriberID)
}

func (r *SubscriptionRepository) listProfiles(ctx context.Context, query string, arg any) ([]model.PublicProfile, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	var profiles []model.PublicProfile
	for rows.Next() {
		var p model.PublicProfile
		if err := rows.Scan(&p.ID, &p.Username, &p.Email, &p.AvatarURL); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profiles: %w", err)
	}

	return profiles, nil
}

// Compile-time verification that SubscriptionRepository implements repository.SubscriptionRepository.
var _ repository.SubscriptionRepository = (*SubscriptionRepository)(nil)
