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

// PlaylistRepository implements repository.PlaylistRepository using PostgreSQL.
type PlaylistRepository struct {
	db DBTX
}

// NewPlaylistRepository creates a new PlaylistRepository instance.
func NewPlaylistRepository(db DBTX) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// Create persists a new playlist.
func (r *PlaylistRepository) Create(ctx context.Context, playlist *model.Playlist) error {
	const query = `
		INSERT INTO playlists (id, owner_id, name, description, video_ids, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		playlist.ID, playlist.OwnerID, playlist.Name, playlist.Description,
		playlist.VideoIDs, playlist.CreatedAt, playlist.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}

	return nil
}

// GetByID retrieves a playlist by id.
func (r *PlaylistRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Playlist, error) {
	const query = `
		SELECT id, owner_id, name, description, video_ids, created_at, updated_at
		FROM playlists
		WHERE id = $1
	`

	p, err := scanPlaylist(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrPlaylistNotFound
		}
		return nil, fmt.Errorf("failed to get playlist by ID: %w", err)
	}

	return p, nil
}

// ListByOwner returns all playlists owned by ownerID, newest first.
func (r *PlaylistRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Playlist, error) {
	const query = `
		SELECT id, owner_id, name, description, video_ids, created_at, updated_at
		FROM playlists
		WHERE owner_id = $1
		ORDER BY created_at DESC, id ASC
	`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	var playlists []*model.Playlist
	for rows.Next() {
		p, err := scanPlaylistFromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan playlist: %w", err)
		}
		playlists = append(playlists, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating playlists: %w", err)
	}

	return playlists, nil
}

// Update persists name, description and video ids.
func (r *PlaylistRepository) Update(ctx context.Context, playlist *model.Playlist) error {
	const query = `
		UPDATE playlists
		SET name = $2, description = $3, video_ids = $4, updated_at = $5
		WHERE id = $1
	`

	playlist.UpdatedAt = time.Now()

	tag, err := r.db.Exec(ctx, query,
		playlist.ID, playlist.Name, playlist.Description, playlist.VideoIDs, playlist.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update playlist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrPlaylistNotFound
	}

	return nil
}

// Delete removes a playlist.
func (r *PlaylistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM playlists WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrPlaylistNotFound
	}

	return nil
}

func scanPlaylist(row pgx.Row) (*model.Playlist, error) {
	var p model.Playlist
	err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.VideoIDs, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanPlaylistFromRows(rows pgx.Rows) (*model.Playlist, error) {
	var p model.Playlist
	err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.VideoIDs, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Compile-time verification that PlaylistRepository implements repository.PlaylistRepository.
var _ repository.PlaylistRepository = (*PlaylistRepository)(nil)
