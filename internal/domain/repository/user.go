package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/takumi-dev/cliptube/internal/domain/model"
)

// UserRepository defines persistence operations for users.
// The refresh-token slot is the only mutable shared state on a user row that
// races across requests, so it gets dedicated conditional operations instead
// of a generic update.
type UserRepository interface {
	// Create persists a new user.
	// Returns ErrDuplicateUser if the username or email is already taken.
	Create(ctx context.Context, user *model.User) error

	// GetByID retrieves a user by id.
	// Returns ErrUserNotFound if no such user exists.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// GetByUsername retrieves a user by lowercase username.
	GetByUsername(ctx context.Context, username string) (*model.User, error)

	// GetProfiles retrieves public profiles for the given ids.
	// Missing ids are silently omitted from the result.
	GetProfiles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.PublicProfile, error)

	// UpdateProfile updates the mutable profile fields.
	UpdateProfile(ctx context.Context, user *model.User) error

	// UpdatePasswordHash replaces the stored credential hash.
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error

	// SetRefreshToken unconditionally overwrites the stored refresh token.
	// An empty token clears the slot (logout).
	SetRefreshToken(ctx context.Context, id uuid.UUID, token string) error

	// RotateRefreshToken replaces the stored refresh token only if it still
	// equals current. Returns ErrRefreshTokenMismatch when the compare fails,
	// which is the rotation staleness guard.
	RotateRefreshToken(ctx context.Context, id uuid.UUID, current, next string) error

	// AppendWatchHistory appends videoID to the user's watch history,
	// most-recent last.
	AppendWatchHistory(ctx context.Context, id uuid.UUID, videoID uuid.UUID) error
}
