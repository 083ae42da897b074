package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"

	"github.com/takumi-dev/cliptube/internal/domain/model"
	"github.com/takumi-dev/cliptube/internal/domain/repository"
)

// MediaUpload carries one uploaded file through the usecase layer.
type MediaUpload struct {
	Reader      io.Reader
	Size        int64
	ContentType string
}

// RegisterInput holds the parameters for registering a user. Avatar and
// Cover are optional.
type RegisterInput struct {
	Username string
	Email    string
	FullName string
	Password string
	Avatar   *MediaUpload
	Cover    *MediaUpload
}

// LoginInput holds the credentials presented at login.
type LoginInput struct {
	Username string
	Password string
}

// UpdateProfileInput holds the mutable profile fields. Nil pointers leave
// the current value unchanged.
type UpdateProfileInput struct {
	FullName *string
	Email    *string
	Avatar   *MediaUpload
	Cover    *MediaUpload
}

// AuthOutput pairs a user with a freshly issued token pair.
type AuthOutput struct {
	User   *model.User
	Tokens *TokenPair
}

// UserService manages accounts, sessions and the per-user watch history.
type UserService interface {
	// Register creates an account, uploads any provided media, and issues a
	// session.
	Register(ctx context.Context, input RegisterInput) (*AuthOutput, error)

	// Login verifies credentials and issues a session. A login on a second
	// device displaces the previous session's refresh token.
	Login(ctx context.Context, input LoginInput) (*AuthOutput, error)

	// Refresh exchanges a refresh token for a fresh pair.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)

	// Logout revokes the user's session.
	Logout(ctx context.Context, userID uuid.UUID) error

	// Get retrieves a user by id.
	Get(ctx context.Context, userID uuid.UUID) (*model.User, error)

	// UpdateProfile applies the provided profile changes.
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*model.User, error)

	// ChangePassword verifies the old password and replaces it.
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error

	// RecordWatch appends the video to the user's watch history.
	RecordWatch(ctx context.Context, userID, videoID uuid.UUID) error

	// WatchHistory returns the user's watched videos, most recent last,
	// joined with owner profiles. Deleted videos are skipped.
	WatchHistory(ctx context.Context, userID uuid.UUID) ([]*model.VideoWithOwner, error)
}

type userService struct {
	users   repository.UserRepository
	videos  repository.VideoRepository
	storage repository.MediaStorage
	tokens  TokenService
}

// NewUserService creates a new UserService instance.
func NewUserService(
	users repository.UserRepository,
	videos repository.VideoRepository,
	storage repository.MediaStorage,
	tokens TokenService,
) UserService {
	return &userService{
		users:   users,
		videos:  videos,
		storage: storage,
		tokens:  tokens,
	}
}

// Register creates the account and issues the first session.
func (s *userService) Register(ctx context.Context, input RegisterInput) (*AuthOutput, error) {
	if err := model.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	user, err := model.NewUser(input.Username, input.Email, input.FullName)
	if err != nil {
		return nil, err
	}

	user.PasswordHash, err = HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	if input.Avatar != nil {
		user.AvatarURL, err = s.uploadMedia(ctx, user.ID, "avatar", input.Avatar)
		if err != nil {
			return nil, err
		}
	}
	if input.Cover != nil {
		user.CoverURL, err = s.uploadMedia(ctx, user.ID, "cover", input.Cover)
		if err != nil {
			return nil, err
		}
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	tokens, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.RefreshToken = tokens.RefreshToken

	return &AuthOutput{User: user, Tokens: tokens}, nil
}

// Login verifies credentials against the stored hash. A wrong username and a
// wrong password produce the same error so the response does not leak which
// accounts exist.
func (s *userService) Login(ctx context.Context, input LoginInput) (*AuthOutput, error) {
	user, err := s.users.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !VerifyPassword(user.PasswordHash, input.Password) {
		return nil, ErrInvalidCredentials
	}

	tokens, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.RefreshToken = tokens.RefreshToken

	return &AuthOutput{User: user, Tokens: tokens}, nil
}

func (s *userService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	return s.tokens.Rotate(ctx, refreshToken)
}

func (s *userService) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.tokens.Revoke(ctx, userID)
}

func (s *userService) Get(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfile loads the user, applies the provided changes, and persists.
func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		if *input.FullName == "" {
			return nil, model.ErrEmptyFullName
		}
		user.FullName = *input.FullName
	}
	if input.Email != nil {
		if *input.Email == "" {
			return nil, model.ErrEmptyEmail
		}
		user.Email = *input.Email
	}
	if input.Avatar != nil {
		user.AvatarURL, err = s.uploadMedia(ctx, user.ID, "avatar", input.Avatar)
		if err != nil {
			return nil, err
		}
	}
	if input.Cover != nil {
		user.CoverURL, err = s.uploadMedia(ctx, user.ID, "cover", input.Cover)
		if err != nil {
			return nil, err
		}
	}

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *userService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	if err := model.ValidatePassword(newPassword); err != nil {
		return err
	}
	return s.tokens.ChangePassword(ctx, userID, oldPassword, newPassword)
}

// RecordWatch appends to the history. Repeat watches append again; the
// history is a log, not a set.
func (s *userService) RecordWatch(ctx context.Context, userID, videoID uuid.UUID) error {
	return s.users.AppendWatchHistory(ctx, userID, videoID)
}

// WatchHistory joins the stored id log against current video rows,
// preserving watch order. Ids whose video has been deleted drop out.
func (s *userService) WatchHistory(ctx context.Context, userID uuid.UUID) ([]*model.VideoWithOwner, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.videos.ListByIDs(ctx, user.WatchHistory)
}

// uploadMedia stores one profile asset under a per-user key and returns its
// public URL.
func (s *userService) uploadMedia(ctx context.Context, userID uuid.UUID, slot string, upload *MediaUpload) (string, error) {
	key := path.Join("users", userID.String(), slot)
	url, err := s.storage.Upload(ctx, key, upload.Reader, upload.Size, upload.ContentType)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", slot, err)
	}
	return url, nil
}
