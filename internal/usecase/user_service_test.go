package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/takumi-dev/cliptube/internal/domain/model"
	"github.com/takumi-dev/cliptube/internal/domain/repository"
)

func newTestUserService(users *mockUserRepository, videos *mockVideoRepository, storage *mockMediaStorage) UserService {
	return NewUserService(users, videos, storage, NewTokenService(users, testTokenConfig()))
}

func TestUserService_Register(t *testing.T) {
	tests := []struct {
		name      string
		input     RegisterInput
		setupMock func(users *mockUserRepository, storage *mockMediaStorage)
		wantErr   error
		checkFn   func(t *testing.T, output *AuthOutput)
	}{
		{
			name: "successful registration",
			input: RegisterInput{
				Username: "Taro",
				Email:    "taro@example.com",
				FullName: "Taro Yamada",
				Password: "secret-pass",
			},
			setupMock: func(users *mockUserRepository, storage *mockMediaStorage) {},
			checkFn: func(t *testing.T, output *AuthOutput) {
				if output.User.Username != "taro" {
					t.Errorf("username must be stored lowercase, got %q", output.User.Username)
				}
				if output.User.PasswordHash == "" || output.User.PasswordHash == "secret-pass" {
					t.Error("password must be hashed")
				}
				if output.Tokens.AccessToken == "" || output.Tokens.RefreshToken == "" {
					t.Error("registration must issue a token pair")
				}
			},
		},
		{
			name: "registration with avatar",
			input: RegisterInput{
				Username: "hana",
				Email:    "hana@example.com",
				FullName: "Hana Sato",
				Password: "secret-pass",
				Avatar:   &MediaUpload{Reader: strings.NewReader("png"), Size: 3, ContentType: "image/png"},
			},
			setupMock: func(users *mockUserRepository, storage *mockMediaStorage) {
				storage.uploadFn = func(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
					if !strings.Contains(key, "avatar") {
						t.Errorf("unexpected upload key: %s", key)
					}
					return "http://example.com/media/" + key, nil
				}
			},
			checkFn: func(t *testing.T, output *AuthOutput) {
				if output.User.AvatarURL == "" {
					t.Error("expected avatar URL to be set")
				}
			},
		},
		{
			name: "weak password",
			input: RegisterInput{
				Username: "taro",
				Email:    "taro@example.com",
				FullName: "Taro Yamada",
				Password: "short",
			},
			setupMock: func(users *mockUserRepository, storage *mockMediaStorage) {},
			wantErr:   model.ErrWeakPassword,
		},
		{
			name: "invalid email",
			input: RegisterInput{
				Username: "taro",
				Email:    "not-an-email",
				FullName: "Taro Yamada",
				Password: "secret-pass",
			},
			setupMock: func(users *mockUserRepository, storage *mockMediaStorage) {},
			wantErr:   model.ErrInvalidEmail,
		},
		{
			name: "duplicate user",
			input: RegisterInput{
				Username: "taro",
				Email:    "taro@example.com",
				FullName: "Taro Yamada",
				Password: "secret-pass",
			},
			setupMock: func(users *mockUserRepository, storage *mockMediaStorage) {
				users.createFn = func(ctx context.Context, user *model.User) error {
					return repository.ErrDuplicateUser
				}
			},
			wantErr: repository.ErrDuplicateUser,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &mockUserRepository{}
			storage := &mockMediaStorage{}
			tt.setupMock(users, storage)

			svc := newTestUserService(users, &mockVideoRepository{}, storage)

			output, err := svc.Register(context.Background(), tt.input)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.checkFn != nil {
				tt.checkFn(t, output)
			}
		})
	}
}

func TestUserService_Login(t *testing.T) {
	hash, err := HashPassword("correct-pass")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := &model.User{
		ID:           uuid.New(),
		Username:     "taro",
		PasswordHash: hash,
	}

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "successful login", username: "taro", password: "correct-pass"},
		{name: "wrong password", username: "taro", password: "wrong-pass", wantErr: ErrInvalidCredentials},
		{name: "unknown user", username: "nobody", password: "correct-pass", wantErr: ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &mockUserRepository{
				getByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
					if username != stored.Username {
						return nil, repository.ErrUserNotFound
					}
					return stored, nil
				},
			}

			svc := newTestUserService(users, &mockVideoRepository{}, &mockMediaStorage{})

			output, err := svc.Login(context.Background(), LoginInput{Username: tt.username, Password: tt.password})

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if output.Tokens.AccessToken == "" {
				t.Error("login must issue an access token")
			}
		})
	}
}

func TestUserService_WatchHistory(t *testing.T) {
	userID := uuid.New()
	history := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	users := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*model.User, error) {
			return &model.User{ID: userID, WatchHistory: history}, nil
		},
	}
	videos := &mockVideoRepository{
		listByIDsFn: func(ctx context.Context, ids []uuid.UUID) ([]*model.VideoWithOwner, error) {
			// The middle video has been deleted; it is simply absent.
			return []*model.VideoWithOwner{
				{Video: model.Video{ID: ids[0]}},
				{Video: model.Video{ID: ids[2]}},
			}, nil
		},
	}

	svc := newTestUserService(users, videos, &mockMediaStorage{})

	got, err := svc.WatchHistory(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 videos, got %d", len(got))
	}
	if got[0].ID != history[0] || got[1].ID != history[2] {
		t.Error("watch order must be preserved with deleted videos skipped")
	}
}

func TestUserService_RecordWatch(t *testing.T) {
	userID := uuid.New()
	videoID := uuid.New()

	appended := false
	users := &mockUserRepository{
		appendWatchHistoryFn: func(ctx context.Context, id uuid.UUID, vID uuid.UUID) error {
			appended = true
			if id != userID || vID != videoID {
				t.Errorf("unexpected append args: %s %s", id, vID)
			}
			return nil
		},
	}

	svc := newTestUserService(users, &mockVideoRepository{}, &mockMediaStorage{})

	if err := svc.RecordWatch(context.Background(), userID, videoID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !appended {
		t.Error("expected watch history append")
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	userID := uuid.New()

	users := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*model.User, error) {
			return &model.User{ID: userID, FullName: "Old Name", Email: "old@example.com"}, nil
		},
	}

	svc := newTestUserService(users, &mockVideoRepository{}, &mockMediaStorage{})

	newName := "New Name"
	user, err := svc.UpdateProfile(context.Background(), userID, UpdateProfileInput{FullName: &newName})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.FullName != newName {
		t.Errorf("expected full name %q, got %q", newName, user.FullName)
	}
	if user.Email != "old@example.com" {
		t.Error("unset fields must keep their current value")
	}

	empty := ""
	if _, err := svc.UpdateProfile(context.Background(), userID, UpdateProfileInput{FullName: &empty}); !errors.Is(err, model.ErrEmptyFullName) {
		t.Fatalf("expected ErrEmptyFullName, got %v", err)
	}
}
