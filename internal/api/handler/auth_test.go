package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/takumi-dev/cliptube/internal/domain/model"
	"github.com/takumi-dev/cliptube/internal/usecase"
)

// Mock UserService

type mockUserService struct {
	registerFn       func(ctx context.Context, input usecase.RegisterInput) (*usecase.AuthOutput, error)
	loginFn          func(ctx context.Context, input usecase.LoginInput) (*usecase.AuthOutput, error)
	refreshFn        func(ctx context.Context, refreshToken string) (*usecase.TokenPair, error)
	logoutFn         func(ctx context.Context, userID uuid.UUID) error
	getFn            func(ctx context.Context, userID uuid.UUID) (*model.User, error)
	updateProfileFn  func(ctx context.Context, userID uuid.UUID, input usecase.UpdateProfileInput) (*model.User, error)
	changePasswordFn func(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error
	recordWatchFn    func(ctx context.Context, userID, videoID uuid.UUID) error
	watchHistoryFn   func(ctx context.Context, userID uuid.UUID) ([]*model.VideoWithOwner, error)
}

func (m *mockUserService) Register(ctx context.Context, input usecase.RegisterInput) (*usecase.AuthOutput, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, input)
	}
	return nil, nil
}

func (m *mockUserService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.AuthOutput, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, input)
	}
	return nil, nil
}

func (m *mockUserService) Refresh(ctx context.Context, refreshToken string) (*usecase.TokenPair, error) {
	if m.refreshFn != nil {
		return m.refreshFn(ctx, refreshToken)
	}
	return nil, nil
}

func (m *mockUserService) Logout(ctx context.Context, userID uuid.UUID) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx, userID)
	}
	return nil
}

func (m *mockUserService) Get(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockUserService) UpdateProfile(ctx context.Context, userID uuid.UUID, input usecase.UpdateProfileInput) (*model.User, error) {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, userID, input)
	}
	return nil, nil
}

func (m *mockUserService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	if m.changePasswordFn != nil {
		return m.changePasswordFn(ctx, userID, oldPassword, newPassword)
	}
	return nil
}

func (m *mockUserService) RecordWatch(ctx context.Context, userID, videoID uuid.UUID) error {
	if m.recordWatchFn != nil {
		return m.recordWatchFn(ctx, userID, videoID)
	}
	return nil
}

func (m *mockUserService) WatchHistory(ctx context.Context, userID uuid.UUID) ([]*model.VideoWithOwner, error) {
	if m.watchHistoryFn != nil {
		return m.watchHistoryFn(ctx, userID)
	}
	return nil, nil
}

func testTokenPair() *usecase.TokenPair {
	return &usecase.TokenPair{
		AccessToken:      "access-token",
		RefreshToken:     "refresh-token",
		AccessExpiresAt:  time.Now().Add(15 * time.Minute),
		RefreshExpiresAt: time.Now().Add(7 * 24 * time.Hour),
	}
}

func TestAuthHandler_Login(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(m *mockUserService)
		wantStatusCode int
		wantErrorCode  string
		checkResponse  func(t *testing.T, body []byte)
	}{
		{
			name:        "successful login",
			requestBody: LoginRequest{Username: "alice", Password: "Str0ngPass!"},
			setupMock: func(m *mockUserService) {
				m.loginFn = func(ctx context.Context, input usecase.LoginInput) (*usecase.AuthOutput, error) {
					if input.Username != "alice" {
						t.Errorf("username = %q, want alice", input.Username)
					}
					return &usecase.AuthOutput{
						User: &model.User{
							ID:       userID,
							Username: "alice",
							Email:    "alice@example.com",
						},
						Tokens: testTokenPair(),
					}, nil
				}
			},
			wantStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, body []byte) {
				var resp AuthResponse
				if err := json.Unmarshal(body, &resp); err != nil {
					t.Fatalf("failed to unmarshal response: %v", err)
				}
				if resp.User.ID != userID.String() {
					t.Errorf("user id = %q, want %q", resp.User.ID, userID)
				}
				if resp.Tokens.AccessToken == "" || resp.Tokens.RefreshToken == "" {
					t.Error("expected both tokens to be non-empty")
				}
			},
		},
		{
			name:        "wrong password",
			requestBody: LoginRequest{Username: "alice", Password: "wrong"},
			setupMock: func(m *mockUserService) {
				m.loginFn = func(ctx context.Context, input usecase.LoginInput) (*usecase.AuthOutput, error) {
					return nil, usecase.ErrInvalidCredentials
				}
			},
			wantStatusCode: http.StatusUnauthorized,
			wantErrorCode:  "invalid_credentials",
		},
		{
			name:           "invalid JSON body",
			requestBody:    "not json",
			setupMock:      func(m *mockUserService) {},
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockUserService{}
			tt.setupMock(mock)
			h := NewAuthHandler(mock)

			var body []byte
			switch v := tt.requestBody.(type) {
			case string:
				body = []byte(v)
			default:
				var err error
				body, err = json.Marshal(v)
				if err != nil {
					t.Fatalf("failed to marshal request body: %v", err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			h.Login(rec, req)

			if rec.Code != tt.wantStatusCode {
				t.Errorf("expected status %d, got %d", tt.wantStatusCode, rec.Code)
			}

			if tt.wantErrorCode != "" {
				var resp ErrorResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("failed to unmarshal error response: %v", err)
				}
				if resp.Error != tt.wantErrorCode {
					t.Errorf("error code = %q, want %q", resp.Error, tt.wantErrorCode)
				}
			}

			if tt.checkResponse != nil {
				tt.checkResponse(t, rec.Body.Bytes())
			}
		})
	}
}

func TestAuthHandler_Refresh(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(m *mockUserService)
		wantStatusCode int
		wantErrorCode  string
	}{
		{
			name:        "successful rotation",
			requestBody: RefreshRequest{RefreshToken: "refresh-token"},
			setupMock: func(m *mockUserService) {
				m.refreshFn = func(ctx context.Context, refreshToken string) (*usecase.TokenPair, error) {
					return testTokenPair(), nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:        "replayed token",
			requestBody: RefreshRequest{RefreshToken: "stale-token"},
			setupMock: func(m *mockUserService) {
				m.refreshFn = func(ctx context.Context, refreshToken string) (*usecase.TokenPair, error) {
					return nil, usecase.ErrSessionInvalidated
				}
			},
			wantStatusCode: http.StatusUnauthorized,
			wantErrorCode:  "session_invalidated",
		},
		{
			name:        "garbage token",
			requestBody: RefreshRequest{RefreshToken: "garbage"},
			setupMock: func(m *mockUserService) {
				m.refreshFn = func(ctx context.Context, refreshToken string) (*usecase.TokenPair, error) {
					return nil, usecase.ErrUnauthenticated
				}
			},
			wantStatusCode: http.StatusUnauthorized,
			wantErrorCode:  "unauthenticated",
		},
		{
			name:           "invalid JSON body",
			requestBody:    "not json",
			setupMock:      func(m *mockUserService) {},
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockUserService{}
			tt.setupMock(mock)
			h := NewAuthHandler(mock)

			var body []byte
			switch v := tt.requestBody.(type) {
			case string:
				body = []byte(v)
			default:
				var err error
				body, err = json.Marshal(v)
				if err != nil {
					t.Fatalf("failed to marshal request body: %v", err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/v1/auth/refresh", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			h.Refresh(rec, req)

			if rec.Code != tt.wantStatusCode {
				t.Errorf("expected status %d, got %d", tt.wantStatusCode, rec.Code)
			}

			if tt.wantErrorCode != "" {
				var resp ErrorResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("failed to unmarshal error response: %v", err)
				}
				if resp.Error != tt.wantErrorCode {
					t.Errorf("error code = %q, want %q", resp.Error, tt.wantErrorCode)
				}
			}
		})
	}
}
