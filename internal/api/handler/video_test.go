package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/takumi-dev/cliptube/internal/api/middleware"
	"github.com/takumi-dev/cliptube/internal/domain/model"
	"github.com/takumi-dev/cliptube/internal/domain/repository"
	"github.com/takumi-dev/cliptube/internal/usecase"
)

// Mock VideoService

type mockVideoService struct {
	publishFn       func(ctx context.Context, input usecase.PublishVideoInput) (*model.Video, error)
	getFn           func(ctx context.Context, videoID, viewerID uuid.UUID) (*model.VideoWithOwner, error)
	listFn          func(ctx context.Context, input usecase.ListVideosInput) (*usecase.VideoPage, error)
	listByOwnerFn   func(ctx context.Context, ownerID uuid.UUID) ([]*model.Video, error)
	trendingFn      func(ctx context.Context) ([]*model.VideoWithOwner, error)
	updateFn        func(ctx context.Context, videoID, callerID uuid.UUID, input usecase.UpdateVideoInput) (*model.Video, error)
	togglePublishFn func(ctx context.Context, videoID, callerID uuid.UUID) (bool, error)
	deleteFn        func(ctx context.Context, videoID, callerID uuid.UUID) error
	downloadFn      func(ctx context.Context, videoID, callerID uuid.UUID) (string, error)
}

func (m *mockVideoService) Publish(ctx context.Context, input usecase.PublishVideoInput) (*model.Video, error) {
	if m.publishFn != nil {
		return m.publishFn(ctx, input)
	}
	return nil, nil
}

func (m *mockVideoService) Get(ctx context.Context, videoID, viewerID uuid.UUID) (*model.VideoWithOwner, error) {
	if m.getFn != nil {
		return m.getFn(ctx, videoID, viewerID)
	}
	return nil, nil
}

func (m *mockVideoService) List(ctx context.Context, input usecase.ListVideosInput) (*usecase.VideoPage, error) {
	if m.listFn != nil {
		return m.listFn(ctx, input)
	}
	return &usecase.VideoPage{}, nil
}

func (m *mockVideoService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Video, error) {
	if m.listByOwnerFn != nil {
		return m.listByOwnerFn(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockVideoService) Trending(ctx context.Context) ([]*model.VideoWithOwner, error) {
	if m.trendingFn != nil {
		return m.trendingFn(ctx)
	}
	return nil, nil
}

func (m *mockVideoService) Update(ctx context.Context, videoID, callerID uuid.UUID, input usecase.UpdateVideoInput) (*model.Video, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, videoID, callerID, input)
	}
	return nil, nil
}

func (m *mockVideoService) TogglePublish(ctx context.Context, videoID, callerID uuid.UUID) (bool, error) {
	if m.togglePublishFn != nil {
		return m.togglePublishFn(ctx, videoID, callerID)
	}
	return false, nil
}

func (m *mockVideoService) Delete(ctx context.Context, videoID, callerID uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, videoID, callerID)
	}
	return nil
}

func (m *mockVideoService) Download(ctx context.Context, videoID, callerID uuid.UUID) (string, error) {
	if m.downloadFn != nil {
		return m.downloadFn(ctx, videoID, callerID)
	}
	return "", nil
}

func testVideoWithOwner(ownerID uuid.UUID) *model.VideoWithOwner {
	now := time.Now()
	return &model.VideoWithOwner{
		Video: model.Video{
			ID:          uuid.New(),
			OwnerID:     ownerID,
			Title:       "test video",
			Description: "desc",
			IsPublished: true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		Owner: model.PublicProfile{ID: ownerID, Username: "alice"},
	}
}

func TestVideoHandler_List(t *testing.T) {
	ownerID := uuid.New()

	mock := &mockVideoService{
		listFn: func(ctx context.Context, input usecase.ListVideosInput) (*usecase.VideoPage, error) {
			if input.Page != 2 || input.Limit != 5 {
				t.Errorf("input = (%d, %d), want (2, 5)", input.Page, input.Limit)
			}
			return &usecase.VideoPage{
				Videos: []*model.VideoWithOwner{testVideoWithOwner(ownerID)},
				Page:   input.Page,
				Limit:  input.Limit,
			}, nil
		},
	}
	h := NewVideoHandler(mock)

	req := httptest.NewRequest(http.MethodGet, "/v1/videos?page=2&limit=5", nil)
	rec := httptest.NewRecorder()

	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var resp VideoListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Page != 2 || resp.Limit != 5 {
		t.Errorf("page echo = (%d, %d), want (2, 5)", resp.Page, resp.Limit)
	}
	if len(resp.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(resp.Items))
	}
	if resp.Items[0].Owner == nil || resp.Items[0].Owner.Username != "alice" {
		t.Errorf("unexpected owner: %+v", resp.Items[0].Owner)
	}
}

func TestVideoHandler_List_InvalidPage(t *testing.T) {
	h := NewVideoHandler(&mockVideoService{})

	req := httptest.NewRequest(http.MethodGet, "/v1/videos?page=abc", nil)
	rec := httptest.NewRecorder()

	h.List(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestVideoHandler_Download(t *testing.T) {
	ownerID := uuid.New()
	videoID := uuid.New()

	tests := []struct {
		name           string
		videoID        string
		setupMock      func(m *mockVideoService)
		wantStatusCode int
		wantURL        string
		wantErrorCode  string
	}{
		{
			name:    "owner gets a signed url",
			videoID: videoID.String(),
			setupMock: func(m *mockVideoService) {
				m.downloadFn = func(ctx context.Context, gotVideo, gotCaller uuid.UUID) (string, error) {
					if gotVideo != videoID || gotCaller != ownerID {
						t.Errorf("args = (%v, %v), want (%v, %v)", gotVideo, gotCaller, videoID, ownerID)
					}
					return "http://storage.local/signed", nil
				}
			},
			wantStatusCode: http.StatusOK,
			wantURL:        "http://storage.local/signed",
		},
		{
			name:    "source object missing",
			videoID: videoID.String(),
			setupMock: func(m *mockVideoService) {
				m.downloadFn = func(ctx context.Context, videoID, callerID uuid.UUID) (string, error) {
					return "", repository.ErrObjectNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
			wantErrorCode:  "object_not_found",
		},
		{
			name:    "not the owner",
			videoID: videoID.String(),
			setupMock: func(m *mockVideoService) {
				m.downloadFn = func(ctx context.Context, videoID, callerID uuid.UUID) (string, error) {
					return "", usecase.ErrForbidden
				}
			},
			wantStatusCode: http.StatusForbidden,
		},
		{
			name:           "invalid video id",
			videoID:        "not-a-uuid",
			setupMock:      func(m *mockVideoService) {},
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockVideoService{}
			tt.setupMock(mock)
			h := NewVideoHandler(mock)

			r := chi.NewRouter()
			r.Get("/v1/videos/{id}/download", h.Download)

			req := httptest.NewRequest(http.MethodGet, "/v1/videos/"+tt.videoID+"/download", nil)
			req = req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, ownerID))
			rec := httptest.NewRecorder()

			r.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatusCode {
				t.Fatalf("expected status %d, got %d", tt.wantStatusCode, rec.Code)
			}

			if tt.wantURL != "" {
				var resp DownloadResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("failed to unmarshal response: %v", err)
				}
				if resp.URL != tt.wantURL {
					t.Errorf("url = %q, want %q", resp.URL, tt.wantURL)
				}
			}

			if tt.wantErrorCode != "" {
				var resp ErrorResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("failed to unmarshal response: %v", err)
				}
				if resp.Error != tt.wantErrorCode {
					t.Errorf("error = %q, want %q", resp.Error, tt.wantErrorCode)
				}
			}
		})
	}
}
