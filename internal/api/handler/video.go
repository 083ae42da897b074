package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/takumi-dev/cliptube/internal/api/middleware"
	"github.com/takumi-dev/cliptube/internal/domain/model"
	"github.com/takumi-dev/cliptube/internal/usecase"
)

const maxVideoFormSize = 1 << 30 // source file plus thumbnail

// Request/Response types

type VideoResponse struct {
	ID           string         `json:"id"`
	Owner        *OwnerResponse `json:"owner,omitempty"`
	OwnerID      string         `json:"owner_id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	VideoURL     string         `json:"video_url,omitempty"`
	ThumbnailURL string         `json:"thumbnail_url,omitempty"`
	Duration     float64        `json:"duration"`
	Views        int64          `json:"views"`
	IsPublished  bool           `json:"is_published"`
	CreatedAt    string         `json:"created_at"`
	UpdatedAt    string         `json:"updated_at"`
}

type OwnerResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type VideoListResponse struct {
	Items []VideoResponse `json:"items"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

type DownloadResponse struct {
	URL string `json:"url"`
}

// VideoHandler handles video-related HTTP requests.
type VideoHandler struct {
	svc usecase.VideoService
}

// NewVideoHandler creates a new VideoHandler.
func NewVideoHandler(svc usecase.VideoService) *VideoHandler {
	return &VideoHandler{svc: svc}
}

// Publish handles POST /v1/videos (multipart form with video and thumbnail
// files).
func (h *VideoHandler) Publish(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxVideoFormSize); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Expected multipart form data")
		return
	}
	defer r.MultipartForm.RemoveAll()

	video, videoCleanup, err := formUpload(r, "video")
	if err != nil || video == nil {
		Error(w, http.StatusBadRequest, "invalid_video_file", "Video file is required")
		return
	}
	defer videoCleanup()

	thumbnail, thumbCleanup, err := formUpload(r, "thumbnail")
	if err != nil || thumbnail == nil {
		Error(w, http.StatusBadRequest, "invalid_thumbnail", "Thumbnail file is required")
		return
	}
	defer thumbCleanup()

	duration, _ := strconv.ParseFloat(r.FormValue("duration"), 64)

	created, err := h.svc.Publish(r.Context(), usecase.PublishVideoInput{
		OwnerID:     middleware.GetUserID(r.Context()),
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Duration:    duration,
		Video:       *video,
		Thumbnail:   *thumbnail,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusCreated, toVideoResponse(created))
}

// Get handles GET /v1/videos/{id}
func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	videoID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_video_id", "Video ID must be a valid UUID")
		return
	}

	video, err := h.svc.Get(r.Context(), videoID, middleware.GetUserID(r.Context()))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toVideoWithOwnerResponse(video))
}

// List handles GET /v1/videos
func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	input := usecase.ListVideosInput{
		Query:     q.Get("query"),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
	}

	var err error
	if input.Page, err = queryInt(q.Get("page")); err != nil {
		Error(w, http.StatusBadRequest, "invalid_page", "Page must be an integer")
		return
	}
	if input.Limit, err = queryInt(q.Get("limit")); err != nil {
		Error(w, http.StatusBadRequest, "invalid_limit", "Limit must be an integer")
		return
	}

	if owner := q.Get("owner_id"); owner != "" {
		input.OwnerID, err = uuid.Parse(owner)
		if err != nil {
			Error(w, http.StatusBadRequest, "invalid_owner_id", "Owner ID must be a valid UUID")
			return
		}
	}

	page, err := h.svc.List(r.Context(), input)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, VideoListResponse{
		Items: toVideoWithOwnerResponses(page.Videos),
		Page:  page.Page,
		Limit: page.Limit,
	})
}

// Trending handles GET /v1/videos/trending
func (h *VideoHandler) Trending(w http.ResponseWriter, r *http.Request) {
	videos, err := h.svc.Trending(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toVideoWithOwnerResponses(videos))
}

// Update handles PATCH /v1/videos/{id} (multipart form, all fields optional).
func (h *VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	videoID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_video_id", "Video ID must be a valid UUID")
		return
	}

	if err := r.ParseMultipartForm(maxRegisterFormSize); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Expected multipart form data")
		return
	}
	defer r.MultipartForm.RemoveAll()

	var input usecase.UpdateVideoInput
	if values, ok := r.MultipartForm.Value["title"]; ok && len(values) > 0 {
		input.Title = &values[0]
	}
	if values, ok := r.MultipartForm.Value["description"]; ok && len(values) > 0 {
		input.Description = &values[0]
	}

	thumbnail, cleanup, err := formUpload(r, "thumbnail")
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_thumbnail", "Could not read thumbnail file")
		return
	}
	defer cleanup()
	input.Thumbnail = thumbnail

	video, err := h.svc.Update(r.Context(), videoID, middleware.GetUserID(r.Context()), input)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toVideoResponse(video))
}

// TogglePublish handles POST /v1/videos/{id}/toggle-publish
func (h *VideoHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	videoID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_video_id", "Video ID must be a valid UUID")
		return
	}

	published, err := h.svc.TogglePublish(r.Context(), videoID, middleware.GetUserID(r.Context()))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, map[string]bool{"is_published": published})
}

// Download handles GET /v1/videos/{id}/download
func (h *VideoHandler) Download(w http.ResponseWriter, r *http.Request) {
	videoID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_video_id", "Video ID must be a valid UUID")
		return
	}

	url, err := h.svc.Download(r.Context(), videoID, middleware.GetUserID(r.Context()))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, DownloadResponse{URL: url})
}

// Delete handles DELETE /v1/videos/{id}
func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	videoID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_video_id", "Video ID must be a valid UUID")
		return
	}

	if err := h.svc.Delete(r.Context(), videoID, middleware.GetUserID(r.Context())); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// queryInt parses an optional integer query parameter; "" maps to 0 so the
// service applies its default.
func queryInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func toVideoResponse(v *model.Video) VideoResponse {
	return VideoResponse{
		ID:           v.ID.String(),
		OwnerID:      v.OwnerID.String(),
		Title:        v.Title,
		Description:  v.Description,
		VideoURL:     v.VideoURL,
		ThumbnailURL: v.ThumbnailURL,
		Duration:     v.Duration,
		Views:        v.Views,
		IsPublished:  v.IsPublished,
		CreatedAt:    v.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    v.UpdatedAt.Format(time.RFC3339),
	}
}

func toVideoWithOwnerResponse(v *model.VideoWithOwner) VideoResponse {
	resp := toVideoResponse(&v.Video)
	resp.Owner = &OwnerResponse{
		ID:        v.Owner.ID.String(),
		Username:  v.Owner.Username,
		AvatarURL: v.Owner.AvatarURL,
	}
	return resp
}

func toVideoWithOwnerResponses(videos []*model.VideoWithOwner) []VideoResponse {
	resp := make([]VideoResponse, 0, len(videos))
	for _, v := range videos {
		resp = append(resp, toVideoWithOwnerResponse(v))
	}
	return resp
}
