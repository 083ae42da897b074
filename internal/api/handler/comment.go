package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/takumi-dev/cliptube/internal/api/middleware"
	"github.com/takumi-dev/cliptube/internal/domain/model"
	"github.com/takumi-dev/cliptube/internal/usecase"
)

type CommentRequest struct {
	Content string `json:"content"`
}

type CommentResponse struct {
	ID        string         `json:"id"`
	VideoID   string         `json:"video_id"`
	Owner     *OwnerResponse `json:"owner,omitempty"`
	OwnerID   string         `json:"owner_id"`
	Content   string         `json:"content"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
}

type CommentListResponse struct {
	Items []CommentResponse `json:"items"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// CommentHandler handles comment-related HTTP requests.
type CommentHandler struct {
	svc usecase.CommentService
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(svc usecase.CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

// Create handles POST /v1/videos/{id}/comments
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	videoID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_video_id", "Video ID must be a valid UUID")
		return
	}

	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	comment, err := h.svc.Create(r.Context(), videoID, middleware.GetUserID(r.Context()), req.Content)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusCreated, toCommentResponse(comment))
}

// ListByVideo handles GET /v1/videos/{id}/comments
func (h *CommentHandler) ListByVideo(w http.ResponseWriter, r *http.Request) {
	videoID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_video_id", "Video ID must be a valid UUID")
		return
	}

	page, err := queryInt(r.URL.Query().Get("page"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_page", "Page must be an integer")
		return
	}
	limit, err := queryInt(r.URL.Query().Get("limit"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_limit", "Limit must be an integer")
		return
	}

	result, err := h.svc.ListByVideo(r.Context(), videoID, page, limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	items := make([]CommentResponse, 0, len(result.Comments))
	for _, c := range result.Comments {
		item := toCommentResponse(&c.Comment)
		item.Owner = &OwnerResponse{
			ID:        c.Owner.ID.String(),
			Username:  c.Owner.Username,
			AvatarURL: c.Owner.AvatarURL,
		}
		items = append(items, item)
	}

	JSON(w, http.StatusOK, CommentListResponse{
		Items: items,
		Page:  result.Page,
		Limit: result.Limit,
	})
}

// Update handles PATCH /v1/comments/{id}
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	commentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_comment_id", "Comment ID must be a valid UUID")
		return
	}

	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	comment, err := h.svc.Update(r.Context(), commentID, middleware.GetUserID(r.Context()), req.Content)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toCommentResponse(comment))
}

// Delete handles DELETE /v1/comments/{id}
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	commentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_comment_id", "Comment ID must be a valid UUID")
		return
	}

	if err := h.svc.Delete(r.Context(), commentID, middleware.GetUserID(r.Context())); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toCommentResponse(c *model.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID.String(),
		VideoID:   c.VideoID.String(),
		OwnerID:   c.OwnerID.String(),
		Content:   c.Content,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}
}
