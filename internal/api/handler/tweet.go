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

type TweetRequest struct {
	Content string `json:"content"`
}

type TweetResponse struct {
	ID        string         `json:"id"`
	Owner     *OwnerResponse `json:"owner,omitempty"`
	OwnerID   string         `json:"owner_id"`
	Content   string         `json:"content"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
}

type TweetListResponse struct {
	Items []TweetResponse `json:"items"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// TweetHandler handles tweet-related HTTP requests.
type TweetHandler struct {
	svc usecase.TweetService
}

// NewTweetHandler creates a new TweetHandler.
func NewTweetHandler(svc usecase.TweetService) *TweetHandler {
	return &TweetHandler{svc: svc}
}

// Create handles POST /v1/tweets
func (h *TweetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req TweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	tweet, err := h.svc.Create(r.Context(), middleware.GetUserID(r.Context()), req.Content)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusCreated, toTweetResponse(tweet))
}

// Get handles GET /v1/tweets/{id}
func (h *TweetHandler) Get(w http.ResponseWriter, r *http.Request) {
	tweetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_tweet_id", "Tweet ID must be a valid UUID")
		return
	}

	tweet, err := h.svc.Get(r.Context(), tweetID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toTweetWithOwnerResponse(tweet))
}

// List handles GET /v1/tweets
func (h *TweetHandler) List(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.svc.List(r.Context(), page, limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, TweetListResponse{
		Items: toTweetWithOwnerResponses(result.Tweets),
		Page:  result.Page,
		Limit: result.Limit,
	})
}

// ListByOwner handles GET /v1/users/{id}/tweets
func (h *TweetHandler) ListByOwner(w http.ResponseWriter, r *http.Request) {
	ownerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_user_id", "User ID must be a valid UUID")
		return
	}

	tweets, err := h.svc.ListByOwner(r.Context(), ownerID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toTweetWithOwnerResponses(tweets))
}

// Update handles PATCH /v1/tweets/{id}
func (h *TweetHandler) Update(w http.ResponseWriter, r *http.Request) {
	tweetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_tweet_id", "Tweet ID must be a valid UUID")
		return
	}

	var req TweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	tweet, err := h.svc.Update(r.Context(), tweetID, middleware.GetUserID(r.Context()), req.Content)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toTweetWithOwnerResponse(tweet))
}

// Delete handles DELETE /v1/tweets/{id}
func (h *TweetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tweetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_tweet_id", "Tweet ID must be a valid UUID")
		return
	}

	if err := h.svc.Delete(r.Context(), tweetID, middleware.GetUserID(r.Context())); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toTweetResponse(t *model.Tweet) TweetResponse {
	return TweetResponse{
		ID:        t.ID.String(),
		OwnerID:   t.OwnerID.String(),
		Content:   t.Content,
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
		UpdatedAt: t.UpdatedAt.Format(time.RFC3339),
	}
}

func toTweetWithOwnerResponse(t *model.TweetWithOwner) TweetResponse {
	resp := toTweetResponse(&t.Tweet)
	resp.Owner = &OwnerResponse{
		ID:        t.Owner.ID.String(),
		Username:  t.Owner.Username,
		AvatarURL: t.Owner.AvatarURL,
	}
	return resp
}

func toTweetWithOwnerResponses(tweets []*model.TweetWithOwner) []TweetResponse {
	resp := make([]TweetResponse, 0, len(tweets))
	for _, t := range tweets {
		resp = append(resp, toTweetWithOwnerResponse(t))
	}
	return resp
}
