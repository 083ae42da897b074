package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/takumi-dev/cliptube/internal/api/middleware"
	"github.com/takumi-dev/cliptube/internal/domain/model"
	"github.com/takumi-dev/cliptube/internal/usecase"
)

const defaultLeaderboardSize = 3

type ToggleLikeResponse struct {
	State     string `json:"state"` // "liked" or "unliked"
	LikeCount int64  `json:"like_count"`
}

type LikeStatusResponse struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}

type RankedTweetResponse struct {
	Tweet     *TweetResponse `json:"tweet"`
	LikeCount int64          `json:"like_count"`
}

// LikeHandler handles like toggle and like-derived view requests.
type LikeHandler struct {
	svc usecase.EngagementService
}

// NewLikeHandler creates a new LikeHandler.
func NewLikeHandler(svc usecase.EngagementService) *LikeHandler {
	return &LikeHandler{svc: svc}
}

// Toggle handles POST /v1/likes/{kind}/{id}
func (h *LikeHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	kind, targetID, ok := h.parseTarget(w, r)
	if !ok {
		return
	}

	liked, err := h.svc.ToggleLike(r.Context(), middleware.GetUserID(r.Context()), kind, targetID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	count, err := h.svc.LikeCount(r.Context(), kind, targetID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	state := "unliked"
	if liked {
		state = "liked"
	}
	JSON(w, http.StatusOK, ToggleLikeResponse{State: state, LikeCount: count})
}

// Status handles GET /v1/likes/{kind}/{id}
func (h *LikeHandler) Status(w http.ResponseWriter, r *http.Request) {
	kind, targetID, ok := h.parseTarget(w, r)
	if !ok {
		return
	}

	liked, err := h.svc.IsLiked(r.Context(), middleware.GetUserID(r.Context()), kind, targetID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	count, err := h.svc.LikeCount(r.Context(), kind, targetID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, LikeStatusResponse{Liked: liked, LikeCount: count})
}

// LikedVideos handles GET /v1/likes/videos
func (h *LikeHandler) LikedVideos(w http.ResponseWriter, r *http.Request) {
	videos, err := h.svc.ListLikedVideos(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toVideoWithOwnerResponses(videos))
}

// TopTweets handles GET /v1/likes/tweets/top?limit=N. The response always
// holds exactly limit entries; trailing entries have a null tweet when fewer
// tweets have likes.
func (h *LikeHandler) TopTweets(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r.URL.Query().Get("limit"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_limit", "Limit must be an integer")
		return
	}
	if limit == 0 {
		limit = defaultLeaderboardSize
	}

	ranked, err := h.svc.TopLikedTweets(r.Context(), limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]RankedTweetResponse, 0, len(ranked))
	for _, entry := range ranked {
		item := RankedTweetResponse{LikeCount: entry.LikeCount}
		if entry.Tweet != nil {
			tweet := toTweetWithOwnerResponse(entry.Tweet)
			item.Tweet = &tweet
		}
		resp = append(resp, item)
	}

	JSON(w, http.StatusOK, resp)
}

func (h *LikeHandler) parseTarget(w http.ResponseWriter, r *http.Request) (model.TargetKind, uuid.UUID, bool) {
	kind, err := model.ParseTargetKind(chi.URLParam(r, "kind"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_target_kind", "Target kind must be video, comment or tweet")
		return "", uuid.Nil, false
	}

	targetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_target_id", "Target ID must be a valid UUID")
		return "", uuid.Nil, false
	}

	return kind, targetID, true
}
