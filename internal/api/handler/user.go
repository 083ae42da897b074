package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/takumi-dev/cliptube/internal/api/middleware"
	"github.com/takumi-dev/cliptube/internal/usecase"
)

type ChannelProfileResponse struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	FullName        string `json:"full_name"`
	AvatarURL       string `json:"avatar_url,omitempty"`
	CoverURL        string `json:"cover_url,omitempty"`
	SubscriberCount int64  `json:"subscriber_count"`
	IsSubscribed    bool   `json:"is_subscribed"`
}

// UserHandler handles account and channel profile HTTP requests.
type UserHandler struct {
	users      usecase.UserService
	engagement usecase.EngagementService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users usecase.UserService, engagement usecase.EngagementService) *UserHandler {
	return &UserHandler{users: users, engagement: engagement}
}

// Me handles GET /v1/users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toUserResponse(user))
}

// UpdateProfile handles PATCH /v1/users/me (multipart form, all fields
// optional).
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxRegisterFormSize); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Expected multipart form data")
		return
	}
	defer r.MultipartForm.RemoveAll()

	var input usecase.UpdateProfileInput
	if values, ok := r.MultipartForm.Value["full_name"]; ok && len(values) > 0 {
		input.FullName = &values[0]
	}
	if values, ok := r.MultipartForm.Value["email"]; ok && len(values) > 0 {
		input.Email = &values[0]
	}

	avatar, cleanup, err := formUpload(r, "avatar")
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_avatar", "Could not read avatar file")
		return
	}
	defer cleanup()
	input.Avatar = avatar

	cover, cleanup, err := formUpload(r, "cover")
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_cover", "Could not read cover file")
		return
	}
	defer cleanup()
	input.Cover = cover

	user, err := h.users.UpdateProfile(r.Context(), middleware.GetUserID(r.Context()), input)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toUserResponse(user))
}

// WatchHistory handles GET /v1/users/me/history
func (h *UserHandler) WatchHistory(w http.ResponseWriter, r *http.Request) {
	videos, err := h.users.WatchHistory(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toVideoWithOwnerResponses(videos))
}

// RecordWatch handles POST /v1/users/me/history/{videoID}. Lets clients
// record playback that did not go through the video fetch endpoint.
func (h *UserHandler) RecordWatch(w http.ResponseWriter, r *http.Request) {
	videoID, err := uuid.Parse(chi.URLParam(r, "videoID"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_video_id", "Video ID must be a valid UUID")
		return
	}

	if err := h.users.RecordWatch(r.Context(), middleware.GetUserID(r.Context()), videoID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Channel handles GET /v1/channels/{id}. Works anonymously; IsSubscribed is
// only meaningful for authenticated viewers.
func (h *UserHandler) Channel(w http.ResponseWriter, r *http.Request) {
	channelID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_channel_id", "Channel ID must be a valid UUID")
		return
	}

	profile, err := h.engagement.ChannelProfile(r.Context(), channelID, middleware.GetUserID(r.Context()))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, ChannelProfileResponse{
		ID:              profile.ID.String(),
		Username:        profile.Username,
		Email:           profile.Email,
		FullName:        profile.FullName,
		AvatarURL:       profile.AvatarURL,
		CoverURL:        profile.CoverURL,
		SubscriberCount: profile.SubscriberCount,
		IsSubscribed:    profile.IsSubscribed,
	})
}
