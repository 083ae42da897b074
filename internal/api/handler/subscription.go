package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/takumi-dev/cliptube/internal/api/middleware"
	"github.com/takumi-dev/cliptube/internal/domain/model"
	"github.com/takumi-dev/cliptube/internal/usecase"
)

type ToggleSubscriptionResponse struct {
	State           string `json:"state"` // "subscribed" or "unsubscribed"
	SubscriberCount int64  `json:"subscriber_count"`
}

type ProfileResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// SubscriptionHandler handles subscription toggle and listing requests.
type SubscriptionHandler struct {
	svc usecase.EngagementService
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(svc usecase.EngagementService) *SubscriptionHandler {
	return &SubscriptionHandler{svc: svc}
}

// Toggle handles POST /v1/subscriptions/{channelID}
func (h *SubscriptionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	channelID, ok := h.parseChannelID(w, r)
	if !ok {
		return
	}

	subscribed, err := h.svc.ToggleSubscription(r.Context(), middleware.GetUserID(r.Context()), channelID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	count, err := h.svc.SubscriberCount(r.Context(), channelID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	state := "unsubscribed"
	if subscribed {
		state = "subscribed"
	}
	JSON(w, http.StatusOK, ToggleSubscriptionResponse{State: state, SubscriberCount: count})
}

// Subscribers handles GET /v1/subscriptions/{channelID}/subscribers
func (h *SubscriptionHandler) Subscribers(w http.ResponseWriter, r *http.Request) {
	channelID, ok := h.parseChannelID(w, r)
	if !ok {
		return
	}

	profiles, err := h.svc.ListSubscribers(r.Context(), channelID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toProfileResponses(profiles))
}

// Subscribed handles GET /v1/subscriptions
func (h *SubscriptionHandler) Subscribed(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.svc.ListSubscribedChannels(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toProfileResponses(profiles))
}

func (h *SubscriptionHandler) parseChannelID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	channelID, err := uuid.Parse(chi.URLParam(r, "channelID"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_channel_id", "Channel ID must be a valid UUID")
		return uuid.Nil, false
	}
	return channelID, true
}

func toProfileResponses(profiles []model.PublicProfile) []ProfileResponse {
	resp := make([]ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		resp = append(resp, ProfileResponse{
			ID:        p.ID.String(),
			Username:  p.Username,
			Email:     p.Email,
			AvatarURL: p.AvatarURL,
		})
	}
	return resp
}
