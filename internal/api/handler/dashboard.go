package handler

import (
	"net/http"
	"time"

	"github.com/takumi-dev/cliptube/internal/api/middleware"
	"github.com/takumi-dev/cliptube/internal/usecase"
)

const activityFeedPageSize = 50

type ChannelStatsResponse struct {
	TotalVideos      int64 `json:"total_videos"`
	TotalViews       int64 `json:"total_views"`
	TotalLikes       int64 `json:"total_likes"`
	TotalSubscribers int64 `json:"total_subscribers"`
}

type ActivityEntryResponse struct {
	Type       string         `json:"type"`
	Actor      *OwnerResponse `json:"actor,omitempty"`
	ActorID    string         `json:"actor_id"`
	TargetKind string         `json:"target_kind,omitempty"`
	TargetID   string         `json:"target_id"`
	OccurredAt string         `json:"occurred_at"`
}

// DashboardHandler serves the authenticated channel owner's dashboard.
type DashboardHandler struct {
	engagement usecase.EngagementService
	activity   usecase.ActivityService
	videos     usecase.VideoService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(
	engagement usecase.EngagementService,
	activity usecase.ActivityService,
	videos usecase.VideoService,
) *DashboardHandler {
	return &DashboardHandler{
		engagement: engagement,
		activity:   activity,
		videos:     videos,
	}
}

// Stats handles GET /v1/dashboard/stats
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.engagement.ChannelStats(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, ChannelStatsResponse{
		TotalVideos:      stats.TotalVideos,
		TotalViews:       stats.TotalViews,
		TotalLikes:       stats.TotalLikes,
		TotalSubscribers: stats.TotalSubscribers,
	})
}

// Videos handles GET /v1/dashboard/videos, including unpublished ones.
func (h *DashboardHandler) Videos(w http.ResponseWriter, r *http.Request) {
	videos, err := h.videos.ListByOwner(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]VideoResponse, 0, len(videos))
	for _, v := range videos {
		resp = append(resp, toVideoResponse(v))
	}
	JSON(w, http.StatusOK, resp)
}

// Activity handles GET /v1/dashboard/activity
func (h *DashboardHandler) Activity(w http.ResponseWriter, r *http.Request) {
	entries, err := h.activity.Recent(r.Context(), middleware.GetUserID(r.Context()), activityFeedPageSize)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]ActivityEntryResponse, 0, len(entries))
	for _, e := range entries {
		item := ActivityEntryResponse{
			Type:       e.Type,
			ActorID:    e.ActorID,
			TargetKind: e.TargetKind,
			TargetID:   e.TargetID,
			OccurredAt: e.OccurredAt.Format(time.RFC3339),
		}
		if e.Actor != nil {
			item.Actor = &OwnerResponse{
				ID:        e.Actor.ID.String(),
				Username:  e.Actor.Username,
				AvatarURL: e.Actor.AvatarURL,
			}
		}
		resp = append(resp, item)
	}
	JSON(w, http.StatusOK, resp)
}
