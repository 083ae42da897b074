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

type PlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type PlaylistResponse struct {
	ID          string   `json:"id"`
	OwnerID     string   `json:"owner_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	VideoIDs    []string `json:"video_ids"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

// PlaylistHandler handles playlist-related HTTP requests.
type PlaylistHandler struct {
	svc usecase.PlaylistService
}

// NewPlaylistHandler creates a new PlaylistHandler.
func NewPlaylistHandler(svc usecase.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{svc: svc}
}

// Create handles POST /v1/playlists
func (h *PlaylistHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req PlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	playlist, err := h.svc.Create(r.Context(), middleware.GetUserID(r.Context()), req.Name, req.Description)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusCreated, toPlaylistResponse(playlist))
}

// Get handles GET /v1/playlists/{id}
func (h *PlaylistHandler) Get(w http.ResponseWriter, r *http.Request) {
	playlistID, ok := h.parsePlaylistID(w, r)
	if !ok {
		return
	}

	playlist, err := h.svc.Get(r.Context(), playlistID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toPlaylistResponse(playlist))
}

// Videos handles GET /v1/playlists/{id}/videos
func (h *PlaylistHandler) Videos(w http.ResponseWriter, r *http.Request) {
	playlistID, ok := h.parsePlaylistID(w, r)
	if !ok {
		return
	}

	videos, err := h.svc.Videos(r.Context(), playlistID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toVideoWithOwnerResponses(videos))
}

// ListMine handles GET /v1/playlists
func (h *PlaylistHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	playlists, err := h.svc.ListByOwner(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]PlaylistResponse, 0, len(playlists))
	for _, p := range playlists {
		resp = append(resp, toPlaylistResponse(p))
	}
	JSON(w, http.StatusOK, resp)
}

// AddVideo handles POST /v1/playlists/{id}/videos/{videoID}
func (h *PlaylistHandler) AddVideo(w http.ResponseWriter, r *http.Request) {
	playlistID, videoID, ok := h.parsePlaylistAndVideo(w, r)
	if !ok {
		return
	}

	playlist, err := h.svc.AddVideo(r.Context(), playlistID, middleware.GetUserID(r.Context()), videoID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toPlaylistResponse(playlist))
}

// RemoveVideo handles DELETE /v1/playlists/{id}/videos/{videoID}
func (h *PlaylistHandler) RemoveVideo(w http.ResponseWriter, r *http.Request) {
	playlistID, videoID, ok := h.parsePlaylistAndVideo(w, r)
	if !ok {
		return
	}

	playlist, err := h.svc.RemoveVideo(r.Context(), playlistID, middleware.GetUserID(r.Context()), videoID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toPlaylistResponse(playlist))
}

// Update handles PATCH /v1/playlists/{id}
func (h *PlaylistHandler) Update(w http.ResponseWriter, r *http.Request) {
	playlistID, ok := h.parsePlaylistID(w, r)
	if !ok {
		return
	}

	var req PlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	playlist, err := h.svc.Update(r.Context(), playlistID, middleware.GetUserID(r.Context()), req.Name, req.Description)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toPlaylistResponse(playlist))
}

// Delete handles DELETE /v1/playlists/{id}
func (h *PlaylistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	playlistID, ok := h.parsePlaylistID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), playlistID, middleware.GetUserID(r.Context())); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *PlaylistHandler) parsePlaylistID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	playlistID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_playlist_id", "Playlist ID must be a valid UUID")
		return uuid.Nil, false
	}
	return playlistID, true
}

func (h *PlaylistHandler) parsePlaylistAndVideo(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	playlistID, ok := h.parsePlaylistID(w, r)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}

	videoID, err := uuid.Parse(chi.URLParam(r, "videoID"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_video_id", "Video ID must be a valid UUID")
		return uuid.Nil, uuid.Nil, false
	}

	return playlistID, videoID, true
}

func toPlaylistResponse(p *model.Playlist) PlaylistResponse {
	videoIDs := make([]string, 0, len(p.VideoIDs))
	for _, id := range p.VideoIDs {
		videoIDs = append(videoIDs, id.String())
	}

	return PlaylistResponse{
		ID:          p.ID.String(),
		OwnerID:     p.OwnerID.String(),
		Name:        p.Name,
		Description: p.Description,
		VideoIDs:    videoIDs,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}
}
