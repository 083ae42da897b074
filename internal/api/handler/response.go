package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/takumi-dev/cliptube/internal/domain/model"
	"github.com/takumi-dev/cliptube/internal/domain/repository"
	"github.com/takumi-dev/cliptube/internal/usecase"
)

func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, "failed to encode response", http.StatusInternalServerError)
		}
	}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func Error(w http.ResponseWriter, status int, err string, message string) {
	JSON(w, status, ErrorResponse{
		Error:   err,
		Message: message,
	})
}

// handleServiceError maps usecase and domain errors onto the response
// taxonomy shared by every handler. session_invalidated is deliberately
// distinct from unauthenticated so clients know a refresh retry is pointless.
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrUnauthenticated):
		Error(w, http.StatusUnauthorized, "unauthenticated", "Valid credentials are required")
	case errors.Is(err, usecase.ErrSessionInvalidated):
		Error(w, http.StatusUnauthorized, "session_invalidated", "Session is no longer valid, log in again")
	case errors.Is(err, usecase.ErrInvalidCredentials):
		Error(w, http.StatusUnauthorized, "invalid_credentials", "Username or password is incorrect")
	case errors.Is(err, usecase.ErrForbidden):
		Error(w, http.StatusForbidden, "forbidden", "You do not own this resource")

	case errors.Is(err, repository.ErrUserNotFound):
		Error(w, http.StatusNotFound, "user_not_found", "User not found")
	case errors.Is(err, repository.ErrVideoNotFound):
		Error(w, http.StatusNotFound, "video_not_found", "Video not found")
	case errors.Is(err, repository.ErrTweetNotFound):
		Error(w, http.StatusNotFound, "tweet_not_found", "Tweet not found")
	case errors.Is(err, repository.ErrCommentNotFound):
		Error(w, http.StatusNotFound, "comment_not_found", "Comment not found")
	case errors.Is(err, repository.ErrPlaylistNotFound):
		Error(w, http.StatusNotFound, "playlist_not_found", "Playlist not found")
	case errors.Is(err, repository.ErrObjectNotFound):
		Error(w, http.StatusNotFound, "object_not_found", "Stored media object not found")

	case errors.Is(err, repository.ErrDuplicateUser):
		Error(w, http.StatusConflict, "duplicate_user", "Username or email is already taken")
	case errors.Is(err, usecase.ErrVideoAlreadyInPlaylist):
		Error(w, http.StatusConflict, "video_already_in_playlist", "Video is already in the playlist")
	case errors.Is(err, usecase.ErrVideoNotInPlaylist):
		Error(w, http.StatusConflict, "video_not_in_playlist", "Video is not in the playlist")

	case errors.Is(err, usecase.ErrSelfSubscription):
		Error(w, http.StatusBadRequest, "self_subscription", "Cannot subscribe to your own channel")
	case errors.Is(err, usecase.ErrInvalidPage):
		Error(w, http.StatusBadRequest, "invalid_page", "Page must be at least 1")
	case errors.Is(err, usecase.ErrInvalidLimit):
		Error(w, http.StatusBadRequest, "invalid_limit", "Limit must be at least 1")
	case errors.Is(err, usecase.ErrInvalidSortKey):
		Error(w, http.StatusBadRequest, "invalid_sort_key", "Unknown sort key")
	case errors.Is(err, model.ErrInvalidTargetKind):
		Error(w, http.StatusBadRequest, "invalid_target_kind", "Target kind must be video, comment or tweet")
	case isValidationError(err):
		Error(w, http.StatusBadRequest, "invalid_request", err.Error())

	default:
		slog.Error("unhandled service error", "error", err)
		Error(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}

// isValidationError reports whether err is one of the domain model's
// constructor validation errors.
func isValidationError(err error) bool {
	for _, sentinel := range []error{
		model.ErrEmptyUsername,
		model.ErrUsernameTooLong,
		model.ErrEmptyEmail,
		model.ErrInvalidEmail,
		model.ErrEmptyFullName,
		model.ErrWeakPassword,
		model.ErrEmptyTitle,
		model.ErrTitleTooLong,
		model.ErrEmptyDescription,
		model.ErrEmptyContent,
		model.ErrContentTooLong,
		model.ErrEmptyPlaylistName,
		model.ErrInvalidOwnerID,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
