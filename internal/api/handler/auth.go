package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/takumi-dev/cliptube/internal/api/middleware"
	"github.com/takumi-dev/cliptube/internal/domain/model"
	"github.com/takumi-dev/cliptube/internal/usecase"
)

const maxRegisterFormSize = 10 << 20 // profile images only

// Request/Response types

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type TokenPairResponse struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	AccessExpiresAt  string `json:"access_expires_at"`
	RefreshExpiresAt string `json:"refresh_expires_at"`
}

type UserResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url,omitempty"`
	CoverURL  string `json:"cover_url,omitempty"`
	CreatedAt string `json:"created_at"`
}

type AuthResponse struct {
	User   UserResponse      `json:"user"`
	Tokens TokenPairResponse `json:"tokens"`
}

// AuthHandler handles session lifecycle HTTP requests.
type AuthHandler struct {
	svc usecase.UserService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc usecase.UserService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register handles POST /v1/auth/register (multipart form, optional avatar
// and cover files).
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxRegisterFormSize); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Expected multipart form data")
		return
	}
	defer r.MultipartForm.RemoveAll()

	input := usecase.RegisterInput{
		Username: r.FormValue("username"),
		Email:    r.FormValue("email"),
		FullName: r.FormValue("full_name"),
		Password: r.FormValue("password"),
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

	output, err := h.svc.Register(r.Context(), input)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusCreated, toAuthResponse(output))
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	output, err := h.svc.Login(r.Context(), usecase.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toAuthResponse(output))
}

// Refresh handles POST /v1/auth/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.RefreshToken == "" {
		Error(w, http.StatusBadRequest, "invalid_request", "Refresh token is required")
		return
	}

	pair, err := h.svc.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toTokenPairResponse(pair))
}

// Logout handles POST /v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(r.Context(), middleware.GetUserID(r.Context())); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ChangePassword handles POST /v1/auth/change-password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	err := h.svc.ChangePassword(r.Context(), middleware.GetUserID(r.Context()), req.OldPassword, req.NewPassword)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// formUpload extracts an optional file field from a parsed multipart form.
// Returns nil when the field is absent.
func formUpload(r *http.Request, field string) (*usecase.MediaUpload, func(), error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, func() {}, nil
		}
		return nil, func() {}, err
	}

	return &usecase.MediaUpload{
		Reader:      file,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
	}, func() { file.Close() }, nil
}

func toAuthResponse(output *usecase.AuthOutput) AuthResponse {
	return AuthResponse{
		User:   toUserResponse(output.User),
		Tokens: toTokenPairResponse(output.Tokens),
	}
}

func toTokenPairResponse(pair *usecase.TokenPair) TokenPairResponse {
	return TokenPairResponse{
		AccessToken:      pair.AccessToken,
		RefreshToken:     pair.RefreshToken,
		AccessExpiresAt:  pair.AccessExpiresAt.Format(time.RFC3339),
		RefreshExpiresAt: pair.RefreshExpiresAt.Format(time.RFC3339),
	}
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		AvatarURL: u.AvatarURL,
		CoverURL:  u.CoverURL,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}
