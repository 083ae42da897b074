package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/takumi-dev/cliptube/internal/usecase"
)

// Authenticator verifies a bearer access token and yields the caller's id.
// Satisfied by usecase.TokenService.
type Authenticator interface {
	VerifyAccess(token string) (uuid.UUID, error)
}

// Auth rejects requests without a valid bearer access token and stores the
// authenticated user id in the request context.
func Auth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := bearerUserID(auth, r)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth stores the user id when a valid token is presented but lets
// anonymous requests through. Handlers that personalize reads use this.
func OptionalAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, err := bearerUserID(auth, r); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), UserIDKey, userID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUserID retrieves the authenticated user id from context. Returns
// uuid.Nil for anonymous requests.
func GetUserID(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(UserIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

func bearerUserID(auth Authenticator, r *http.Request) (uuid.UUID, error) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return uuid.Nil, usecase.ErrUnauthenticated
	}
	return auth.VerifyAccess(token)
}
