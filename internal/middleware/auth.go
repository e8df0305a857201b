package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/ventyapp/venty-auth/internal/models"
)

type SessionVerifier interface {
	Verify(token string) (uuid.UUID, error)
}

type UserGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type contextKey int

const userContextKey contextKey = iota

// Session resolves the session cookie to a user and stores it in the
// request context. It never rejects the request: a missing, expired, or
// tampered cookie leaves the request anonymous, indistinguishable from no
// cookie at all.
func Session(sessions SessionVerifier, users UserGetter, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
				if userID, err := sessions.Verify(cookie.Value); err == nil {
					if user, err := users.GetByID(r.Context(), userID); err == nil {
						r = r.WithContext(context.WithValue(r.Context(), userContextKey, user))
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserFrom returns the authenticated user, or nil for anonymous requests.
func UserFrom(ctx context.Context) *models.User {
	user, _ := ctx.Value(userContextKey).(*models.User)
	return user
}
