package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/dmordi/habari-blog-be/internal/models"
)

// UserLoader loads the identity behind a verified token claim. Satisfied by
// the user service; kept narrow so the middleware performs exactly one
// store read per request.
type UserLoader interface {
	GetUserByID(id string) (models.User, error)
}

type contextKey string

const userContextKey = contextKey("authenticatedUser")

// UserFromContext retrieves the authenticated user attached by Middleware.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userContextKey).(models.User)
	return user, ok
}

// Middleware guards protected routes. It requires a Bearer token, verifies
// it as a session token, and loads the corresponding user, attaching it to
// the request context. Every failure is an opaque 401; expiry gets its own
// message so clients know to re-authenticate rather than suspect tampering.
func Middleware(tokens *TokenService, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, "missing auth token")
				return
			}

			scheme, tokenStr, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || tokenStr == "" {
				unauthorized(w, "missing auth token")
				return
			}

			claims, err := tokens.Verify(tokenStr, UseSession)
			if err != nil {
				if errors.Is(err, ErrTokenExpired) {
					unauthorized(w, "token expired")
					return
				}
				log.Warn().Err(err).Msg("Rejected auth token")
				unauthorized(w, "invalid auth token")
				return
			}

			user, err := users.GetUserByID(claims.UserID)
			if err != nil {
				log.Warn().Err(err).Str("user_id", claims.UserID).Msg("Token subject not found")
				unauthorized(w, "invalid auth token")
				return
			}
			user.Sanitize()

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
