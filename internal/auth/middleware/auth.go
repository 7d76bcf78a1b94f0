package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/vocalcoach/backend/internal/auth/service"
	"github.com/vocalcoach/backend/internal/models"
)

type contextKey string

const identityKey contextKey = "identity"

// IdentityResolver loads the caller identity (role profile included) for
// an authenticated user ID.
type IdentityResolver interface {
	GetIdentity(ctx context.Context, userID int) (*models.Identity, error)
}

// Authenticate validates the JWT access token and resolves the caller
// Identity into the request context. The identity is resolved once per
// request; handlers and services read it from context instead of any
// shared session state.
func Authenticate(tokenGenerator *service.TokenGenerator, resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				respondUnauthorized(w, "authentication required")
				return
			}

			userID, _, err := tokenGenerator.ValidateAccessToken(token)
			if err != nil {
				respondUnauthorized(w, "invalid or expired token")
				return
			}

			identity, err := resolver.GetIdentity(r.Context(), userID)
			if err != nil {
				respondUnauthorized(w, "unknown user")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// WithIdentity returns a context carrying the given identity
func WithIdentity(ctx context.Context, identity *models.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// GetIdentity retrieves the caller identity from context
func GetIdentity(ctx context.Context) (*models.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*models.Identity)
	return identity, ok
}

// extractToken pulls the bearer token from the Authorization header or
// the access_token cookie.
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		// Expected format: "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return parts[1]
		}
	}

	cookie, err := r.Cookie("access_token")
	if err == nil {
		return cookie.Value
	}

	return ""
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"message":"` + message + `"}`))
}
