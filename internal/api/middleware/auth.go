package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Rrens/finance-copilot/internal/api/response"
	"github.com/Rrens/finance-copilot/internal/security"
)

type contextKey string

const (
	UserIDKey   contextKey = "userID"
	identityKey contextKey = "identity"
)

// requestIdentity is filled in by Authenticate so that Logger, which wraps
// the whole chain, can report who made the request
type requestIdentity struct {
	userID string
	email  string
}

// AuthMiddleware verifies bearer tokens when a verifier is configured
type AuthMiddleware struct {
	verifier *security.TokenVerifier
}

// NewAuthMiddleware creates a new auth middleware. A nil verifier disables
// authentication and requests are identified by their userId parameter alone.
func NewAuthMiddleware(verifier *security.TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// Authenticate validates the bearer token and stores its subject in the context
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.verifier == nil {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(w, "invalid authorization header format")
			return
		}

		claims, err := m.verifier.Verify(parts[1])
		if err != nil {
			response.Unauthorized(w, "invalid or expired token")
			return
		}

		if id, ok := r.Context().Value(identityKey).(*requestIdentity); ok {
			id.userID = claims.UserID()
			id.email = claims.Email
		}

		ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID())

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID gets the authenticated user ID from context
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}
