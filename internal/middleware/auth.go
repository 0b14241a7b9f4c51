// Package middleware provides HTTP middlewares for authentication,
// CSRF protection and request logging.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"slices"

	"github.com/tlemaire/garagekeeper/internal/models"
)

type ctxKey string

const (
	userIDKey ctxKey = "userID"
	roleKey   ctxKey = "role"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "token"

// TokenVerifier verifies a session token and returns the embedded subject id.
type TokenVerifier interface {
	// Verify returns the subject id, or models.ErrInvalidToken.
	Verify(token string) (int64, error)
}

// RoleResolver resolves a subject id to its role.
type RoleResolver interface {
	// RoleByID returns the user's role, or models.ErrUserNotFound.
	RoleByID(ctx context.Context, id int64) (models.Role, error)
}

// Authenticator is the authorization gate: it composes session verification
// with a per-route allowed-role set.
type Authenticator struct {
	// Sessions verifies session tokens.
	Sessions TokenVerifier
	// Users resolves subject ids to roles, read-only.
	Users RoleResolver
}

// RequireRoles returns a middleware that rejects any request whose session
// does not resolve to one of the given roles. The gate runs before any
// handler logic:
//
//	missing cookie          → 401
//	invalid/expired token   → 401
//	unknown subject         → 404
//	role outside the set    → 403
//
// On success the user id and role are stored in the request context.
// An empty role list means any authenticated user passes.
func (a *Authenticator) RequireRoles(roles ...models.Role) func(http.Handler) http.Handler {
	if len(roles) == 0 {
		roles = []models.Role{models.RoleAdmin, models.RoleClient}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				http.Error(w, "no session token provided", http.StatusUnauthorized)
				return
			}

			userID, err := a.Sessions.Verify(cookie.Value)
			if err != nil {
				http.Error(w, "invalid or expired session token", http.StatusUnauthorized)
				return
			}

			role, err := a.Users.RoleByID(r.Context(), userID)
			if errors.Is(err, models.ErrUserNotFound) {
				http.Error(w, "user not found", http.StatusNotFound)
				return
			}
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}

			if !slices.Contains(roles, role) {
				http.Error(w, "access denied: insufficient role", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			ctx = context.WithValue(ctx, roleKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserIDFromContext extracts the authenticated user id from the request
// context. Returns 0 if not found.
func GetUserIDFromContext(ctx context.Context) int64 {
	if id, ok := ctx.Value(userIDKey).(int64); ok {
		return id
	}
	return 0
}

// GetRoleFromContext extracts the authenticated user's role from the request
// context. Returns an empty string if not found.
func GetRoleFromContext(ctx context.Context) models.Role {
	if role, ok := ctx.Value(roleKey).(models.Role); ok {
		return role
	}
	return ""
}
