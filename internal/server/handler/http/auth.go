// Package http provides the HTTP handlers and router for the
// garagekeeper API.
package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/tlemaire/garagekeeper/internal/middleware"
	"github.com/tlemaire/garagekeeper/internal/models"
)

// AuthService defines the authentication operations required by the
// HTTP handlers.
type AuthService interface {
	// SignUp registers a new client-role user and returns the new id.
	SignUp(ctx context.Context, lastname, firstname, email, password string) (int64, error)
	// SignIn checks the credentials and returns the matching user.
	SignIn(ctx context.Context, email, password string) (*models.User, error)
}

// SessionIssuer issues signed session tokens.
type SessionIssuer interface {
	// Issue creates a signed token for the given user id.
	Issue(userID int64) (string, error)
	// TTL returns the token lifetime, used for the cookie Max-Age.
	TTL() time.Duration
}

// CSRFIssuer produces fresh CSRF tokens.
type CSRFIssuer interface {
	Issue() string
}

// AuthHandler handles signup, signin and CSRF token issuance.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
	// Sessions issues session tokens on successful signin.
	Sessions SessionIssuer
	// CSRF issues tokens for the public issuance endpoint.
	CSRF CSRFIssuer
}

// SignUpRequest represents the JSON payload for user registration.
type SignUpRequest struct {
	Lastname  string `json:"lastname"`
	Firstname string `json:"firstname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// SignInRequest represents the JSON payload for signin.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CSRFToken handles GET /api/csrf. It issues a fresh token on every call;
// issuance is unlimited and requires no session.
func (h *AuthHandler) CSRFToken(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"token": h.CSRF.Issue()})
}

// SignUp handles POST /api/signup. New users always get the client role.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	id, err := h.AuthService.SignUp(r.Context(), req.Lastname, req.Firstname, req.Email, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// SignIn handles POST /api/signin. On success it sets the session cookie
// and reports the caller's role.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	user, err := h.AuthService.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	token, err := h.Sessions.Issue(user.ID)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.Sessions.TTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]any{"auth": true, "role": user.Role})
}
