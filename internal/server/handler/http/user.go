package http

import (
	"context"
	"net/http"

	"github.com/tlemaire/garagekeeper/internal/models"
)

// UserService defines the client-listing operations required by the
// UserHandler.
type UserService interface {
	// ListClients returns all client-role users, without password hashes.
	ListClients(ctx context.Context) ([]models.User, error)
	// CountClients returns the number of client-role users.
	CountClients(ctx context.Context) (int64, error)
}

// UserHandler handles admin-only client listing endpoints.
type UserHandler struct {
	UserService UserService
}

// ListClients handles GET /api/clients.
func (h *UserHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.UserService.ListClients(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if clients == nil {
		clients = []models.User{}
	}
	writeJSON(w, http.StatusOK, clients)
}

// CountClients handles GET /api/clients/count.
func (h *UserHandler) CountClients(w http.ResponseWriter, r *http.Request) {
	count, err := h.UserService.CountClients(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"count": count})
}
