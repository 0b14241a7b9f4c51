package service

import (
	"context"

	"github.com/tlemaire/garagekeeper/internal/models"
)

// UserDirectory defines the read-only user listing operations required
// by the UserService.
type UserDirectory interface {
	// ListByRole returns all users holding the given role, without
	// password hashes.
	ListByRole(ctx context.Context, role models.Role) ([]models.User, error)
	// CountByRole returns the number of users holding the given role.
	CountByRole(ctx context.Context, role models.Role) (int64, error)
}

// UserService exposes client-role user listings to admin callers.
type UserService struct {
	repo UserDirectory
}

// NewUserService constructs a UserService using the provided directory.
func NewUserService(repo UserDirectory) *UserService {
	return &UserService{repo: repo}
}

// ListClients returns all client-role users.
func (s *UserService) ListClients(ctx context.Context) ([]models.User, error) {
	return s.repo.ListByRole(ctx, models.RoleClient)
}

// CountClients returns the number of client-role users.
func (s *UserService) CountClients(ctx context.Context) (int64, error) {
	return s.repo.CountByRole(ctx, models.RoleClient)
}
