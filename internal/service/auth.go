// Package service provides business logic for authentication, user
// listings and vehicle CRUD, delegating persistence to repository
// interfaces.
package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/tlemaire/garagekeeper/internal/models"
)

// UserRepository defines the persistence operations required by the
// authentication service.
type UserRepository interface {
	// GetByEmail returns the user with the given email, including the
	// password hash, or models.ErrUserNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Create inserts a new user and returns the assigned id.
	// A duplicate email yields models.ErrDuplicateEmail.
	Create(ctx context.Context, u *models.User) (int64, error)
}

// AuthService implements signup and signin.
type AuthService struct {
	repo UserRepository
}

// NewAuthService constructs an AuthService using the provided repository.
func NewAuthService(repo UserRepository) *AuthService {
	return &AuthService{repo: repo}
}

// SignUp registers a new client-role user with a bcrypt-hashed password.
// Missing fields yield models.ErrValidation; a taken email yields
// models.ErrDuplicateEmail.
func (s *AuthService) SignUp(ctx context.Context, lastname, firstname, email, password string) (int64, error) {
	if lastname == "" || firstname == "" || email == "" || password == "" {
		return 0, fmt.Errorf("%w: lastname, firstname, email and password are required", models.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	return s.repo.Create(ctx, &models.User{
		Lastname:     lastname,
		Firstname:    firstname,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleClient,
	})
}

// SignIn checks the credentials and returns the matching user.
// Unknown email yields models.ErrUserNotFound; a wrong password yields
// models.ErrInvalidCredentials.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}
	return user, nil
}
