// Package repository provides PostgreSQL persistence for users and vehicles.
// The credential store is read-only for everything except signup.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/tlemaire/garagekeeper/internal/models"
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations.
const uniqueViolation = pq.ErrorCode("23505")

// PostgresUserRepository implements user lookups and signup inserts
// against a PostgreSQL database.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository with the
// given database connection.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// GetByEmail fetches a user by email, including the password hash.
// Returns models.ErrUserNotFound if no row matches.
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, lastname, firstname, email, password, role FROM users WHERE email = $1
	`, email).Scan(&u.ID, &u.Lastname, &u.Firstname, &u.Email, &u.PasswordHash, &u.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetByEmail: %w", err)
	}
	return &u, nil
}

// RoleByID resolves a user id to its role.
// Returns models.ErrUserNotFound if no row matches.
func (r *PostgresUserRepository) RoleByID(ctx context.Context, id int64) (models.Role, error) {
	var role models.Role
	err := r.DB.QueryRowContext(ctx, `
		SELECT role FROM users WHERE id = $1
	`, id).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return "", models.ErrUserNotFound
	}
	if err != nil {
		return "", fmt.Errorf("RoleByID: %w", err)
	}
	return role, nil
}

// CountByRole returns the number of users holding the given role.
func (r *PostgresUserRepository) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	var count int64
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM users WHERE role = $1
	`, role).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("CountByRole: %w", err)
	}
	return count, nil
}

// ListByRole fetches all users holding the given role. Password hashes are
// not selected.
func (r *PostgresUserRepository) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, lastname, firstname, email, role FROM users WHERE role = $1 ORDER BY id
	`, role)
	if err != nil {
		return nil, fmt.Errorf("ListByRole: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Lastname, &u.Firstname, &u.Email, &u.Role); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListByRole rows: %w", err)
	}
	return users, nil
}

// ClientExists reports whether a client-role user with the given id exists.
func (r *PostgresUserRepository) ClientExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM users WHERE id = $1 AND role = $2)
	`, id, models.RoleClient).Scan(&exists)
	return exists, err
}

// Create inserts a new user and returns the assigned id.
// A duplicate email maps to models.ErrDuplicateEmail.
func (r *PostgresUserRepository) Create(ctx context.Context, u *models.User) (int64, error) {
	var id int64
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO users (lastname, firstname, email, password, role)
		VALUES ($1, $2, $3, $4, $5) RETURNING id
	`, u.Lastname, u.Firstname, u.Email, u.PasswordHash, u.Role).Scan(&id)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return 0, models.ErrDuplicateEmail
	}
	if err != nil {
		return 0, fmt.Errorf("Create user: %w", err)
	}
	return id, nil
}
