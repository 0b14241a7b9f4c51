// Package models defines the core data structures for users and vehicles,
// along with the domain error taxonomy shared by repositories, services
// and handlers.
package models

import (
	"errors"
	"time"
)

// Role is the coarse permission class attached to a user.
type Role = string

const (
	// RoleAdmin grants access to every endpoint, including all mutations.
	RoleAdmin Role = "admin"
	// RoleClient grants read access to individual vehicles and per-client listings.
	RoleClient Role = "client"
)

// User represents an application user with credentials.
type User struct {
	// ID is the unique identifier for the user.
	ID int64 `json:"id"`
	// Lastname is the user's family name.
	Lastname string `json:"lastname"`
	// Firstname is the user's given name.
	Firstname string `json:"firstname"`
	// Email is the unique login email.
	Email string `json:"email"`
	// PasswordHash is the bcrypt hash of the user's password.
	// Never serialized in responses.
	PasswordHash string `json:"-"`
	// Role is either RoleAdmin or RoleClient.
	Role Role `json:"role"`
}

// Vehicle represents a vehicle record, optionally attached to a client.
type Vehicle struct {
	// ID is the unique identifier for the vehicle.
	ID int64 `json:"id"`
	// Plate is the registration plate, unique across all vehicles.
	Plate string `json:"plate"`
	// Brand is the manufacturer name.
	Brand string `json:"brand"`
	// Model is the model name.
	Model string `json:"model"`
	// Year is the optional model year.
	Year *int64 `json:"year"`
	// ClientID references the owning client, or nil when unassigned.
	ClientID *int64 `json:"client_id"`
	// ClientName is the owning client's display name, filled on enriched reads.
	ClientName string `json:"client_name,omitempty"`
	// ClientEmail is the owning client's email, filled on enriched reads.
	ClientEmail string `json:"client_email,omitempty"`
	// CreatedAt is set by storage on insert.
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is set by storage on every write.
	UpdatedAt time.Time `json:"updated_at"`
}

// Domain errors. Handlers map these to HTTP status codes with errors.Is.
var (
	// ErrInvalidToken means the session token carries no valid signature or is expired.
	ErrInvalidToken = errors.New("invalid or expired session token")
	// ErrUserNotFound means no user row matches the given id or email.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials means the password does not match the stored hash.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrDuplicateEmail means the email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrValidation means a required field is missing or empty.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicatePlate means the plate is already used by another vehicle.
	ErrDuplicatePlate = errors.New("plate already registered")
	// ErrVehicleNotFound means no vehicle row matches the given id.
	ErrVehicleNotFound = errors.New("vehicle not found")
	// ErrClientNotFound means client_id does not reference a client-role user.
	ErrClientNotFound = errors.New("client not found")
)
