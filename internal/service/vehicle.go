package service

import (
	"context"
	"fmt"

	"github.com/tlemaire/garagekeeper/internal/models"
)

// VehicleRepository defines the persistence operations needed by the
// VehicleService.
type VehicleRepository interface {
	// List returns all vehicles with client enrichment, newest first.
	List(ctx context.Context) ([]models.Vehicle, error)
	// Count returns the total number of vehicle records.
	Count(ctx context.Context) (int64, error)
	// GetByID returns one enriched vehicle, or models.ErrVehicleNotFound.
	GetByID(ctx context.Context, id int64) (*models.Vehicle, error)
	// ListByClient returns the vehicles owned by the given client, newest first.
	ListByClient(ctx context.Context, clientID int64) ([]models.Vehicle, error)
	// PlateExists reports whether the plate is used by a vehicle other
	// than excludeID (0 to exclude nothing).
	PlateExists(ctx context.Context, plate string, excludeID int64) (bool, error)
	// Exists reports whether a vehicle with the given id exists.
	Exists(ctx context.Context, id int64) (bool, error)
	// Create inserts a vehicle and returns the assigned id. Constraint
	// violations map to models.ErrDuplicatePlate / models.ErrClientNotFound.
	Create(ctx context.Context, v *models.Vehicle) (int64, error)
	// Update rewrites all mutable columns, or returns models.ErrVehicleNotFound.
	Update(ctx context.Context, v *models.Vehicle) error
	// Delete removes a vehicle, or returns models.ErrVehicleNotFound.
	Delete(ctx context.Context, id int64) error
}

// ClientDirectory is the read-only view of the credential store used for
// referential checks.
type ClientDirectory interface {
	// ClientExists reports whether a client-role user with the given id exists.
	ClientExists(ctx context.Context, id int64) (bool, error)
}

// VehicleInput carries the caller-supplied fields for create and update.
type VehicleInput struct {
	Plate    string `json:"plate"`
	Brand    string `json:"brand"`
	Model    string `json:"model"`
	Year     *int64 `json:"year"`
	ClientID *int64 `json:"client_id"`
}

// VehicleService implements vehicle CRUD with staged validation:
// required fields, then plate uniqueness, then the client referential
// check, each short-circuiting on first failure. No write happens until
// every check passes; the storage UNIQUE constraint remains the
// authoritative guard against concurrent duplicate plates.
type VehicleService struct {
	repo    VehicleRepository
	clients ClientDirectory
}

// NewVehicleService constructs a VehicleService from its repositories.
func NewVehicleService(repo VehicleRepository, clients ClientDirectory) *VehicleService {
	return &VehicleService{repo: repo, clients: clients}
}

// List returns all vehicles with client enrichment, newest first.
func (s *VehicleService) List(ctx context.Context) ([]models.Vehicle, error) {
	return s.repo.List(ctx)
}

// Count returns the total number of vehicle records.
func (s *VehicleService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// Get returns one enriched vehicle, or models.ErrVehicleNotFound.
func (s *VehicleService) Get(ctx context.Context, id int64) (*models.Vehicle, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByClient returns the vehicles owned by the given client, newest first.
func (s *VehicleService) ListByClient(ctx context.Context, clientID int64) ([]models.Vehicle, error) {
	return s.repo.ListByClient(ctx, clientID)
}

// Create runs the staged checks in order and inserts the vehicle,
// returning the new id.
func (s *VehicleService) Create(ctx context.Context, in VehicleInput) (int64, error) {
	if err := s.validate(ctx, in, 0); err != nil {
		return 0, err
	}
	return s.repo.Create(ctx, &models.Vehicle{
		Plate:    in.Plate,
		Brand:    in.Brand,
		Model:    in.Model,
		Year:     in.Year,
		ClientID: in.ClientID,
	})
}

// Update checks that the target vehicle exists, runs the staged checks
// (plate uniqueness excluding the vehicle itself) and rewrites the row.
func (s *VehicleService) Update(ctx context.Context, id int64, in VehicleInput) error {
	if err := requireFields(in); err != nil {
		return err
	}

	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return models.ErrVehicleNotFound
	}

	if err := s.checkReferences(ctx, in, id); err != nil {
		return err
	}

	return s.repo.Update(ctx, &models.Vehicle{
		ID:       id,
		Plate:    in.Plate,
		Brand:    in.Brand,
		Model:    in.Model,
		Year:     in.Year,
		ClientID: in.ClientID,
	})
}

// Delete removes the vehicle, or returns models.ErrVehicleNotFound.
// No cascading effect on the credential store.
func (s *VehicleService) Delete(ctx context.Context, id int64) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return models.ErrVehicleNotFound
	}
	return s.repo.Delete(ctx, id)
}

// validate runs the full staged check sequence for create.
func (s *VehicleService) validate(ctx context.Context, in VehicleInput, excludeID int64) error {
	if err := requireFields(in); err != nil {
		return err
	}
	return s.checkReferences(ctx, in, excludeID)
}

// checkReferences verifies plate uniqueness then the client referential
// check, in that order.
func (s *VehicleService) checkReferences(ctx context.Context, in VehicleInput, excludeID int64) error {
	taken, err := s.repo.PlateExists(ctx, in.Plate, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return models.ErrDuplicatePlate
	}

	if in.ClientID != nil {
		ok, err := s.clients.ClientExists(ctx, *in.ClientID)
		if err != nil {
			return err
		}
		if !ok {
			return models.ErrClientNotFound
		}
	}
	return nil
}

func requireFields(in VehicleInput) error {
	if in.Plate == "" || in.Brand == "" || in.Model == "" {
		return fmt.Errorf("%w: plate, brand and model are required", models.ErrValidation)
	}
	return nil
}
