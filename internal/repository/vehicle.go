package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/tlemaire/garagekeeper/internal/models"
)

// foreignKeyViolation is the PostgreSQL error code for FK constraint violations.
const foreignKeyViolation = pq.ErrorCode("23503")

// enrichedColumns is the select list for reads that join the owning client.
const enrichedColumns = `
		SELECT v.id, v.plate, v.brand, v.model, v.year, v.client_id,
		       COALESCE(u.firstname || ' ' || u.lastname, ''),
		       COALESCE(u.email, ''),
		       v.created_at, v.updated_at
		FROM vehicles v
		LEFT JOIN users u ON v.client_id = u.id`

// PostgresVehicleRepository implements vehicle CRUD against a PostgreSQL
// database. It is the sole writer of the vehicles table; the UNIQUE
// constraint on plate is the authoritative uniqueness guard under
// concurrent writes.
type PostgresVehicleRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresVehicleRepository creates a new PostgresVehicleRepository
// using the provided *sql.DB.
func NewPostgresVehicleRepository(db *sql.DB) *PostgresVehicleRepository {
	return &PostgresVehicleRepository{DB: db}
}

// List fetches all vehicles enriched with the owning client's display name
// and email, newest first. Vehicles without a client still appear, with
// empty enrichment fields.
func (r *PostgresVehicleRepository) List(ctx context.Context) ([]models.Vehicle, error) {
	rows, err := r.DB.QueryContext(ctx, enrichedColumns+`
		ORDER BY v.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("List vehicles: %w", err)
	}
	defer rows.Close()
	return scanVehicles(rows)
}

// Count returns the total number of vehicle records.
func (r *PostgresVehicleRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM vehicles`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("Count vehicles: %w", err)
	}
	return count, nil
}

// GetByID fetches a single enriched vehicle.
// Returns models.ErrVehicleNotFound if no row matches.
func (r *PostgresVehicleRepository) GetByID(ctx context.Context, id int64) (*models.Vehicle, error) {
	var (
		v        models.Vehicle
		year     sql.NullInt64
		clientID sql.NullInt64
	)
	err := r.DB.QueryRowContext(ctx, enrichedColumns+`
		WHERE v.id = $1`, id).Scan(
		&v.ID, &v.Plate, &v.Brand, &v.Model, &year, &clientID,
		&v.ClientName, &v.ClientEmail, &v.CreatedAt, &v.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrVehicleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetByID vehicle: %w", err)
	}
	setNullable(&v, year, clientID)
	return &v, nil
}

// ListByClient fetches all vehicles owned by the given client, newest
// first, without enrichment.
func (r *PostgresVehicleRepository) ListByClient(ctx context.Context, clientID int64) ([]models.Vehicle, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, plate, brand, model, year, client_id, created_at, updated_at
		FROM vehicles
		WHERE client_id = $1
		ORDER BY id DESC
	`, clientID)
	if err != nil {
		return nil, fmt.Errorf("ListByClient: %w", err)
	}
	defer rows.Close()

	var vehicles []models.Vehicle
	for rows.Next() {
		var (
			v    models.Vehicle
			year sql.NullInt64
			cid  sql.NullInt64
		)
		if err := rows.Scan(&v.ID, &v.Plate, &v.Brand, &v.Model, &year, &cid, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		setNullable(&v, year, cid)
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListByClient rows: %w", err)
	}
	return vehicles, nil
}

// PlateExists reports whether the plate is used by a vehicle other than
// excludeID. Pass excludeID 0 on create.
func (r *PostgresVehicleRepository) PlateExists(ctx context.Context, plate string, excludeID int64) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM vehicles WHERE plate = $1 AND id <> $2)
	`, plate, excludeID).Scan(&exists)
	return exists, err
}

// Exists reports whether a vehicle with the given id exists.
func (r *PostgresVehicleRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM vehicles WHERE id = $1)
	`, id).Scan(&exists)
	return exists, err
}

// Create inserts a vehicle and returns the assigned id. Constraint
// violations surfacing from the insert itself map to the domain errors:
// duplicate plate → models.ErrDuplicatePlate, bad client reference →
// models.ErrClientNotFound. This closes the race window left by the
// staged pre-checks.
func (r *PostgresVehicleRepository) Create(ctx context.Context, v *models.Vehicle) (int64, error) {
	var id int64
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO vehicles (plate, brand, model, year, client_id)
		VALUES ($1, $2, $3, $4, $5) RETURNING id
	`, v.Plate, v.Brand, v.Model, nullInt(v.Year), nullInt(v.ClientID)).Scan(&id)
	if err != nil {
		return 0, mapWriteError(err, "Create vehicle")
	}
	return id, nil
}

// Update rewrites all mutable columns of the vehicle and refreshes
// updated_at. Returns models.ErrVehicleNotFound if no row matches.
func (r *PostgresVehicleRepository) Update(ctx context.Context, v *models.Vehicle) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE vehicles
		SET plate = $1, brand = $2, model = $3, year = $4, client_id = $5, updated_at = now()
		WHERE id = $6
	`, v.Plate, v.Brand, v.Model, nullInt(v.Year), nullInt(v.ClientID), v.ID)
	if err != nil {
		return mapWriteError(err, "Update vehicle")
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return models.ErrVehicleNotFound
	}
	return nil
}

// Delete removes a vehicle. Returns models.ErrVehicleNotFound if no row
// matches. No cascading effect on users.
func (r *PostgresVehicleRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("Delete vehicle: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return models.ErrVehicleNotFound
	}
	return nil
}

func scanVehicles(rows *sql.Rows) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	for rows.Next() {
		var (
			v        models.Vehicle
			year     sql.NullInt64
			clientID sql.NullInt64
		)
		if err := rows.Scan(
			&v.ID, &v.Plate, &v.Brand, &v.Model, &year, &clientID,
			&v.ClientName, &v.ClientEmail, &v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		setNullable(&v, year, clientID)
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return vehicles, nil
}

func setNullable(v *models.Vehicle, year, clientID sql.NullInt64) {
	if year.Valid {
		v.Year = &year.Int64
	}
	if clientID.Valid {
		v.ClientID = &clientID.Int64
	}
}

func nullInt(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

func mapWriteError(err error, op string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case uniqueViolation:
			return models.ErrDuplicatePlate
		case foreignKeyViolation:
			return models.ErrClientNotFound
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
