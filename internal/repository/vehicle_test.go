package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/tlemaire/garagekeeper/internal/models"
)

func setupVehicleMock(t *testing.T) (*PostgresVehicleRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	repo := NewPostgresVehicleRepository(db)
	cleanup := func() { db.Close() }
	return repo, mock, cleanup
}

var enrichedCols = []string{
	"id", "plate", "brand", "model", "year", "client_id",
	"client_name", "client_email", "created_at", "updated_at",
}

func TestListVehicles(t *testing.T) {
	repo, mock, cleanup := setupVehicleMock(t)
	defer cleanup()

	now := time.Now()
	rows := sqlmock.NewRows(enrichedCols).
		AddRow(int64(2), "CD-456-EF", "Renault", "Clio", int64(2021), int64(7), "Alice Durand", "alice@example.com", now, now).
		AddRow(int64(1), "AB-123-CD", "Peugeot", "308", nil, nil, "", "", now, now)
	mock.ExpectQuery(regexp.QuoteMeta(`LEFT JOIN users u ON v.client_id = u.id`)).
		WillReturnRows(rows)

	vehicles, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vehicles) != 2 {
		t.Fatalf("len(vehicles) = %d; want 2", len(vehicles))
	}
	if vehicles[0].ClientName != "Alice Durand" || vehicles[0].ClientEmail != "alice@example.com" {
		t.Errorf("missing enrichment on owned vehicle: %+v", vehicles[0])
	}
	if vehicles[1].ClientID != nil || vehicles[1].ClientName != "" {
		t.Errorf("unowned vehicle should have empty enrichment: %+v", vehicles[1])
	}
	if vehicles[1].Year != nil {
		t.Errorf("Year = %v; want nil", *vehicles[1].Year)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestCountVehicles(t *testing.T) {
	repo, mock, cleanup := setupVehicleMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM vehicles`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))

	count, err := repo.Count(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d; want 3", count)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestGetVehicleByID_Found(t *testing.T) {
	repo, mock, cleanup := setupVehicleMock(t)
	defer cleanup()

	now := time.Now()
	rows := sqlmock.NewRows(enrichedCols).
		AddRow(int64(1), "AB-123-CD", "Peugeot", "308", int64(2020), int64(7), "Alice Durand", "alice@example.com", now, now)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE v.id = $1`)).
		WithArgs(int64(1)).
		WillReturnRows(rows)

	v, err := repo.GetByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Plate != "AB-123-CD" || v.Brand != "Peugeot" || v.Model != "308" {
		t.Errorf("unexpected vehicle: %+v", v)
	}
	if v.Year == nil || *v.Year != 2020 {
		t.Errorf("Year = %v; want 2020", v.Year)
	}
	if v.ClientID == nil || *v.ClientID != 7 {
		t.Errorf("ClientID = %v; want 7", v.ClientID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestGetVehicleByID_NotFound(t *testing.T) {
	repo, mock, cleanup := setupVehicleMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE v.id = $1`)).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(enrichedCols))

	_, err := repo.GetByID(context.Background(), 99)
	if !errors.Is(err, models.ErrVehicleNotFound) {
		t.Errorf("error = %v; want models.ErrVehicleNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestListByClient(t *testing.T) {
	repo, mock, cleanup := setupVehicleMock(t)
	defer cleanup()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "plate", "brand", "model", "year", "client_id", "created_at", "updated_at"}).
		AddRow(int64(5), "EF-789-GH", "Citroen", "C3", nil, int64(7), now, now)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE client_id = $1`)).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	vehicles, err := repo.ListByClient(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vehicles) != 1 || vehicles[0].ID != 5 {
		t.Errorf("unexpected vehicles: %+v", vehicles)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPlateExists(t *testing.T) {
	repo, mock, cleanup := setupVehicleMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM vehicles WHERE plate = $1 AND id <> $2)`)).
		WithArgs("AB-123-CD", int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.PlateExists(context.Background(), "AB-123-CD", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Error("expected plate to exist")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestCreateVehicle_Success(t *testing.T) {
	repo, mock, cleanup := setupVehicleMock(t)
	defer cleanup()

	year := int64(2020)
	clientID := int64(7)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO vehicles (plate, brand, model, year, client_id)`)).
		WithArgs("AB-123-CD", "Peugeot", "308", year, clientID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))

	id, err := repo.Create(context.Background(), &models.Vehicle{
		Plate:    "AB-123-CD",
		Brand:    "Peugeot",
		Model:    "308",
		Year:     &year,
		ClientID: &clientID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 11 {
		t.Errorf("id = %d; want 11", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestCreateVehicle_NullableFields(t *testing.T) {
	repo, mock, cleanup := setupVehicleMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO vehicles (plate, brand, model, year, client_id)`)).
		WithArgs("AB-123-CD", "Peugeot", "308", nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(12)))

	id, err := repo.Create(context.Background(), &models.Vehicle{
		Plate: "AB-123-CD",
		Brand: "Peugeot",
		Model: "308",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 12 {
		t.Errorf("id = %d; want 12", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestCreateVehicle_DuplicatePlate(t *testing.T) {
	repo, mock, cleanup := setupVehicleMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO vehicles (plate, brand, model, year, client_id)`)).
		WithArgs("AB-123-CD", "Peugeot", "308", nil, nil).
		WillReturnError(&pq.Error{Code: uniqueViolation})

	_, err := repo.Create(context.Background(), &models.Vehicle{
		Plate: "AB-123-CD",
		Brand: "Peugeot",
		Model: "308",
	})
	if !errors.Is(err, models.ErrDuplicatePlate) {
		t.Errorf("error = %v; want models.ErrDuplicatePlate", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestCreateVehicle_BadClientReference(t *testing.T) {
	repo, mock, cleanup := setupVehicleMock(t)
	defer cleanup()

	clientID := int64(99)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO vehicles (plate, brand, model, year, client_id)`)).
		WithArgs("AB-123-CD", "Peugeot", "308", nil, clientID).
		WillReturnError(&pq.Error{Code: foreignKeyViolation})

	_, err := repo.Create(context.Background(), &models.Vehicle{
		Plate:    "AB-123-CD",
		Brand:    "Peugeot",
		Model:    "308",
		ClientID: &clientID,
	})
	if !errors.Is(err, models.ErrClientNotFound) {
		t.Errorf("error = %v; want models.ErrClientNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestUpdateVehicle_Success(t *testing.T) {
	repo, mock, cleanup := setupVehicleMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE vehicles`)).
		WithArgs("AB-123-CD", "Peugeot", "308", nil, nil, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), &models.Vehicle{
		ID:    1,
		Plate: "AB-123-CD",
		Brand: "Peugeot",
		Model: "308",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestUpdateVehicle_NotFound(t *testing.T) {
	repo, mock, cleanup := setupVehicleMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE vehicles`)).
		WithArgs("AB-123-CD", "Peugeot", "308", nil, nil, int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Vehicle{
		ID:    99,
		Plate: "AB-123-CD",
		Brand: "Peugeot",
		Model: "308",
	})
	if !errors.Is(err, models.ErrVehicleNotFound) {
		t.Errorf("error = %v; want models.ErrVehicleNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestDeleteVehicle(t *testing.T) {
	repo, mock, cleanup := setupVehicleMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM vehicles WHERE id = $1`)).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestDeleteVehicle_NotFound(t *testing.T) {
	repo, mock, cleanup := setupVehicleMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM vehicles WHERE id = $1`)).
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 99)
	if !errors.Is(err, models.ErrVehicleNotFound) {
		t.Errorf("error = %v; want models.ErrVehicleNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
