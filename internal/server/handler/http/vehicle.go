package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tlemaire/garagekeeper/internal/models"
	"github.com/tlemaire/garagekeeper/internal/service"
)

// VehicleService defines the vehicle operations required by the
// VehicleHandler.
type VehicleService interface {
	// List returns all vehicles with client enrichment, newest first.
	List(ctx context.Context) ([]models.Vehicle, error)
	// Count returns the total number of vehicle records.
	Count(ctx context.Context) (int64, error)
	// Get returns one enriched vehicle, or models.ErrVehicleNotFound.
	Get(ctx context.Context, id int64) (*models.Vehicle, error)
	// ListByClient returns the vehicles owned by the given client, newest first.
	ListByClient(ctx context.Context, clientID int64) ([]models.Vehicle, error)
	// Create validates and inserts a vehicle, returning the new id.
	Create(ctx context.Context, in service.VehicleInput) (int64, error)
	// Update validates and rewrites an existing vehicle.
	Update(ctx context.Context, id int64, in service.VehicleInput) error
	// Delete removes a vehicle, or returns models.ErrVehicleNotFound.
	Delete(ctx context.Context, id int64) error
}

// VehicleHandler handles the vehicle CRUD endpoints.
type VehicleHandler struct {
	VehicleService VehicleService
}

// List handles GET /api/vehicles.
func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.VehicleService.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if vehicles == nil {
		vehicles = []models.Vehicle{}
	}
	writeJSON(w, http.StatusOK, vehicles)
}

// Count handles GET /api/vehicles/count.
func (h *VehicleHandler) Count(w http.ResponseWriter, r *http.Request) {
	count, err := h.VehicleService.Count(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"count": count})
}

// Get handles GET /api/vehicles/{id}.
func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	vehicle, err := h.VehicleService.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

// ListByClient handles GET /api/vehicles/client/{clientID}.
func (h *VehicleHandler) ListByClient(w http.ResponseWriter, r *http.Request) {
	clientID, ok := pathID(w, r, "clientID")
	if !ok {
		return
	}
	vehicles, err := h.VehicleService.ListByClient(r.Context(), clientID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if vehicles == nil {
		vehicles = []models.Vehicle{}
	}
	writeJSON(w, http.StatusOK, vehicles)
}

// Create handles POST /api/vehicles.
func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.VehicleInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	id, err := h.VehicleService.Create(r.Context(), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// Update handles PUT /api/vehicles/{id}.
func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var in service.VehicleInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := h.VehicleService.Update(r.Context(), id, in); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "vehicle updated"})
}

// Delete handles DELETE /api/vehicles/{id}.
func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.VehicleService.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "vehicle deleted"})
}

// pathID parses a numeric URL parameter. A non-numeric value cannot match
// any record, so it reports 404.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "not found", http.StatusNotFound)
		return 0, false
	}
	return id, true
}
