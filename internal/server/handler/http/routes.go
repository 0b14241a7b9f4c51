package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tlemaire/garagekeeper/internal/middleware"
	"github.com/tlemaire/garagekeeper/internal/models"
)

// NewRouter constructs the HTTP handler serving the garagekeeper API.
//
// Every route runs request logging first. Role-gated routes then pass the
// authorization gate, and mutating routes additionally pass the CSRF
// guard, in that fixed order. Read-only routes never invoke the CSRF
// guard.
//
// Routes:
//
//	GET    /api/csrf                          public   → fresh CSRF token
//	POST   /api/signup                        public   → register client user
//	POST   /api/signin                        public   → session cookie
//	GET    /api/clients                       admin
//	GET    /api/clients/count                 admin
//	GET    /api/vehicles                      admin
//	GET    /api/vehicles/count                admin
//	GET    /api/vehicles/{id}                 admin|client
//	GET    /api/vehicles/client/{clientID}    admin|client
//	POST   /api/vehicles                      admin + CSRF
//	PUT    /api/vehicles/{id}                 admin + CSRF
//	DELETE /api/vehicles/{id}                 admin + CSRF
func NewRouter(
	authHandler *AuthHandler,
	userHandler *UserHandler,
	vehicleHandler *VehicleHandler,
	gate *middleware.Authenticator,
	csrfGuard middleware.CSRFVerifier,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	admin := gate.RequireRoles(models.RoleAdmin)
	anyRole := gate.RequireRoles(models.RoleAdmin, models.RoleClient)
	csrf := middleware.RequireCSRF(csrfGuard)

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Get("/csrf", authHandler.CSRFToken)
		r.Post("/signup", authHandler.SignUp)
		r.Post("/signin", authHandler.SignIn)

		// Admin-only client listings
		r.Group(func(r chi.Router) {
			r.Use(admin)
			r.Get("/clients", userHandler.ListClients)
			r.Get("/clients/count", userHandler.CountClients)
		})

		r.Route("/vehicles", func(r chi.Router) {
			// Admin-only reads
			r.With(admin).Get("/", vehicleHandler.List)
			r.With(admin).Get("/count", vehicleHandler.Count)

			// Reads open to both roles. Client callers are deliberately
			// not scoped to their own vehicles.
			r.With(anyRole).Get("/{id}", vehicleHandler.Get)
			r.With(anyRole).Get("/client/{clientID}", vehicleHandler.ListByClient)

			// Mutations: gate first, CSRF second.
			r.With(admin, csrf).Post("/", vehicleHandler.Create)
			r.With(admin, csrf).Put("/{id}", vehicleHandler.Update)
			r.With(admin, csrf).Delete("/{id}", vehicleHandler.Delete)
		})
	})

	return r
}
