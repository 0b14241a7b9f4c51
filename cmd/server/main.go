// Package main initializes and starts the garagekeeper HTTP server,
// setting up configuration, logging, the database connection,
// repositories, services and handlers.
package main

import (
	"cmp"
	"fmt"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/tlemaire/garagekeeper/internal/config"
	"github.com/tlemaire/garagekeeper/internal/csrf"
	"github.com/tlemaire/garagekeeper/internal/db"
	"github.com/tlemaire/garagekeeper/internal/logger"
	"github.com/tlemaire/garagekeeper/internal/middleware"
	"github.com/tlemaire/garagekeeper/internal/repository"
	"github.com/tlemaire/garagekeeper/internal/server/handler/http"
	"github.com/tlemaire/garagekeeper/internal/service"
	"github.com/tlemaire/garagekeeper/internal/session"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	if options.SessionSecret == "" || options.CSRFSecret == "" {
		zapLogger.Fatal("session and CSRF secrets must be configured")
	}

	// Initialize PostgreSQL connection and schema.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Initialize repositories.
	userRepo := repository.NewPostgresUserRepository(postgresDB)
	vehicleRepo := repository.NewPostgresVehicleRepository(postgresDB)

	// Secrets are injected here rather than read from package globals,
	// so tests can construct authenticators with distinct secrets.
	sessions := session.NewManager(options.SessionSecret, options.SessionTTL)
	csrfGuard := csrf.NewGuard(options.CSRFSecret)

	// Initialize business-logic services.
	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo)
	vehicleService := service.NewVehicleService(vehicleRepo, userRepo)

	// Create HTTP handlers.
	authHandler := &http.AuthHandler{AuthService: authService, Sessions: sessions, CSRF: csrfGuard}
	userHandler := &http.UserHandler{UserService: userService}
	vehicleHandler := &http.VehicleHandler{VehicleService: vehicleService}

	// The authorization gate composes session verification with the
	// per-route allowed-role sets declared in the router.
	gate := &middleware.Authenticator{Sessions: sessions, Users: userRepo}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, userHandler, vehicleHandler, gate, csrfGuard, zapLogger)

	server := &nethttp.Server{
		Addr:    options.Port,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Port))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
