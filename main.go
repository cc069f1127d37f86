package main

import (
	"context"
	"log"
	"net/http"

	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/cutroom-hq/cutroom-engine/pkg/auth"
	"github.com/cutroom-hq/cutroom-engine/pkg/config"
	"github.com/cutroom-hq/cutroom-engine/pkg/database"
	"github.com/cutroom-hq/cutroom-engine/pkg/handlers"
	"github.com/cutroom-hq/cutroom-engine/pkg/logging"
	"github.com/cutroom-hq/cutroom-engine/pkg/middleware"
	"github.com/cutroom-hq/cutroom-engine/pkg/repositories"
	"github.com/cutroom-hq/cutroom-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.Bool("auth_verification", cfg.Auth.EnableVerification),
		zap.String("database", cfg.Database.Host),
		zap.String("migrations_path", cfg.MigrationsPath))

	ctx := context.Background()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Migrations run over a database/sql handle borrowed from the pool.
	migrationDB := stdlib.OpenDBFromPool(db.Pool)
	if err := database.RunMigrations(migrationDB, cfg.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	jwksClient, err := auth.NewJWKSClient(&auth.JWKSConfig{
		EnableVerification: cfg.Auth.EnableVerification,
		JWKSEndpoints:      cfg.Auth.JWKSEndpoints,
	})
	if err != nil {
		logger.Fatal("Failed to create JWKS client", zap.Error(err))
	}
	defer jwksClient.Close()

	authService := auth.NewAuthService(jwksClient, logger)
	authMiddleware := auth.NewMiddleware(authService, logger)

	profileRepo := repositories.NewProfileRepository(db)
	projectRepo := repositories.NewProjectRepository(db)

	userService := services.NewUserService(profileRepo, logger)
	projectService := services.NewProjectService(projectRepo, profileRepo, logger)
	dashboardService := services.NewDashboardService(projectRepo, profileRepo, logger)
	reportService := services.NewReportService(projectRepo, profileRepo, logger)

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(cfg, logger)
	healthHandler.RegisterRoutes(mux)

	projectsHandler := handlers.NewProjectsHandler(projectService, logger)
	projectsHandler.RegisterRoutes(mux, authMiddleware)

	usersHandler := handlers.NewUsersHandler(userService, logger)
	usersHandler.RegisterRoutes(mux, authMiddleware)

	profileHandler := handlers.NewProfileHandler(userService, logger)
	profileHandler.RegisterRoutes(mux, authMiddleware)

	dashboardHandler := handlers.NewDashboardHandler(dashboardService, logger)
	dashboardHandler.RegisterRoutes(mux, authMiddleware)

	reportsHandler := handlers.NewReportsHandler(reportService, logger)
	reportsHandler.RegisterRoutes(mux, authMiddleware)

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting cutroom-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
