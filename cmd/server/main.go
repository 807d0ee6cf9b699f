package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"coolcare-api/internal/adapters/http/middleware"
	"coolcare-api/internal/adapters/http/routes"
	"coolcare-api/internal/adapters/persistence/models"
	"coolcare-api/internal/adapters/persistence/repositories"
	"coolcare-api/internal/config"
	"coolcare-api/internal/core/services"
	"coolcare-api/internal/identity"
	"coolcare-api/internal/realtime"
	"coolcare-api/internal/storage"

	"github.com/gofiber/fiber/v2"

	_ "coolcare-api/docs" // Swagger docs
)

// @title CoolCare FieldOps API
// @version 1.0
// @description AC maintenance field-service API: provisioning, jobs, photos, dashboards.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@coolcare.id

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host api.fieldops.coolcare.id
// @BasePath /api/v1
// @schemes https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	if err := identity.Migrate(db); err != nil {
		log.Fatalf("❌ Failed to migrate identity store: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed master data (roles, AC catalog, initial admin)
	if err := config.SeedMasterData(db); err != nil {
		log.Printf("⚠️ Warning: Failed to seed master data: %v", err)
	}

	// Change-notification bus (Redis if configured, in-process otherwise)
	notifier := realtime.New(cfg.Redis)
	defer notifier.Close()

	// Job-photo storage
	photos, err := storage.NewDiskStore(cfg.Storage.Root, cfg.Storage.PublicBase)
	if err != nil {
		log.Fatalf("❌ Failed to initialize photo storage: %v", err)
	}

	// Nightly orphan reconciliation + hourly token purge
	reconcileService := services.NewReconcileService(
		identity.NewGormStore(db),
		repositories.NewProfileRepository(db),
		repositories.NewRoleRepository(db),
		repositories.NewRefreshTokenRepository(db),
	)
	reconcileService.Start()
	defer reconcileService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "CoolCare FieldOps API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
		BodyLimit:    25 * 1024 * 1024, // job photos come in as multipart uploads
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	routes.Setup(app, db, cfg, notifier, photos)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
