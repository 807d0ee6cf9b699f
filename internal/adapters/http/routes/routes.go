package routes

import (
	"coolcare-api/internal/adapters/http/handlers"
	"coolcare-api/internal/adapters/http/middleware"
	"coolcare-api/internal/adapters/persistence/models"
	"coolcare-api/internal/adapters/persistence/repositories"
	"coolcare-api/internal/config"
	"coolcare-api/internal/core/services"
	"coolcare-api/internal/identity"
	"coolcare-api/internal/realtime"
	"coolcare-api/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, notifier realtime.Notifier, photos storage.Store) {
	// Identity store (credentials live apart from profiles)
	identities := identity.NewGormStore(db)

	// Initialize repositories
	profileRepo := repositories.NewProfileRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	roleRepo := repositories.NewRoleRepository(db)
	customerRepo := repositories.NewCustomerRepository(db)
	projectRepo := repositories.NewProjectRepository(db)
	brandRepo := repositories.NewACBrandRepository(db)
	typeRepo := repositories.NewACTypeRepository(db)
	pkRepo := repositories.NewACPkRepository(db)
	requestRepo := repositories.NewRequestRepository(db)

	// Initialize services
	authService := services.NewAuthService(identities, profileRepo, refreshTokenRepo, cfg)
	provisionService := services.NewProvisionService(identities, profileRepo, roleRepo, customerRepo, refreshTokenRepo)
	requestService := services.NewRequestService(requestRepo, customerRepo, projectRepo, photos, notifier)
	dashboardService := services.NewDashboardService(db, requestRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	provisionHandler := handlers.NewProvisionHandler(provisionService)
	masterHandler := handlers.NewMasterHandler(roleRepo, brandRepo, typeRepo, pkRepo)
	customerHandler := handlers.NewCustomerHandler(customerRepo, projectRepo)
	requestHandler := handlers.NewRequestHandler(requestService, notifier)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Stored job photos
	app.Static(cfg.Storage.PublicBase, cfg.Storage.Root)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, healthHandler, authHandler, provisionHandler,
		masterHandler, customerHandler, requestHandler, dashboardHandler,
		profileRepo, cfg)
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(
	router fiber.Router,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	provisionHandler *handlers.ProvisionHandler,
	masterHandler *handlers.MasterHandler,
	customerHandler *handlers.CustomerHandler,
	requestHandler *handlers.RequestHandler,
	dashboardHandler *handlers.DashboardHandler,
	profileRepo repositories.ProfileRepository,
	cfg *config.Config,
) {
	// API Info
	router.Get("/", healthHandler.APIInfo)

	// Auth routes (public). No register route: accounts only exist through
	// admin provisioning.
	authRoutes := router.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// Provisioning routes (Admin only, role re-derived from the store).
	// Middleware order is load-bearing: authenticate, then authorize, and
	// only inside the handler is the body ever parsed.
	adminUserRoutes := router.Group("/admin/users")
	adminUserRoutes.Use(middleware.AuthMiddleware(cfg))
	adminUserRoutes.Use(middleware.AdminRequired(profileRepo))
	adminUserRoutes.Use(middleware.StrictRateLimiter())
	setupProvisionRoutes(adminUserRoutes, provisionHandler)

	// Master data routes (reads for all authenticated users, writes admin only)
	masterRoutes := router.Group("/master")
	masterRoutes.Use(middleware.AuthMiddleware(cfg))
	setupMasterRoutes(masterRoutes, masterHandler, profileRepo)

	// Customer & project routes
	customerRoutes := router.Group("")
	customerRoutes.Use(middleware.AuthMiddleware(cfg))
	setupCustomerRoutes(customerRoutes, customerHandler, profileRepo)

	// Request (job) routes
	requestRoutes := router.Group("/requests")
	requestRoutes.Use(middleware.AuthMiddleware(cfg))
	setupRequestRoutes(requestRoutes, requestHandler)

	// Dashboard routes
	dashboardRoutes := router.Group("/dashboard")
	dashboardRoutes.Use(middleware.AuthMiddleware(cfg))
	dashboardRoutes.Use(middleware.NoCacheHeaders())
	setupDashboardRoutes(dashboardRoutes, dashboardHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes (login is rate limited against brute force)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupProvisionRoutes configures admin user provisioning routes
func setupProvisionRoutes(router fiber.Router, handler *handlers.ProvisionHandler) {
	router.Get("/", handler.ListUsers)
	router.Get("/:id", handler.GetUser)
	router.Post("/", handler.CreateUser)
	router.Put("/:id/password", handler.UpdatePassword)
	router.Delete("/:id", handler.DeleteUser)
}

// setupMasterRoutes configures master data routes
func setupMasterRoutes(router fiber.Router, handler *handlers.MasterHandler, profileRepo repositories.ProfileRepository) {
	// Reads (all authenticated roles, cacheable)
	reads := router.Group("")
	reads.Use(middleware.MasterDataCache())
	reads.Get("/roles", handler.ListRoles)
	reads.Get("/ac-brands", handler.ListACBrands)
	reads.Get("/ac-types", handler.ListACTypes)
	reads.Get("/ac-pks", handler.ListACPks)

	// Writes (Admin only)
	writes := router.Group("")
	writes.Use(middleware.AdminRequired(profileRepo))

	writes.Post("/ac-brands", handler.CreateACBrand)
	writes.Put("/ac-brands/:id", handler.UpdateACBrand)
	writes.Delete("/ac-brands/:id", handler.DeleteACBrand)

	writes.Post("/ac-types", handler.CreateACType)
	writes.Put("/ac-types/:id", handler.UpdateACType)
	writes.Delete("/ac-types/:id", handler.DeleteACType)

	writes.Post("/ac-pks", handler.CreateACPk)
	writes.Put("/ac-pks/:id", handler.UpdateACPk)
	writes.Delete("/ac-pks/:id", handler.DeleteACPk)
}

// setupCustomerRoutes configures customer and project routes
func setupCustomerRoutes(router fiber.Router, handler *handlers.CustomerHandler, profileRepo repositories.ProfileRepository) {
	// Reads (all authenticated roles)
	router.Get("/customers", handler.ListCustomers)
	router.Get("/customers/:id", handler.GetCustomer)
	router.Get("/projects", handler.ListProjects)
	router.Get("/projects/:id", handler.GetProject)

	// Writes (Admin only)
	writes := router.Group("")
	writes.Use(middleware.AdminRequired(profileRepo))

	writes.Post("/customers", handler.CreateCustomer)
	writes.Put("/customers/:id", handler.UpdateCustomer)
	writes.Delete("/customers/:id", handler.DeleteCustomer)

	writes.Post("/projects", handler.CreateProject)
	writes.Put("/projects/:id", handler.UpdateProject)
	writes.Delete("/projects/:id", handler.DeleteProject)
}

// setupRequestRoutes configures maintenance job routes
func setupRequestRoutes(router fiber.Router, handler *handlers.RequestHandler) {
	router.Get("/", handler.ListRequests)
	router.Get("/watch", handler.WatchRequests)
	router.Get("/:id", handler.GetRequest)
	router.Post("/", handler.CreateRequest)
	router.Put("/:id", handler.UpdateRequest)
	router.Delete("/:id", middleware.RoleMiddleware(models.RoleAdmin), handler.DeleteRequest)
	router.Post("/:id/photos", handler.UploadPhoto)
}

// setupDashboardRoutes configures dashboard routes
func setupDashboardRoutes(router fiber.Router, handler *handlers.DashboardHandler) {
	// Auto-detect role dashboard (All authenticated users)
	router.Get("/", handler.GetDashboard)

	// Role-specific dashboards
	router.Get("/admin", middleware.RoleMiddleware(models.RoleAdmin), handler.GetAdminDashboard)
	router.Get("/technician", middleware.RoleMiddleware(models.RoleTechnician, models.RoleAdmin), handler.GetTechnicianDashboard)
	router.Get("/customer", middleware.RoleMiddleware(models.RoleCustomer, models.RoleAdmin), handler.GetCustomerDashboard)
}
