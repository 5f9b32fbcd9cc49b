package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/atelierhq/backoffice/internal/api/handler"
	"github.com/atelierhq/backoffice/internal/api/middleware"
	"github.com/atelierhq/backoffice/internal/core/domain"
	"github.com/atelierhq/backoffice/internal/core/ports"
	"github.com/atelierhq/backoffice/internal/core/service"
	mongorepo "github.com/atelierhq/backoffice/internal/infrastructure/db/mongo"
	redisstore "github.com/atelierhq/backoffice/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The audit recorder is injected so its worker lifecycle stays owned by main.
func NewRouter(db *mongo.Database, rdb *redis.Client, jwtSecret string, audit ports.AuditRecorder, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("backoffice"))

	// --- Repositories ---
	settingRepo := mongorepo.NewSettingRepository(db)
	customerRepo := mongorepo.NewCustomerRepository(db)
	orderRepo := mongorepo.NewOrderRepository(db)
	productionRepo := mongorepo.NewProductionRepository(db)
	userRepo := mongorepo.NewUserRepository(db)
	sessionStore := redisstore.NewSessionStore(rdb)

	// --- Services ---
	settingsService := service.NewSettingsService(settingRepo, log)
	accessService := service.NewAccessService(settingsService, log)
	authService := service.NewAuthService(userRepo, sessionStore, settingsService, jwtSecret, log)
	customerService := service.NewCustomerService(customerRepo, settingsService, audit, log)
	orderService := service.NewOrderService(orderRepo, settingsService, audit, log)
	productionService := service.NewProductionService(productionRepo, audit, log)
	userService := service.NewUserService(userRepo, audit, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService, accessService)
	customerHandler := handler.NewCustomerHandler(customerService)
	orderHandler := handler.NewOrderHandler(orderService)
	dashboardHandler := handler.NewDashboardHandler(orderService)
	productionHandler := handler.NewProductionHandler(productionService)
	userHandler := handler.NewUserHandler(userService)
	settingsHandler := handler.NewSettingsHandler(settingsService)

	authMiddleware := middleware.Auth(jwtSecret, authService)
	gate := func(f domain.Feature) echo.MiddlewareFunc {
		return middleware.RequireFeature(f, accessService)
	}

	// --- Public routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout)

	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Authenticated routes, gated per feature ---
	auth := e.Group("", authMiddleware)

	auth.GET("/", func(c echo.Context) error {
		role, _ := c.Get("role").(string)
		return c.Redirect(http.StatusFound, accessService.DefaultLandingRoute(c.Request().Context(), role))
	})
	auth.GET("/me", authHandler.Me)

	dashboard := auth.Group("/dashboard", gate(domain.FeatureDashboard))
	dashboard.GET("", dashboardHandler.Summary)

	customers := auth.Group("/customers", gate(domain.FeatureCustomers))
	customers.POST("", customerHandler.Create)
	customers.GET("", customerHandler.List)
	customers.GET("/:id", customerHandler.Get)
	customers.PUT("/:id", customerHandler.Update)
	customers.DELETE("/:id", customerHandler.Archive)

	orders := auth.Group("/orders", gate(domain.FeatureOrders))
	orders.POST("", orderHandler.Create)
	orders.GET("", orderHandler.List)
	orders.GET("/:id", orderHandler.Get)
	orders.PATCH("/:id/status", orderHandler.UpdateStatus)

	production := auth.Group("/production", gate(domain.FeatureProduction))
	production.POST("/jobs", productionHandler.CreateJob)
	production.GET("/jobs", productionHandler.List)
	production.PATCH("/jobs/:id/stage", productionHandler.UpdateStage)

	// The workspace is the production team's view over the same jobs.
	workspace := auth.Group("/workspace", gate(domain.FeatureWorkspace))
	workspace.GET("", productionHandler.List)
	workspace.PATCH("/jobs/:id/stage", productionHandler.UpdateStage)

	supplier := auth.Group("/supplier-tracking", gate(domain.FeatureSupplierTracking))
	supplier.GET("", productionHandler.AtSupplier)

	users := auth.Group("/users", gate(domain.FeatureUsers))
	users.POST("", userHandler.Create)
	users.GET("", userHandler.List)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.PUT("/:id/password", userHandler.ChangePassword)

	settings := auth.Group("/settings", gate(domain.FeatureSettings))
	settings.GET("/categories", settingsHandler.Categories)
	settings.GET("/categories/:name", settingsHandler.Category)
	settings.GET("/export", settingsHandler.Export)
	settings.GET("/restart-required", settingsHandler.RestartRequired)
	settings.POST("/bulk", settingsHandler.BulkUpdate)
	settings.POST("/cache/clear", settingsHandler.ClearCache)
	settings.PUT("/:key", settingsHandler.Update)
	settings.POST("/:key/reset", settingsHandler.Reset)

	profile := auth.Group("/profile", gate(domain.FeatureProfile))
	profile.GET("", authHandler.Me)

	return e
}
