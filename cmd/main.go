package main

import (
	"context"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"ecodeli/internal/caching"
	"ecodeli/internal/config"
	"ecodeli/internal/handlers"
	"ecodeli/internal/jobs"
	"ecodeli/internal/jobs/background"
	"ecodeli/internal/repositories"
	"ecodeli/internal/services"
	"ecodeli/pkg/database"
)

// requestValidator plugs validator/v10 into echo's Validate hook.
type requestValidator struct {
	validator *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	pool, err := database.NewPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	cacheService := caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	documentService, err := services.NewMinioDocumentService(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.DocumentBucket, cfg.MinioUseSSL)
	if err != nil {
		log.Fatalf("Failed to initialize document storage: %v", err)
	}
	if err := documentService.EnsureBucketExists(context.Background()); err != nil {
		log.Printf("WARN: could not ensure document bucket exists: %v", err)
	}

	// Repositories
	warehouseRepo := repositories.NewWarehouseRepository(pool)
	deliveryRepo := repositories.NewDeliveryRepository(pool)
	routeRepo := repositories.NewRouteRepository(pool)
	transferRepo := repositories.NewTransferRepository(pool)
	locationRepo := repositories.NewPackageLocationRepository(pool)

	// Services
	capacityService := services.NewWarehouseCapacityService(locationRepo, cacheService)
	selector := services.NewWarehouseSelector(warehouseRepo, capacityService)
	warehouseService := services.NewWarehouseService(warehouseRepo, capacityService)
	optimizerService := services.NewRouteOptimizerService(routeRepo, deliveryRepo, cacheService)
	allocatorService := services.NewWarehouseAllocatorService(pool, warehouseRepo, locationRepo, transferRepo, selector, capacityService)
	trackingService := services.NewPackageTrackingService(pool, locationRepo, transferRepo, warehouseRepo, capacityService, cacheService)
	transferService := services.NewTransferQueryService(transferRepo)

	// Handlers
	routeHandlers := handlers.NewRouteHandlers(optimizerService)
	warehouseHandlers := handlers.NewWarehouseHandlers(warehouseService)
	transferHandlers := handlers.NewTransferHandlers(allocatorService, trackingService, transferService)
	documentHandlers := handlers.NewDocumentHandlers(documentService, transferService)
	healthHandlers := handlers.NewHealthHandlers(pool)

	// Background jobs
	alertService := jobs.NewStorageAlertService(locationRepo)
	scheduler := background.NewJobScheduler(alertService, capacityService, warehouseRepo)
	if err := scheduler.Start(); err != nil {
		log.Printf("WARN: failed to start job scheduler: %v", err)
	}
	defer scheduler.Stop()

	e := echo.New()
	e.Validator = &requestValidator{validator: validator.New()}

	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Pre(echoMiddleware.RemoveTrailingSlash())

	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)

	v1 := e.Group("/v1")

	v1.POST("/routes/optimize", routeHandlers.OptimizeRoute)
	v1.GET("/routes/:id", routeHandlers.GetRoute)
	v1.PUT("/routes/:id/status", routeHandlers.UpdateRouteStatus)
	v1.GET("/deliverers/:id/routes", routeHandlers.ListDelivererRoutes)

	v1.POST("/transfers", transferHandlers.CreateTransfer)
	v1.GET("/transfers/:id/movements", transferHandlers.ListMovements)
	v1.POST("/transfers/:id/documents", documentHandlers.UploadDocument)
	v1.GET("/transfers/:id/documents", documentHandlers.ListDocuments)
	v1.GET("/transfers/:id/documents/:name", documentHandlers.GetDocument)

	v1.GET("/tracking/:deliveryID", transferHandlers.TrackPackage)
	v1.GET("/tracking/number/:trackingNumber", transferHandlers.TrackByNumber)
	v1.PUT("/locations/:id/status", transferHandlers.UpdateLocationStatus)
	v1.POST("/locations/:id/move", transferHandlers.MovePackage)

	v1.GET("/warehouses", warehouseHandlers.ListWarehouses)
	v1.POST("/warehouses", warehouseHandlers.CreateWarehouse)
	v1.GET("/warehouses/:id", warehouseHandlers.GetWarehouse)

	log.Printf("Starting server on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
