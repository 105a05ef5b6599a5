package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"stockledger/internal/caching"
	"stockledger/internal/handlers"
	"stockledger/internal/jobs"
	"stockledger/internal/middleware"
	"stockledger/internal/repositories"
	"stockledger/internal/services"
	"stockledger/pkg/database"
)

const version = "1.0.0"

func main() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(context.Background(), databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: Using generated JWT secret")
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if redisDBStr := os.Getenv("REDIS_DB"); redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	// Create repositories
	userRepo := repositories.NewUserRepo(pool)
	productRepo := repositories.NewProductRepo(pool)
	locationRepo := repositories.NewLocationRepo(pool)
	stockItemRepo := repositories.NewStockItemRepo(pool)
	movementRepo := repositories.NewMovementRepo(pool)
	txRunner := repositories.NewTxRunner(pool)

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Create services
	authSvc := services.NewAuthService(jwtSecret, 7*24*time.Hour)
	productSvc := services.NewProductService(productRepo, cacheSvc)
	locationSvc := services.NewLocationService(locationRepo)
	movementSvc := services.NewMovementService(productSvc, txRunner, movementRepo, stockItemRepo, cacheSvc)

	// Create handlers
	authHandlers := handlers.NewAuthHandlers(authSvc, userRepo)
	productHandlers := handlers.NewProductHandlers(productSvc)
	locationHandlers := handlers.NewLocationHandlers(locationSvc)
	movementHandlers := handlers.NewMovementHandlers(movementSvc)
	dashboardHandlers := handlers.NewDashboardHandlers(productSvc, movementSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	// Projection audit job
	auditor, err := jobs.NewProjectionAuditor(movementRepo, stockItemRepo, 15*time.Minute)
	if err != nil {
		log.Fatalf("Failed to create projection auditor: %v", err)
	}
	auditor.Start()
	defer func() {
		if err := auditor.Stop(); err != nil {
			log.Printf("Failed to stop projection auditor: %v", err)
		}
	}()

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)

	api := e.Group("/api")

	// Authentication routes (no JWT required)
	auth := api.Group("/auth")
	auth.POST("/register", authHandlers.Register)
	auth.POST("/login", authHandlers.Login)

	// Seed route (no auth; idempotent starter data)
	api.POST("/seed", locationHandlers.Seed)

	// Protected routes
	protected := api.Group("")
	protected.Use(middleware.JWTMiddleware(authSvc))

	protected.GET("/auth/me", authHandlers.Me)

	protected.GET("/products", productHandlers.ListProducts)
	protected.POST("/products", productHandlers.CreateProduct)

	protected.GET("/locations", locationHandlers.ListLocations)
	protected.POST("/locations", locationHandlers.CreateLocation)

	protected.POST("/movements", movementHandlers.CreateMovement)
	protected.GET("/movements", movementHandlers.ListMovements)
	protected.GET("/stock", movementHandlers.ListStockLevels)

	protected.GET("/dashboard", dashboardHandlers.GetDashboard)

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	log.Printf("stockledger v%s starting on port %d", version, port)
	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", port)))
}
