package main

import (
	"project-service/internal/handler"
	"project-service/internal/middleware"
	"project-service/internal/tenancy"
	"project-service/pkg/config"
	"project-service/pkg/database"
	"project-service/pkg/healthtracker"
	"project-service/pkg/jwtutil"
	"project-service/pkg/logger"
	"project-service/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting project service...", zap.String("environment", cfg.Server.Env))

	// Initialize database
	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize JWT utility
	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utility initialized")

	// Resolve the tenancy enforcement mode once for the process lifetime
	mode := tenancy.ResolveMode(cfg.Tenancy.EnforcementMode)
	log.Info("Tenancy enforcement mode resolved",
		zap.String("configured", cfg.Tenancy.EnforcementMode),
		zap.String("mode", string(mode)))

	tracker := healthtracker.NewClient(cfg.Tenancy.HealthTrackerURL, cfg.Tenancy.HealthTrackerTimeout, log)
	reporter := tenancy.NewReporter(mode, cfg.Tenancy.WarningHeader, tracker)
	handler.Initialize(reporter)

	// Initialize Prometheus metrics
	prometheus.SetServiceInfo("1.0.0", string(mode))
	log.Info("Prometheus metrics initialized")

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover()) // Add recovery middleware
	e.Use(echomiddleware.CORS())    // Add CORS middleware
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// API routes - all require authentication and tenant context
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware)
	api.Use(middleware.RequireTenantContext(reporter))

	// Project management
	projects := api.Group("/projects")
	projects.POST("", handler.CreateProject)
	projects.GET("", handler.ListProjects)
	projects.GET("/:id", handler.GetProject)
	projects.PUT("/:id", handler.UpdateProject)
	projects.DELETE("/:id", handler.DeleteProject)

	// Task management
	tasks := api.Group("/tasks")
	tasks.POST("", handler.CreateTask)
	tasks.GET("", handler.ListTasks)
	tasks.GET("/:id", handler.GetTask)
	tasks.PUT("/:id", handler.UpdateTask)
	tasks.DELETE("/:id", handler.DeleteTask)

	// Get server port from configuration
	port := cfg.Server.Port

	// Start server
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
