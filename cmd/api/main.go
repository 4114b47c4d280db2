package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/williampious/faas-sub000/internal/config"
	"github.com/williampious/faas-sub000/internal/database"
	"github.com/williampious/faas-sub000/internal/handlers"
	"github.com/williampious/faas-sub000/internal/logger"
	"github.com/williampious/faas-sub000/internal/middleware"
	"github.com/williampious/faas-sub000/internal/services"
	"github.com/williampious/faas-sub000/internal/validator"

	_ "github.com/williampious/faas-sub000/internal/docs" // Import swagger docs
)

// @title           AgriFAAS Operations API
// @version         1.0
// @description     AgriFAAS Operations is a farm management backend covering the operational ledger, financial reporting, farming year planning, and budget reconciliation.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Register custom binding validators
	validator.Register()

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	farmService := services.NewFarmService(db)
	activityService := services.NewActivityService(db)
	reportService := services.NewReportService(db)
	farmingYearService := services.NewFarmingYearService(db)
	budgetService := services.NewBudgetService(db)
	auditService := services.NewAuditService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	farmHandler := handlers.NewFarmHandler(farmService, auditService)
	activityHandler := handlers.NewActivityHandler(activityService, auditService)
	reportHandler := handlers.NewReportHandler(reportService, farmingYearService, activityService)
	farmingYearHandler := handlers.NewFarmingYearHandler(farmingYearService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Farm routes
	farms := protected.Group("/farms")
	farms.GET("/current", farmHandler.GetCurrentFarm)
	farms.PUT("/current/subscription", farmHandler.UpdateSubscription)

	// Activity routes
	activities := protected.Group("/activities")
	activities.POST("", activityHandler.CreateActivity)
	activities.GET("", activityHandler.GetActivities)
	activities.GET("/:id", activityHandler.GetActivity)
	activities.PUT("/:id", activityHandler.UpdateActivity)
	activities.DELETE("/:id", activityHandler.DeleteActivity)

	// Report routes
	reports := protected.Group("/reports")
	reports.GET("/financial-summary", reportHandler.GetFinancialSummary)
	reports.GET("/ledger-consistency", reportHandler.GetLedgerConsistency)

	// Farming year routes
	farmingYears := protected.Group("/farming-years")
	farmingYears.POST("", farmingYearHandler.CreateFarmingYear)
	farmingYears.GET("", farmingYearHandler.GetFarmingYears)
	farmingYears.GET("/:id", farmingYearHandler.GetFarmingYear)
	farmingYears.PUT("/:id", farmingYearHandler.UpdateFarmingYear)
	farmingYears.DELETE("/:id", farmingYearHandler.DeleteFarmingYear)

	// Budget routes
	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.GET("/:id/reconciliation", budgetHandler.GetBudgetReconciliation)

	log.Infof("Starting AgriFAAS Operations backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
