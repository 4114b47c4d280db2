package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/williampious/faas-sub000/internal/handlers"
	"github.com/williampious/faas-sub000/internal/logger"
	"github.com/williampious/faas-sub000/internal/middleware"
	"github.com/williampious/faas-sub000/internal/models"
	"github.com/williampious/faas-sub000/internal/services"
	"github.com/williampious/faas-sub000/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.Farm{},
		&models.User{},
		&models.ActivityRecord{},
		&models.LineItem{},
		&models.LedgerEntry{},
		&models.FarmingYear{},
		&models.Budget{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	userService := services.NewUserService(db)
	farmService := services.NewFarmService(db)
	activityService := services.NewActivityService(db)
	reportService := services.NewReportService(db)
	farmingYearService := services.NewFarmingYearService(db)
	budgetService := services.NewBudgetService(db)
	auditService := services.NewAuditService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	farmHandler := handlers.NewFarmHandler(farmService, auditService)
	activityHandler := handlers.NewActivityHandler(activityService, auditService)
	reportHandler := handlers.NewReportHandler(reportService, farmingYearService, activityService)
	farmingYearHandler := handlers.NewFarmingYearHandler(farmingYearService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	farms := protected.Group("/farms")
	farms.GET("/current", farmHandler.GetCurrentFarm)
	farms.PUT("/current/subscription", farmHandler.UpdateSubscription)

	activities := protected.Group("/activities")
	activities.POST("", activityHandler.CreateActivity)
	activities.GET("", activityHandler.GetActivities)
	activities.GET("/:id", activityHandler.GetActivity)
	activities.PUT("/:id", activityHandler.UpdateActivity)
	activities.DELETE("/:id", activityHandler.DeleteActivity)

	reports := protected.Group("/reports")
	reports.GET("/financial-summary", reportHandler.GetFinancialSummary)
	reports.GET("/ledger-consistency", reportHandler.GetLedgerConsistency)

	farmingYears := protected.Group("/farming-years")
	farmingYears.POST("", farmingYearHandler.CreateFarmingYear)
	farmingYears.GET("", farmingYearHandler.GetFarmingYears)
	farmingYears.GET("/:id", farmingYearHandler.GetFarmingYear)
	farmingYears.PUT("/:id", farmingYearHandler.UpdateFarmingYear)
	farmingYears.DELETE("/:id", farmingYearHandler.DeleteFarmingYear)

	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.GET("/:id/reconciliation", budgetHandler.GetBudgetReconciliation)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerFarm registers a farm with its first user and returns the token pair.
func (app *testApp) registerFarm(t *testing.T, farmName, email, password string) (accessToken, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"farm_name":%q,"email":%q,"password":%q,"first_name":"Test","last_name":"User"}`,
		farmName, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["access_token"].(string), result["refresh_token"].(string)
}

// loginUser logs in and returns the access and refresh tokens.
func (app *testApp) loginUser(t *testing.T, email, password string) (accessToken, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["access_token"].(string), result["refresh_token"].(string)
}

// createActivity posts an activity record and returns its ID.
func (app *testApp) createActivity(t *testing.T, token, body string) float64 {
	t.Helper()
	rec := app.request("POST", "/api/v1/activities", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create activity failed: %d %s", rec.Code, rec.Body.String())
	}
	activity := parseJSON(t, rec)["activity"].(map[string]interface{})
	return activity["id"].(float64)
}

// getSummary fetches the financial summary for an explicit window.
func (app *testApp) getSummary(t *testing.T, token, query string) map[string]interface{} {
	t.Helper()
	rec := app.request("GET", "/api/v1/reports/financial-summary?"+query, "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("financial summary failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["summary"].(map[string]interface{})
}
