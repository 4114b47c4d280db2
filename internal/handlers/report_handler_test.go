package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/williampious/faas-sub000/internal/errors"
	"github.com/williampious/faas-sub000/internal/models"
	"github.com/williampious/faas-sub000/internal/pagination"
	"github.com/williampious/faas-sub000/internal/services"
)

// --- mock report and farming-year services ---

type mockReportService struct {
	aggregateFn func(farmID uint, window services.Window, moduleFilter []models.ActivityModule) (*services.FinancialSummary, error)
}

func (m *mockReportService) Aggregate(farmID uint, window services.Window, moduleFilter []models.ActivityModule) (*services.FinancialSummary, error) {
	if m.aggregateFn != nil {
		return m.aggregateFn(farmID, window, moduleFilter)
	}
	return &services.FinancialSummary{Window: window}, nil
}

var _ services.ReportServicer = (*mockReportService)(nil)

type mockFarmingYearService struct {
	createFarmingYearFn  func(farmID uint, name string, startDate, endDate time.Time, seasons []services.SeasonInput) (*models.FarmingYear, error)
	getFarmingYearsFn    func(farmID uint, page pagination.PageRequest) (*pagination.PageResponse[models.FarmingYear], error)
	getFarmingYearByIDFn func(farmID, yearID uint) (*models.FarmingYear, error)
	updateFarmingYearFn  func(farmID, yearID uint, name string, startDate, endDate *time.Time, seasons []services.SeasonInput) (*models.FarmingYear, error)
	deleteFarmingYearFn  func(farmID, yearID uint) error
	resolveWindowFn      func(farmID uint, scope services.WindowScope) (services.Window, error)
}

func (m *mockFarmingYearService) CreateFarmingYear(farmID uint, name string, startDate, endDate time.Time, seasons []services.SeasonInput) (*models.FarmingYear, error) {
	if m.createFarmingYearFn != nil {
		return m.createFarmingYearFn(farmID, name, startDate, endDate, seasons)
	}
	return &models.FarmingYear{}, nil
}

func (m *mockFarmingYearService) GetFarmingYears(farmID uint, page pagination.PageRequest) (*pagination.PageResponse[models.FarmingYear], error) {
	if m.getFarmingYearsFn != nil {
		return m.getFarmingYearsFn(farmID, page)
	}
	resp := pagination.NewPageResponse([]models.FarmingYear{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockFarmingYearService) GetFarmingYearByID(farmID, yearID uint) (*models.FarmingYear, error) {
	if m.getFarmingYearByIDFn != nil {
		return m.getFarmingYearByIDFn(farmID, yearID)
	}
	return &models.FarmingYear{}, nil
}

func (m *mockFarmingYearService) UpdateFarmingYear(farmID, yearID uint, name string, startDate, endDate *time.Time, seasons []services.SeasonInput) (*models.FarmingYear, error) {
	if m.updateFarmingYearFn != nil {
		return m.updateFarmingYearFn(farmID, yearID, name, startDate, endDate, seasons)
	}
	return &models.FarmingYear{}, nil
}

func (m *mockFarmingYearService) DeleteFarmingYear(farmID, yearID uint) error {
	if m.deleteFarmingYearFn != nil {
		return m.deleteFarmingYearFn(farmID, yearID)
	}
	return nil
}

func (m *mockFarmingYearService) ResolveWindow(farmID uint, scope services.WindowScope) (services.Window, error) {
	if m.resolveWindowFn != nil {
		return m.resolveWindowFn(farmID, scope)
	}
	return services.Window{}, nil
}

var _ services.FarmingYearServicer = (*mockFarmingYearService)(nil)

func setupReportRouter(handler *ReportHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectAuth(1, 7))
	auth.GET("/reports/financial-summary", handler.GetFinancialSummary)
	auth.GET("/reports/ledger-consistency", handler.GetLedgerConsistency)
	return r
}

func TestReportHandler_GetFinancialSummary(t *testing.T) {
	t.Run("returns 200 with summary", func(t *testing.T) {
		reportSvc := &mockReportService{
			aggregateFn: func(_ uint, window services.Window, _ []models.ActivityModule) (*services.FinancialSummary, error) {
				return &services.FinancialSummary{
					Window:        window,
					TotalIncome:   300,
					TotalExpense:  100,
					NetProfitLoss: 200,
					ProfitMargin:  66.67,
					Monthly:       []services.MonthlyPoint{{Month: "Jan 24", Income: 300, Expense: 100}},
					Categories:    []services.CategoryTotal{{Name: "labor", Total: 100, Percentage: 100}},
				}, nil
			},
		}
		handler := NewReportHandler(reportSvc, &mockFarmingYearService{}, &mockActivityService{})
		r := setupReportRouter(handler)

		rec := doRequest(r, "GET", "/reports/financial-summary", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		summary := result["summary"].(map[string]interface{})
		if summary["total_income"].(float64) != 300 {
			t.Errorf("expected total_income=300, got %v", summary["total_income"])
		}
		monthly := summary["monthly"].([]interface{})
		if len(monthly) != 1 {
			t.Fatalf("expected 1 monthly point, got %d", len(monthly))
		}
		point := monthly[0].(map[string]interface{})
		if point["month"] != "Jan 24" {
			t.Errorf("expected month Jan 24, got %v", point["month"])
		}
	})

	t.Run("passes explicit window scope to resolver", func(t *testing.T) {
		var captured services.WindowScope
		yearSvc := &mockFarmingYearService{
			resolveWindowFn: func(_ uint, scope services.WindowScope) (services.Window, error) {
				captured = scope
				return services.Window{Start: *scope.Start, End: *scope.End}, nil
			},
		}
		handler := NewReportHandler(&mockReportService{}, yearSvc, &mockActivityService{})
		r := setupReportRouter(handler)

		rec := doRequest(r, "GET",
			"/reports/financial-summary?mode=explicit&start_date=2024-01-01T00:00:00Z&end_date=2024-01-31T00:00:00Z", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if captured.Mode != services.WindowExplicit {
			t.Errorf("expected explicit mode, got %s", captured.Mode)
		}
		if captured.Start == nil || captured.End == nil {
			t.Fatal("expected start and end dates to be passed")
		}
	})

	t.Run("defaults to rolling twelve months", func(t *testing.T) {
		var captured services.WindowScope
		yearSvc := &mockFarmingYearService{
			resolveWindowFn: func(_ uint, scope services.WindowScope) (services.Window, error) {
				captured = scope
				return services.Window{}, nil
			},
		}
		handler := NewReportHandler(&mockReportService{}, yearSvc, &mockActivityService{})
		r := setupReportRouter(handler)

		doRequest(r, "GET", "/reports/financial-summary", "")

		if captured.Mode != services.WindowRolling12 {
			t.Errorf("expected rolling12 mode by default, got %s", captured.Mode)
		}
	})

	t.Run("passes module filter to aggregation", func(t *testing.T) {
		var captured []models.ActivityModule
		reportSvc := &mockReportService{
			aggregateFn: func(_ uint, window services.Window, moduleFilter []models.ActivityModule) (*services.FinancialSummary, error) {
				captured = moduleFilter
				return &services.FinancialSummary{Window: window}, nil
			},
		}
		handler := NewReportHandler(reportSvc, &mockFarmingYearService{}, &mockActivityService{})
		r := setupReportRouter(handler)

		doRequest(r, "GET", "/reports/financial-summary?modules=feeding,health", "")

		if len(captured) != 2 || captured[0] != models.ModuleFeeding || captured[1] != models.ModuleHealth {
			t.Errorf("expected [feeding health], got %v", captured)
		}
	})

	t.Run("returns empty summary for stale year selection", func(t *testing.T) {
		yearSvc := &mockFarmingYearService{
			resolveWindowFn: func(_ uint, _ services.WindowScope) (services.Window, error) {
				return services.Window{}, apperrors.ErrFarmingYearNotFound
			},
		}
		handler := NewReportHandler(&mockReportService{}, yearSvc, &mockActivityService{})
		r := setupReportRouter(handler)

		rec := doRequest(r, "GET", "/reports/financial-summary?mode=farming_year&year_id=999", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		summary := result["summary"].(map[string]interface{})
		if summary["total_income"].(float64) != 0 || summary["total_expense"].(float64) != 0 {
			t.Errorf("expected zeroed summary, got %v", summary)
		}
	})

	t.Run("returns 400 on invalid window mode", func(t *testing.T) {
		yearSvc := &mockFarmingYearService{
			resolveWindowFn: func(_ uint, _ services.WindowScope) (services.Window, error) {
				return services.Window{}, apperrors.ErrInvalidWindow
			},
		}
		handler := NewReportHandler(&mockReportService{}, yearSvc, &mockActivityService{})
		r := setupReportRouter(handler)

		rec := doRequest(r, "GET", "/reports/financial-summary?mode=quarterly", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_WINDOW")
	})

	t.Run("returns 400 on unknown module filter", func(t *testing.T) {
		handler := NewReportHandler(&mockReportService{}, &mockFarmingYearService{}, &mockActivityService{})
		r := setupReportRouter(handler)

		rec := doRequest(r, "GET", "/reports/financial-summary?modules=fishing", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_MODULE")
	})

	t.Run("returns 401 without auth", func(t *testing.T) {
		handler := NewReportHandler(&mockReportService{}, &mockFarmingYearService{}, &mockActivityService{})
		r := gin.New()
		r.GET("/reports/financial-summary", handler.GetFinancialSummary)

		rec := doRequest(r, "GET", "/reports/financial-summary", "")

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestReportHandler_GetLedgerConsistency(t *testing.T) {
	t.Run("reports consistent ledger", func(t *testing.T) {
		handler := NewReportHandler(&mockReportService{}, &mockFarmingYearService{}, &mockActivityService{})
		r := setupReportRouter(handler)

		rec := doRequest(r, "GET", "/reports/ledger-consistency", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["consistent"] != true {
			t.Errorf("expected consistent=true, got %v", result["consistent"])
		}
		if result["orphaned_count"].(float64) != 0 {
			t.Errorf("expected orphaned_count=0, got %v", result["orphaned_count"])
		}
	})

	t.Run("reports orphaned entries", func(t *testing.T) {
		svc := &mockActivityService{
			findOrphanedEntriesFn: func(_ uint) ([]models.LedgerEntry, error) {
				return []models.LedgerEntry{{ID: 1, Amount: 50}}, nil
			},
		}
		handler := NewReportHandler(&mockReportService{}, &mockFarmingYearService{}, svc)
		r := setupReportRouter(handler)

		rec := doRequest(r, "GET", "/reports/ledger-consistency", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if result["consistent"] != false {
			t.Errorf("expected consistent=false, got %v", result["consistent"])
		}
		if result["orphaned_count"].(float64) != 1 {
			t.Errorf("expected orphaned_count=1, got %v", result["orphaned_count"])
		}
	})
}
