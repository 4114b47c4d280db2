package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/williampious/faas-sub000/internal/errors"
	"github.com/williampious/faas-sub000/internal/models"
	"github.com/williampious/faas-sub000/internal/services"
)

func setupFarmingYearRouter(handler *FarmingYearHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectAuth(1, 7))
	auth.POST("/farming-years", handler.CreateFarmingYear)
	auth.GET("/farming-years", handler.GetFarmingYears)
	auth.GET("/farming-years/:id", handler.GetFarmingYear)
	auth.PUT("/farming-years/:id", handler.UpdateFarmingYear)
	auth.DELETE("/farming-years/:id", handler.DeleteFarmingYear)
	return r
}

const validFarmingYearBody = `{
	"name": "2024 Season Plan",
	"start_date": "2024-01-01T00:00:00Z",
	"end_date": "2024-12-31T00:00:00Z",
	"seasons": [
		{"name": "Major", "start_date": "2024-01-01T00:00:00Z", "end_date": "2024-06-30T00:00:00Z"},
		{"name": "Minor", "start_date": "2024-07-01T00:00:00Z", "end_date": "2024-12-31T00:00:00Z"}
	]
}`

func TestFarmingYearHandler_CreateFarmingYear(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockFarmingYearService{
			createFarmingYearFn: func(farmID uint, name string, startDate, endDate time.Time, seasons []services.SeasonInput) (*models.FarmingYear, error) {
				built := make([]models.Season, len(seasons))
				for i, s := range seasons {
					built[i] = models.Season{ID: "s", Name: s.Name, StartDate: s.StartDate, EndDate: s.EndDate}
				}
				return &models.FarmingYear{
					Base:      models.Base{ID: 1},
					FarmID:    farmID,
					Name:      name,
					StartDate: startDate,
					EndDate:   endDate,
					Seasons:   built,
				}, nil
			},
		}
		handler := NewFarmingYearHandler(svc, &mockAuditService{})
		r := setupFarmingYearRouter(handler)

		rec := doRequest(r, "POST", "/farming-years", validFarmingYearBody)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		year := result["farming_year"].(map[string]interface{})
		if year["name"] != "2024 Season Plan" {
			t.Errorf("expected 2024 Season Plan, got %v", year["name"])
		}
		seasons := year["seasons"].([]interface{})
		if len(seasons) != 2 {
			t.Errorf("expected 2 seasons, got %d", len(seasons))
		}
	})

	t.Run("returns 400 on missing dates", func(t *testing.T) {
		handler := NewFarmingYearHandler(&mockFarmingYearService{}, &mockAuditService{})
		r := setupFarmingYearRouter(handler)

		rec := doRequest(r, "POST", "/farming-years", `{"name":"2024"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 when season dates invalid", func(t *testing.T) {
		svc := &mockFarmingYearService{
			createFarmingYearFn: func(_ uint, _ string, _, _ time.Time, _ []services.SeasonInput) (*models.FarmingYear, error) {
				return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "season must fall within its farming year")
			},
		}
		handler := NewFarmingYearHandler(svc, &mockAuditService{})
		r := setupFarmingYearRouter(handler)

		rec := doRequest(r, "POST", "/farming-years", validFarmingYearBody)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestFarmingYearHandler_GetFarmingYear(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		svc := &mockFarmingYearService{
			getFarmingYearByIDFn: func(_, yearID uint) (*models.FarmingYear, error) {
				return &models.FarmingYear{Base: models.Base{ID: yearID}, Name: "2024"}, nil
			},
		}
		handler := NewFarmingYearHandler(svc, &mockAuditService{})
		r := setupFarmingYearRouter(handler)

		rec := doRequest(r, "GET", "/farming-years/1", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockFarmingYearService{
			getFarmingYearByIDFn: func(_, _ uint) (*models.FarmingYear, error) {
				return nil, apperrors.ErrFarmingYearNotFound
			},
		}
		handler := NewFarmingYearHandler(svc, &mockAuditService{})
		r := setupFarmingYearRouter(handler)

		rec := doRequest(r, "GET", "/farming-years/999", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "FARMING_YEAR_NOT_FOUND")
	})
}

func TestFarmingYearHandler_UpdateFarmingYear(t *testing.T) {
	t.Run("passes replacement seasons to service", func(t *testing.T) {
		var captured []services.SeasonInput
		svc := &mockFarmingYearService{
			updateFarmingYearFn: func(_, yearID uint, name string, _, _ *time.Time, seasons []services.SeasonInput) (*models.FarmingYear, error) {
				captured = seasons
				return &models.FarmingYear{Base: models.Base{ID: yearID}, Name: name}, nil
			},
		}
		handler := NewFarmingYearHandler(svc, &mockAuditService{})
		r := setupFarmingYearRouter(handler)

		rec := doRequest(r, "PUT", "/farming-years/1", `{
			"name": "2024 (revised)",
			"seasons": [{"name": "Single", "start_date": "2024-01-01T00:00:00Z", "end_date": "2024-12-31T00:00:00Z"}]
		}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(captured) != 1 || captured[0].Name != "Single" {
			t.Errorf("expected single replacement season, got %v", captured)
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockFarmingYearService{
			updateFarmingYearFn: func(_, _ uint, _ string, _, _ *time.Time, _ []services.SeasonInput) (*models.FarmingYear, error) {
				return nil, apperrors.ErrFarmingYearNotFound
			},
		}
		handler := NewFarmingYearHandler(svc, &mockAuditService{})
		r := setupFarmingYearRouter(handler)

		rec := doRequest(r, "PUT", "/farming-years/999", `{"name":"Revised"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestFarmingYearHandler_DeleteFarmingYear(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		handler := NewFarmingYearHandler(&mockFarmingYearService{}, &mockAuditService{})
		r := setupFarmingYearRouter(handler)

		rec := doRequest(r, "DELETE", "/farming-years/1", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockFarmingYearService{
			deleteFarmingYearFn: func(_, _ uint) error {
				return apperrors.ErrFarmingYearNotFound
			},
		}
		handler := NewFarmingYearHandler(svc, &mockAuditService{})
		r := setupFarmingYearRouter(handler)

		rec := doRequest(r, "DELETE", "/farming-years/999", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
