package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/williampious/faas-sub000/internal/errors"
	"github.com/williampious/faas-sub000/internal/models"
	"github.com/williampious/faas-sub000/internal/services"
)

// ReportHandler handles financial reporting requests.
type ReportHandler struct {
	reportService      services.ReportServicer
	farmingYearService services.FarmingYearServicer
	activityService    services.ActivityServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer, farmingYearService services.FarmingYearServicer, activityService services.ActivityServicer) *ReportHandler {
	return &ReportHandler{
		reportService:      reportService,
		farmingYearService: farmingYearService,
		activityService:    activityService,
	}
}

// parseWindowScope reads the reporting scope from query parameters.
// The mode defaults to the rolling twelve-month window.
func parseWindowScope(c *gin.Context) (services.WindowScope, error) {
	scope := services.WindowScope{Mode: services.WindowRolling12}
	if v := c.Query("mode"); v != "" {
		scope.Mode = services.WindowMode(v)
	}

	if v := c.Query("start_date"); v != "" {
		start, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return scope, apperrors.WithMessage(apperrors.ErrInvalidInput, "start_date must be RFC 3339")
		}
		scope.Start = &start
	}
	if v := c.Query("end_date"); v != "" {
		end, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return scope, apperrors.WithMessage(apperrors.ErrInvalidInput, "end_date must be RFC 3339")
		}
		scope.End = &end
	}

	if v := c.Query("year_id"); v != "" {
		yearID, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return scope, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid year_id")
		}
		scope.YearID = uint(yearID)
	}
	scope.SeasonID = c.Query("season_id")

	return scope, nil
}

// parseModuleFilter reads an optional comma-separated module filter.
func parseModuleFilter(c *gin.Context) ([]models.ActivityModule, error) {
	v := c.Query("modules")
	if v == "" {
		return nil, nil
	}
	var modules []models.ActivityModule
	for _, name := range strings.Split(v, ",") {
		m := models.ActivityModule(strings.TrimSpace(name))
		if !m.Valid() {
			return nil, apperrors.ErrInvalidModule
		}
		modules = append(modules, m)
	}
	return modules, nil
}

// GetFinancialSummary handles the financial summary report.
// @Summary     Get financial summary
// @Description Aggregate the ledger over a reporting window: totals, monthly series, and category breakdown
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       mode       query string false "Window mode (explicit/rolling12/farming_year/season; default rolling12)"
// @Param       start_date query string false "Window start for explicit mode (RFC 3339)"
// @Param       end_date   query string false "Window end for explicit mode (RFC 3339, inclusive)"
// @Param       year_id    query int    false "Farming year ID for farming_year/season modes"
// @Param       season_id  query string false "Season ID for season mode"
// @Param       modules    query string false "Comma-separated module filter"
// @Success     200 {object} services.FinancialSummary "Financial summary"
// @Failure     400 {object} ErrorResponse "Invalid window or module filter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/financial-summary [get]
func (h *ReportHandler) GetFinancialSummary(c *gin.Context) {
	farmID, err := getFarmID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	scope, err := parseWindowScope(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	moduleFilter, err := parseModuleFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	window, err := h.farmingYearService.ResolveWindow(farmID, scope)
	if err != nil {
		// A stale year or season selection means no data for that scope,
		// not a failed report.
		if errors.Is(err, apperrors.ErrFarmingYearNotFound) || errors.Is(err, apperrors.ErrSeasonNotFound) {
			c.JSON(http.StatusOK, gin.H{"summary": &services.FinancialSummary{
				Monthly:    []services.MonthlyPoint{},
				Categories: []services.CategoryTotal{},
			}})
			return
		}
		respondWithError(c, err)
		return
	}

	summary, err := h.reportService.Aggregate(farmID, window, moduleFilter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// GetLedgerConsistency handles the ledger consistency check.
// @Summary     Check ledger consistency
// @Description Scan for ledger entries whose source activity record no longer exists
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Orphaned entries, if any"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/ledger-consistency [get]
func (h *ReportHandler) GetLedgerConsistency(c *gin.Context) {
	farmID, err := getFarmID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	orphans, err := h.activityService.FindOrphanedEntries(farmID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"consistent":       len(orphans) == 0,
		"orphaned_count":   len(orphans),
		"orphaned_entries": orphans,
	})
}
