package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/williampious/faas-sub000/internal/errors"
	"github.com/williampious/faas-sub000/internal/pagination"
	"github.com/williampious/faas-sub000/internal/services"
)

// FarmingYearHandler handles farming-year requests.
type FarmingYearHandler struct {
	farmingYearService services.FarmingYearServicer
	auditService       services.AuditServicer
}

// NewFarmingYearHandler creates a new FarmingYearHandler.
func NewFarmingYearHandler(farmingYearService services.FarmingYearServicer, auditService services.AuditServicer) *FarmingYearHandler {
	return &FarmingYearHandler{farmingYearService: farmingYearService, auditService: auditService}
}

// SeasonRequest represents one season submitted with a farming year.
type SeasonRequest struct {
	ID        string    `json:"id" binding:"omitempty,max=36"`
	Name      string    `json:"name" binding:"required,min=1,max=100"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
}

// CreateFarmingYearRequest represents the request payload for creating a
// farming year.
type CreateFarmingYearRequest struct {
	Name      string          `json:"name" binding:"required,min=1,max=100"`
	StartDate time.Time       `json:"start_date" binding:"required"`
	EndDate   time.Time       `json:"end_date" binding:"required"`
	Seasons   []SeasonRequest `json:"seasons" binding:"omitempty,dive"`
}

// UpdateFarmingYearRequest represents the request payload for updating a
// farming year. Seasons, when present, replace the embedded list wholesale.
type UpdateFarmingYearRequest struct {
	Name      string          `json:"name" binding:"omitempty,min=1,max=100"`
	StartDate *time.Time      `json:"start_date"`
	EndDate   *time.Time      `json:"end_date"`
	Seasons   []SeasonRequest `json:"seasons" binding:"omitempty,dive"`
}

func toSeasonInputs(seasons []SeasonRequest) []services.SeasonInput {
	if seasons == nil {
		return nil
	}
	inputs := make([]services.SeasonInput, 0, len(seasons))
	for _, s := range seasons {
		inputs = append(inputs, services.SeasonInput{
			ID:        s.ID,
			Name:      s.Name,
			StartDate: s.StartDate,
			EndDate:   s.EndDate,
		})
	}
	return inputs
}

// CreateFarmingYear handles the creation of a farming year.
// @Summary     Create a farming year
// @Description Create a farming year with its seasons
// @Tags        farming-years
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateFarmingYearRequest true "Farming year details"
// @Success     201 {object} models.FarmingYear "Farming year created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /farming-years [post]
func (h *FarmingYearHandler) CreateFarmingYear(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	farmID, err := getFarmID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateFarmingYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	year, err := h.farmingYearService.CreateFarmingYear(farmID, req.Name, req.StartDate, req.EndDate, toSeasonInputs(req.Seasons))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(farmID, userID, "CREATE_FARMING_YEAR", "farming_year", year.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name})

	c.JSON(http.StatusCreated, gin.H{"farming_year": year})
}

// GetFarmingYears handles listing farming years for the farm.
// @Summary     List farming years
// @Description Get a paginated list of the farm's farming years
// @Tags        farming-years
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.FarmingYear] "Paginated farming years"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /farming-years [get]
func (h *FarmingYearHandler) GetFarmingYears(c *gin.Context) {
	farmID, err := getFarmID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.farmingYearService.GetFarmingYears(farmID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetFarmingYear handles retrieving a specific farming year.
// @Summary     Get farming year by ID
// @Description Get a specific farming year with its seasons
// @Tags        farming-years
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Farming year ID"
// @Success     200 {object} models.FarmingYear "Farming year details"
// @Failure     400 {object} ErrorResponse "Invalid farming year ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Farming year not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /farming-years/{id} [get]
func (h *FarmingYearHandler) GetFarmingYear(c *gin.Context) {
	farmID, err := getFarmID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	yearID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	year, err := h.farmingYearService.GetFarmingYearByID(farmID, yearID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"farming_year": year})
}

// UpdateFarmingYear handles updating a farming year.
// @Summary     Update farming year
// @Description Update a farming year's fields and replace its seasons
// @Tags        farming-years
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                      true "Farming year ID"
// @Param       request body UpdateFarmingYearRequest true "Updated farming year details"
// @Success     200 {object} models.FarmingYear "Updated farming year"
// @Failure     400 {object} ErrorResponse "Invalid input or farming year ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Farming year not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /farming-years/{id} [put]
func (h *FarmingYearHandler) UpdateFarmingYear(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	farmID, err := getFarmID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	yearID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateFarmingYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	year, err := h.farmingYearService.UpdateFarmingYear(farmID, yearID, req.Name, req.StartDate, req.EndDate, toSeasonInputs(req.Seasons))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(farmID, userID, "UPDATE_FARMING_YEAR", "farming_year", yearID, c.ClientIP(),
		map[string]interface{}{"name": req.Name})

	c.JSON(http.StatusOK, gin.H{"farming_year": year})
}

// DeleteFarmingYear handles deleting a farming year.
// @Summary     Delete farming year
// @Description Delete a farming year by ID (soft delete)
// @Tags        farming-years
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Farming year ID"
// @Success     200 {object} MessageResponse "Farming year deleted"
// @Failure     400 {object} ErrorResponse "Invalid farming year ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Farming year not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /farming-years/{id} [delete]
func (h *FarmingYearHandler) DeleteFarmingYear(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	farmID, err := getFarmID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	yearID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.farmingYearService.DeleteFarmingYear(farmID, yearID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(farmID, userID, "DELETE_FARMING_YEAR", "farming_year", yearID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Farming year deleted successfully"})
}
