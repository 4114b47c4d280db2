package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/williampious/faas-sub000/internal/errors"
	"github.com/williampious/faas-sub000/internal/models"
	"github.com/williampious/faas-sub000/internal/pagination"
	"github.com/williampious/faas-sub000/internal/services"
)

// ActivityHandler handles activity record requests.
type ActivityHandler struct {
	activityService services.ActivityServicer
	auditService    services.AuditServicer
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(activityService services.ActivityServicer, auditService services.AuditServicer) *ActivityHandler {
	return &ActivityHandler{activityService: activityService, auditService: auditService}
}

// LineItemRequest represents one cost or sale item in an activity save.
type LineItemRequest struct {
	ItemID        string               `json:"item_id" binding:"omitempty,max=36"`
	Description   string               `json:"description" binding:"required,min=1,max=255"`
	Category      models.CostCategory  `json:"category" binding:"required,cost_category"`
	PaymentSource models.PaymentSource `json:"payment_source" binding:"required,payment_source"`
	Unit          string               `json:"unit" binding:"max=50"`
	Quantity      float64              `json:"quantity" binding:"required,gt=0"`
	UnitPrice     float64              `json:"unit_price" binding:"required,gt=0"`
	Kind          models.EntryKind     `json:"kind" binding:"omitempty,entry_kind"`
}

// CreateActivityRequest represents the request payload for creating an
// activity record.
type CreateActivityRequest struct {
	Module        models.ActivityModule  `json:"module" binding:"required,activity_module"`
	Title         string                 `json:"title" binding:"required,min=1,max=200"`
	Notes         string                 `json:"notes" binding:"max=2000"`
	EffectiveDate time.Time              `json:"effective_date" binding:"required"`
	Details       map[string]interface{} `json:"details"`
	LineItems     []LineItemRequest      `json:"line_items" binding:"omitempty,dive"`
}

// UpdateActivityRequest represents the request payload for updating an
// activity record. The module is fixed at creation and cannot change.
// Line items are the record's full desired state: items absent from the
// list are removed along with their ledger entries.
type UpdateActivityRequest struct {
	Title         string                 `json:"title" binding:"required,min=1,max=200"`
	Notes         string                 `json:"notes" binding:"max=2000"`
	EffectiveDate time.Time              `json:"effective_date" binding:"required"`
	Details       map[string]interface{} `json:"details"`
	LineItems     []LineItemRequest      `json:"line_items" binding:"omitempty,dive"`
}

func toLineItemInputs(items []LineItemRequest) []services.LineItemInput {
	inputs := make([]services.LineItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, services.LineItemInput{
			ItemID:        item.ItemID,
			Description:   item.Description,
			Category:      item.Category,
			PaymentSource: item.PaymentSource,
			Unit:          item.Unit,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			Kind:          item.Kind,
		})
	}
	return inputs
}

// CreateActivity handles the creation of an activity record.
// @Summary     Create an activity record
// @Description Create an activity record; its line items are committed to the ledger atomically
// @Tags        activities
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateActivityRequest true "Activity details"
// @Success     201 {object} models.ActivityRecord "Activity created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Commit failed; no partial state was applied"
// @Router      /activities [post]
func (h *ActivityHandler) CreateActivity(c *gin.Context) {
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

	var req CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	record, err := h.activityService.CreateActivity(farmID, services.ActivityInput{
		Module:        req.Module,
		Title:         req.Title,
		Notes:         req.Notes,
		EffectiveDate: req.EffectiveDate,
		Details:       req.Details,
		LineItems:     toLineItemInputs(req.LineItems),
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(farmID, userID, "CREATE_ACTIVITY", "activity_record", record.ID, c.ClientIP(),
		map[string]interface{}{"module": req.Module, "title": req.Title})

	c.JSON(http.StatusCreated, gin.H{"activity": record})
}

// GetActivities handles listing activity records for the farm.
// @Summary     List activity records
// @Description Get a paginated list of the farm's activity records
// @Tags        activities
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       module    query string false "Filter by module"
// @Param       from_date query string false "Filter from date (RFC 3339)"
// @Param       to_date   query string false "Filter to date (RFC 3339, inclusive)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.ActivityRecord] "Paginated activity records"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /activities [get]
func (h *ActivityHandler) GetActivities(c *gin.Context) {
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

	var filter services.ActivityFilter
	if v := c.Query("module"); v != "" {
		m := models.ActivityModule(v)
		if !m.Valid() {
			respondWithError(c, apperrors.ErrInvalidModule)
			return
		}
		filter.Module = &m
	}
	if v := c.Query("from_date"); v != "" {
		from, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "from_date must be RFC 3339"))
			return
		}
		filter.FromDate = &from
	}
	if v := c.Query("to_date"); v != "" {
		to, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "to_date must be RFC 3339"))
			return
		}
		filter.ToDate = &to
	}

	result, err := h.activityService.GetFarmActivities(farmID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetActivity handles retrieving a specific activity record.
// @Summary     Get activity record by ID
// @Description Get a specific activity record with its line items
// @Tags        activities
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Activity record ID"
// @Success     200 {object} models.ActivityRecord "Activity details"
// @Failure     400 {object} ErrorResponse "Invalid activity ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Activity not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /activities/{id} [get]
func (h *ActivityHandler) GetActivity(c *gin.Context) {
	farmID, err := getFarmID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	activityID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	record, err := h.activityService.GetActivityByID(farmID, activityID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"activity": record})
}

// UpdateActivity handles updating an activity record.
// @Summary     Update activity record
// @Description Replace an activity record's fields and line items; the ledger is resynchronized atomically
// @Tags        activities
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                   true "Activity record ID"
// @Param       request body UpdateActivityRequest true "Updated activity details"
// @Success     200 {object} models.ActivityRecord "Updated activity"
// @Failure     400 {object} ErrorResponse "Invalid input or activity ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Activity not found"
// @Failure     500 {object} ErrorResponse "Commit failed; no partial state was applied"
// @Router      /activities/{id} [put]
func (h *ActivityHandler) UpdateActivity(c *gin.Context) {
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

	activityID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	record, err := h.activityService.UpdateActivity(farmID, activityID, services.ActivityInput{
		Title:         req.Title,
		Notes:         req.Notes,
		EffectiveDate: req.EffectiveDate,
		Details:       req.Details,
		LineItems:     toLineItemInputs(req.LineItems),
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(farmID, userID, "UPDATE_ACTIVITY", "activity_record", activityID, c.ClientIP(),
		map[string]interface{}{"title": req.Title})

	c.JSON(http.StatusOK, gin.H{"activity": record})
}

// DeleteActivity handles deleting an activity record.
// @Summary     Delete activity record
// @Description Delete an activity record and every ledger entry derived from it
// @Tags        activities
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Activity record ID"
// @Success     200 {object} MessageResponse "Activity deleted"
// @Failure     400 {object} ErrorResponse "Invalid activity ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Activity not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /activities/{id} [delete]
func (h *ActivityHandler) DeleteActivity(c *gin.Context) {
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

	activityID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.activityService.DeleteActivity(farmID, activityID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(farmID, userID, "DELETE_ACTIVITY", "activity_record", activityID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Activity deleted successfully"})
}
