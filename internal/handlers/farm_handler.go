package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/williampious/faas-sub000/internal/errors"
	"github.com/williampious/faas-sub000/internal/models"
	"github.com/williampious/faas-sub000/internal/services"
)

// FarmHandler handles farm (tenant) requests.
type FarmHandler struct {
	farmService  services.FarmServicer
	auditService services.AuditServicer
}

// NewFarmHandler creates a new FarmHandler.
func NewFarmHandler(farmService services.FarmServicer, auditService services.AuditServicer) *FarmHandler {
	return &FarmHandler{farmService: farmService, auditService: auditService}
}

// UpdateSubscriptionRequest records the outcome of an external checkout.
type UpdateSubscriptionRequest struct {
	Plan        models.SubscriptionPlan   `json:"plan" binding:"required,subscription_plan"`
	Status      models.SubscriptionStatus `json:"status" binding:"required,subscription_status"`
	TrialEndsAt *time.Time                `json:"trial_ends_at"`
}

// GetCurrentFarm returns the authenticated user's farm.
// @Summary     Get current farm
// @Description Get the authenticated user's farm with its subscription state
// @Tags        farms
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.Farm "Farm details"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Farm not found"
// @Router      /farms/current [get]
func (h *FarmHandler) GetCurrentFarm(c *gin.Context) {
	farmID, err := getFarmID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	farm, err := h.farmService.GetFarmByID(farmID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"farm": farm})
}

// UpdateSubscription persists a plan change for the current farm.
// @Summary     Update farm subscription
// @Description Record the outcome of an external checkout for the current farm
// @Tags        farms
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateSubscriptionRequest true "New subscription state"
// @Success     200 {object} models.Farm "Updated farm"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Farm not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /farms/current/subscription [put]
func (h *FarmHandler) UpdateSubscription(c *gin.Context) {
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

	var req UpdateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	farm, err := h.farmService.UpdateSubscription(farmID, req.Plan, req.Status, req.TrialEndsAt)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(farmID, userID, "UPDATE_SUBSCRIPTION", "farm", farmID, c.ClientIP(),
		map[string]interface{}{"plan": req.Plan, "status": req.Status})

	c.JSON(http.StatusOK, gin.H{"farm": farm})
}
