package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/williampious/faas-sub000/internal/errors"
	"github.com/williampious/faas-sub000/internal/models"
)

// farmService handles farm (tenant) business logic.
type farmService struct {
	db *gorm.DB
}

// NewFarmService creates a new FarmServicer.
func NewFarmService(db *gorm.DB) FarmServicer {
	return &farmService{db: db}
}

// GetFarmByID retrieves a farm by ID.
func (s *farmService) GetFarmByID(farmID uint) (*models.Farm, error) {
	var farm models.Farm
	if err := s.db.First(&farm, farmID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFarmNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &farm, nil
}

// UpdateSubscription persists the outcome of an external checkout flow.
// The checkout itself happens outside this service; only the resulting
// plan and status are recorded here.
func (s *farmService) UpdateSubscription(farmID uint, plan models.SubscriptionPlan, status models.SubscriptionStatus, trialEndsAt *time.Time) (*models.Farm, error) {
	farm, err := s.GetFarmByID(farmID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"plan":                plan,
		"subscription_status": status,
	}
	if trialEndsAt != nil {
		updates["trial_ends_at"] = trialEndsAt
	}

	if err := s.db.Model(farm).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return farm, nil
}
