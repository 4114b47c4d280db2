package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/williampious/faas-sub000/internal/errors"
	"github.com/williampious/faas-sub000/internal/models"
	"github.com/williampious/faas-sub000/internal/pagination"
	"github.com/williampious/faas-sub000/internal/uuid"
)

// budgetService handles budget management and read-time reconciliation
// against the ledger. Budgets never reference ledger entries at write
// time; all derived totals are computed when the budget is viewed.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

func buildBudgetCategories(inputs []BudgetCategoryInput) []models.BudgetCategory {
	categories := make([]models.BudgetCategory, 0, len(inputs))
	for _, in := range inputs {
		id := in.ID
		if id == "" || !uuid.IsValid(id) {
			id = uuid.New()
		}
		categories = append(categories, models.BudgetCategory{
			ID:             id,
			Name:           in.Name,
			BudgetedAmount: in.BudgetedAmount,
		})
	}
	return categories
}

// CreateBudget creates a budget with its embedded categories.
func (s *budgetService) CreateBudget(farmID uint, name string, startDate, endDate time.Time, categoryInputs []BudgetCategoryInput) (*models.Budget, error) {
	if endDate.Before(startDate) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "end date must not precede start date")
	}

	budget := &models.Budget{
		FarmID:     farmID,
		Name:       name,
		StartDate:  startDate,
		EndDate:    endDate,
		Categories: buildBudgetCategories(categoryInputs),
	}
	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budget, nil
}

// GetFarmBudgets returns a paginated list of the farm's budgets.
func (s *budgetService) GetFarmBudgets(farmID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	base := s.db.Model(&models.Budget{}).Where("farm_id = ?", farmID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := base.Scopes(pagination.Paginate(page)).Order("start_date DESC").Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBudgetByID returns a budget by ID if it belongs to the farm.
func (s *budgetService) GetBudgetByID(farmID, budgetID uint) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Where("id = ? AND farm_id = ?", budgetID, farmID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// UpdateBudget updates a budget's fields. Categories, when provided,
// replace the embedded list wholesale.
func (s *budgetService) UpdateBudget(farmID, budgetID uint, name string, startDate, endDate *time.Time, categoryInputs []BudgetCategoryInput) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(farmID, budgetID)
	if err != nil {
		return nil, err
	}

	if name != "" {
		budget.Name = name
	}
	if startDate != nil {
		budget.StartDate = *startDate
	}
	if endDate != nil {
		budget.EndDate = *endDate
	}
	if budget.EndDate.Before(budget.StartDate) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "end date must not precede start date")
	}
	if categoryInputs != nil {
		budget.Categories = buildBudgetCategories(categoryInputs)
	}

	if err := s.db.Save(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budget, nil
}

// DeleteBudget soft-deletes a budget.
func (s *budgetService) DeleteBudget(farmID, budgetID uint) error {
	budget, err := s.GetBudgetByID(farmID, budgetID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Reconcile computes planned versus actual spending for the budget's own
// date window. Actual spending is budget-wide: line items carry no budget
// category linkage, so per-category actuals are deliberately not derived.
func (s *budgetService) Reconcile(farmID, budgetID uint) (*BudgetReconciliation, error) {
	budget, err := s.GetBudgetByID(farmID, budgetID)
	if err != nil {
		return nil, err
	}

	var actual float64
	err = s.db.Model(&models.LedgerEntry{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("farm_id = ? AND kind = ? AND date BETWEEN ? AND ?",
			farmID, models.EntryExpense, budget.StartDate, endOfDay(budget.EndDate)).
		Scan(&actual).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	budgeted := budget.TotalBudgeted()

	recon := &BudgetReconciliation{
		BudgetID:            budget.ID,
		TotalBudgetedAmount: budgeted,
		TotalActualSpending: actual,
		TotalVariance:       budgeted - actual,
	}
	// Convention: an empty budget has zero utilization, not a division error.
	if budgeted > 0 {
		recon.Utilization = actual / budgeted * 100
	}
	return recon, nil
}
