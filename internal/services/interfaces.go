package services

import (
	"time"

	"github.com/williampious/faas-sub000/internal/models"
	"github.com/williampious/faas-sub000/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	RegisterUser(farmName, email, password, firstName, lastName string) (*models.User, *models.Farm, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	StoreRefreshTokenHash(userID uint, tokenHash string) error
	GetRefreshTokenHash(userID uint) (string, error)
}

// FarmServicer defines the contract for farm (tenant) business logic.
type FarmServicer interface {
	GetFarmByID(farmID uint) (*models.Farm, error)
	UpdateSubscription(farmID uint, plan models.SubscriptionPlan, status models.SubscriptionStatus, trialEndsAt *time.Time) (*models.Farm, error)
}

// LineItemInput is one already-validated cost or sale item submitted with
// an activity save. Quantity and UnitPrice are guaranteed positive by the
// binding layer; Total is always recomputed server-side.
type LineItemInput struct {
	ItemID        string               `json:"item_id"`
	Description   string               `json:"description"`
	Category      models.CostCategory  `json:"category"`
	PaymentSource models.PaymentSource `json:"payment_source"`
	Unit          string               `json:"unit"`
	Quantity      float64              `json:"quantity"`
	UnitPrice     float64              `json:"unit_price"`
	Kind          models.EntryKind     `json:"kind"`
}

// ActivityInput carries the full desired state of an activity record.
// Saves are whole-document: line items not present in the input are
// removed along with their derived ledger entries.
type ActivityInput struct {
	Module        models.ActivityModule
	Title         string
	Notes         string
	EffectiveDate time.Time
	Details       map[string]any
	LineItems     []LineItemInput
}

// ActivityFilter holds optional filter parameters for listing activity records.
type ActivityFilter struct {
	Module   *models.ActivityModule
	FromDate *time.Time
	ToDate   *time.Time
}

// ActivityServicer defines the contract for activity records and the
// ledger synchronizer. Every save and delete keeps the financial ledger
// consistent with the record's current line items in one atomic batch.
type ActivityServicer interface {
	CreateActivity(farmID uint, input ActivityInput) (*models.ActivityRecord, error)
	UpdateActivity(farmID, activityID uint, input ActivityInput) (*models.ActivityRecord, error)
	GetActivityByID(farmID, activityID uint) (*models.ActivityRecord, error)
	GetFarmActivities(farmID uint, page pagination.PageRequest, filter ActivityFilter) (*pagination.PageResponse[models.ActivityRecord], error)
	DeleteActivity(farmID, activityID uint) error
	FindOrphanedEntries(farmID uint) ([]models.LedgerEntry, error)
}

// WindowMode selects how a reporting window is derived.
type WindowMode string

const (
	WindowExplicit    WindowMode = "explicit"
	WindowRolling12   WindowMode = "rolling12"
	WindowFarmingYear WindowMode = "farming_year"
	WindowSeason      WindowMode = "season"
)

// WindowScope is a user-selected reporting scope awaiting resolution.
type WindowScope struct {
	Mode     WindowMode
	Start    *time.Time
	End      *time.Time
	YearID   uint
	SeasonID string
}

// Window is a concrete inclusive date interval.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// SeasonInput describes one season submitted with a farming year save.
type SeasonInput struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// FarmingYearServicer manages farming-year reference data and resolves
// reporting windows from it.
type FarmingYearServicer interface {
	CreateFarmingYear(farmID uint, name string, startDate, endDate time.Time, seasons []SeasonInput) (*models.FarmingYear, error)
	GetFarmingYears(farmID uint, page pagination.PageRequest) (*pagination.PageResponse[models.FarmingYear], error)
	GetFarmingYearByID(farmID, yearID uint) (*models.FarmingYear, error)
	UpdateFarmingYear(farmID, yearID uint, name string, startDate, endDate *time.Time, seasons []SeasonInput) (*models.FarmingYear, error)
	DeleteFarmingYear(farmID, yearID uint) error
	ResolveWindow(farmID uint, scope WindowScope) (Window, error)
}

// MonthlyPoint is one month of income and expense in a summary series.
type MonthlyPoint struct {
	Month   string  `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// CategoryTotal is one slice of the expense breakdown.
type CategoryTotal struct {
	Name       string  `json:"name"`
	Total      float64 `json:"total"`
	Percentage float64 `json:"percentage"`
}

// FinancialSummary is the aggregation engine's read-side projection of
// the ledger for one window.
type FinancialSummary struct {
	Window        Window          `json:"window"`
	TotalIncome   float64         `json:"total_income"`
	TotalExpense  float64         `json:"total_expense"`
	NetProfitLoss float64         `json:"net_profit_loss"`
	ProfitMargin  float64         `json:"profit_margin"`
	Monthly       []MonthlyPoint  `json:"monthly"`
	Categories    []CategoryTotal `json:"categories"`
}

// ReportServicer defines the contract for ledger aggregation. Aggregation
// never mutates ledger state and is safe to run concurrently.
type ReportServicer interface {
	Aggregate(farmID uint, window Window, moduleFilter []models.ActivityModule) (*FinancialSummary, error)
}

// BudgetCategoryInput describes one category submitted with a budget save.
type BudgetCategoryInput struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	BudgetedAmount float64 `json:"budgeted_amount"`
}

// BudgetReconciliation is the derived view of a budget against actual
// ledger spending in the budget's own window. Never persisted; recomputed
// on every read so it always reflects the live ledger.
type BudgetReconciliation struct {
	BudgetID            uint    `json:"budget_id"`
	TotalBudgetedAmount float64 `json:"total_budgeted_amount"`
	TotalActualSpending float64 `json:"total_actual_spending"`
	TotalVariance       float64 `json:"total_variance"`
	Utilization         float64 `json:"utilization"`
}

// BudgetServicer defines the contract for budget management and
// reconciliation.
type BudgetServicer interface {
	CreateBudget(farmID uint, name string, startDate, endDate time.Time, categories []BudgetCategoryInput) (*models.Budget, error)
	GetFarmBudgets(farmID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(farmID, budgetID uint) (*models.Budget, error)
	UpdateBudget(farmID, budgetID uint, name string, startDate, endDate *time.Time, categories []BudgetCategoryInput) (*models.Budget, error)
	DeleteBudget(farmID, budgetID uint) error
	Reconcile(farmID, budgetID uint) (*BudgetReconciliation, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(farmID, userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
