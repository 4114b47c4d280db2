package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/williampious/faas-sub000/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestFarm creates a farm on the starter plan.
func CreateTestFarm(t *testing.T, db *gorm.DB) *models.Farm {
	t.Helper()

	farm := &models.Farm{
		Name:               fmt.Sprintf("Test Farm %d", nextID()),
		Currency:           "USD",
		Plan:               models.PlanStarter,
		SubscriptionStatus: models.SubscriptionTrialing,
	}
	if err := db.Create(farm).Error; err != nil {
		t.Fatalf("failed to create test farm: %v", err)
	}
	return farm
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB, farmID uint) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		FarmID:   farmID,
		Email:    fmt.Sprintf("user%d@test.com", nextID()),
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestLedgerEntry inserts a ledger entry directly, bypassing the
// synchronizer, for read-side tests that need a known ledger state.
func CreateTestLedgerEntry(t *testing.T, db *gorm.DB, farmID uint, date time.Time, kind models.EntryKind, amount float64, category models.CostCategory) *models.LedgerEntry {
	t.Helper()

	entry := &models.LedgerEntry{
		FarmID:           farmID,
		Date:             date,
		Description:      fmt.Sprintf("Test entry %d", nextID()),
		Amount:           amount,
		Kind:             kind,
		Category:         category,
		PaymentSource:    models.PaymentCash,
		SourceModule:     models.ModuleFeeding,
		SourceActivityID: uint(nextID()),
		SourceLineItemID: fmt.Sprintf("00000000-0000-7000-8000-%012d", nextID()),
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create test ledger entry: %v", err)
	}
	return entry
}

// CreateTestFarmingYear creates a farming year with two seasons covering
// its first and second halves.
func CreateTestFarmingYear(t *testing.T, db *gorm.DB, farmID uint, start time.Time) *models.FarmingYear {
	t.Helper()

	end := start.AddDate(1, 0, -1)
	mid := start.AddDate(0, 6, 0)
	year := &models.FarmingYear{
		FarmID:    farmID,
		Name:      fmt.Sprintf("Year %d", nextID()),
		StartDate: start,
		EndDate:   end,
		Seasons: []models.Season{
			{ID: fmt.Sprintf("season-a-%d", nextID()), Name: "Major Season", StartDate: start, EndDate: mid.AddDate(0, 0, -1)},
			{ID: fmt.Sprintf("season-b-%d", nextID()), Name: "Minor Season", StartDate: mid, EndDate: end},
		},
	}
	if err := db.Create(year).Error; err != nil {
		t.Fatalf("failed to create test farming year: %v", err)
	}
	return year
}

// CreateTestBudget creates a budget with a single category of the given amount.
func CreateTestBudget(t *testing.T, db *gorm.DB, farmID uint, start, end time.Time, budgeted float64) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		FarmID:    farmID,
		Name:      fmt.Sprintf("Test Budget %d", nextID()),
		StartDate: start,
		EndDate:   end,
		Categories: []models.BudgetCategory{
			{ID: fmt.Sprintf("cat-%d", nextID()), Name: "General", BudgetedAmount: budgeted},
		},
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}
