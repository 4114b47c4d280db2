package services

import (
	"testing"
	"time"

	"github.com/williampious/faas-sub000/internal/models"
	"github.com/williampious/faas-sub000/internal/testutil"
)

func TestCreateBudget(t *testing.T) {
	t.Run("creates_budget_with_categories", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		farm := testutil.CreateTestFarm(t, db)

		budget, err := svc.CreateBudget(farm.ID, "Q1 Operations",
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
			[]BudgetCategoryInput{
				{Name: "Feed", BudgetedAmount: 600},
				{Name: "Labor", BudgetedAmount: 400},
			})
		testutil.AssertNoError(t, err)

		if len(budget.Categories) != 2 {
			t.Fatalf("expected 2 categories, got %d", len(budget.Categories))
		}
		for _, cat := range budget.Categories {
			if cat.ID == "" {
				t.Error("expected category to be assigned an id")
			}
		}
		testutil.AssertFloatEquals(t, 1000, budget.TotalBudgeted(), "total budgeted")
	})

	t.Run("rejects_inverted_dates", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		farm := testutil.CreateTestFarm(t, db)

		_, err := svc.CreateBudget(farm.ID, "Backwards",
			time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestUpdateBudget(t *testing.T) {
	t.Run("replaces_categories_wholesale", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		farm := testutil.CreateTestFarm(t, db)
		budget := testutil.CreateTestBudget(t, db, farm.ID,
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), 1000)

		updated, err := svc.UpdateBudget(farm.ID, budget.ID, "", nil, nil, []BudgetCategoryInput{
			{Name: "Everything", BudgetedAmount: 2500},
		})
		testutil.AssertNoError(t, err)
		if len(updated.Categories) != 1 {
			t.Fatalf("expected 1 category after replace, got %d", len(updated.Categories))
		}
		testutil.AssertFloatEquals(t, 2500, updated.TotalBudgeted(), "total budgeted")
	})

	t.Run("not_found_for_other_farm", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		farm1 := testutil.CreateTestFarm(t, db)
		farm2 := testutil.CreateTestFarm(t, db)
		budget := testutil.CreateTestBudget(t, db, farm1.ID,
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), 1000)

		_, err := svc.UpdateBudget(farm2.ID, budget.ID, "Stolen", nil, nil, nil)
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})
}

func TestReconcile(t *testing.T) {
	budgetWindow := func() (time.Time, time.Time) {
		return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	}

	t.Run("variance_and_utilization", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		farm := testutil.CreateTestFarm(t, db)
		start, end := budgetWindow()
		budget := testutil.CreateTestBudget(t, db, farm.ID, start, end, 1000)

		testutil.CreateTestLedgerEntry(t, db, farm.ID,
			time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), models.EntryExpense, 400, models.CategoryLabor)

		recon, err := svc.Reconcile(farm.ID, budget.ID)
		testutil.AssertNoError(t, err)

		testutil.AssertFloatEquals(t, 1000, recon.TotalBudgetedAmount, "total budgeted")
		testutil.AssertFloatEquals(t, 400, recon.TotalActualSpending, "actual spending")
		testutil.AssertFloatEquals(t, 600, recon.TotalVariance, "variance")
		testutil.AssertFloatEquals(t, 40, recon.Utilization, "utilization")
	})

	t.Run("ignores_income_and_out_of_window_entries", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		farm := testutil.CreateTestFarm(t, db)
		start, end := budgetWindow()
		budget := testutil.CreateTestBudget(t, db, farm.ID, start, end, 1000)

		testutil.CreateTestLedgerEntry(t, db, farm.ID,
			time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), models.EntryIncome, 5000, models.CategoryProduceSale)
		testutil.CreateTestLedgerEntry(t, db, farm.ID,
			time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), models.EntryExpense, 300, models.CategoryLabor)
		testutil.CreateTestLedgerEntry(t, db, farm.ID,
			time.Date(2024, 3, 31, 18, 0, 0, 0, time.UTC), models.EntryExpense, 250, models.CategoryLabor)

		recon, err := svc.Reconcile(farm.ID, budget.ID)
		testutil.AssertNoError(t, err)

		// Only the in-window expense counts; the end date is inclusive.
		testutil.AssertFloatEquals(t, 250, recon.TotalActualSpending, "actual spending")
		testutil.AssertFloatEquals(t, 750, recon.TotalVariance, "variance")
	})

	t.Run("empty_budget_has_zero_utilization", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		farm := testutil.CreateTestFarm(t, db)
		start, end := budgetWindow()
		budget := testutil.CreateTestBudget(t, db, farm.ID, start, end, 0)

		testutil.CreateTestLedgerEntry(t, db, farm.ID,
			time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), models.EntryExpense, 400, models.CategoryLabor)

		recon, err := svc.Reconcile(farm.ID, budget.ID)
		testutil.AssertNoError(t, err)

		testutil.AssertFloatEquals(t, 0, recon.Utilization, "utilization")
		testutil.AssertFloatEquals(t, -400, recon.TotalVariance, "variance")
	})

	t.Run("overspent_budget", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		farm := testutil.CreateTestFarm(t, db)
		start, end := budgetWindow()
		budget := testutil.CreateTestBudget(t, db, farm.ID, start, end, 200)

		testutil.CreateTestLedgerEntry(t, db, farm.ID,
			time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), models.EntryExpense, 300, models.CategoryLabor)

		recon, err := svc.Reconcile(farm.ID, budget.ID)
		testutil.AssertNoError(t, err)

		testutil.AssertFloatEquals(t, -100, recon.TotalVariance, "variance")
		testutil.AssertFloatEquals(t, 150, recon.Utilization, "utilization")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		farm := testutil.CreateTestFarm(t, db)

		_, err := svc.Reconcile(farm.ID, 9999)
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})
}

func TestDeleteBudget(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewBudgetService(db)
	farm := testutil.CreateTestFarm(t, db)
	budget := testutil.CreateTestBudget(t, db, farm.ID,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), 1000)

	err := svc.DeleteBudget(farm.ID, budget.ID)
	testutil.AssertNoError(t, err)

	_, err = svc.GetBudgetByID(farm.ID, budget.ID)
	testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
}
