package models

import "time"

// BudgetCategory is a planned-spending envelope within a budget. It has
// no linkage to ledger line items; actual spending is only reconciled
// budget-wide.
type BudgetCategory struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	BudgetedAmount float64 `json:"budgeted_amount"`
}

// Budget is a user-defined spending plan for a date window. Budgeted,
// actual, variance, and utilization totals are derived on every read by
// reconciling against the live ledger; they are never persisted as a
// source of truth.
type Budget struct {
	Base
	FarmID     uint             `gorm:"not null;index" json:"farm_id"`
	Name       string           `gorm:"not null" json:"name"`
	StartDate  time.Time        `gorm:"not null" json:"start_date"`
	EndDate    time.Time        `gorm:"not null" json:"end_date"`
	Categories []BudgetCategory `gorm:"serializer:json" json:"categories"`
}

// TotalBudgeted sums the budgeted amounts across all categories.
func (b *Budget) TotalBudgeted() float64 {
	var total float64
	for _, c := range b.Categories {
		total += c.BudgetedAmount
	}
	return total
}
