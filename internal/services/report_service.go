package services

import (
	"sort"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/williampious/faas-sub000/internal/errors"
	"github.com/williampious/faas-sub000/internal/models"
)

// reportService is the read-side aggregation engine over the ledger. It
// never mutates ledger state; summaries can be computed concurrently and
// repeatedly with identical results for an unchanged ledger.
type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db}
}

// endOfDay extends a date to the last instant of that day so inclusive
// windows behave as users expect.
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, t.Location())
}

// Aggregate scans ledger entries inside the window, optionally filtered
// to a set of source modules, and produces totals, a chronologically
// sorted monthly series, and a per-category expense breakdown sorted
// descending by amount. Months with no entries are omitted, not
// zero-filled.
func (s *reportService) Aggregate(farmID uint, window Window, moduleFilter []models.ActivityModule) (*FinancialSummary, error) {
	q := s.db.Model(&models.LedgerEntry{}).
		Where("farm_id = ?", farmID).
		Where("date BETWEEN ? AND ?", window.Start, endOfDay(window.End))
	if len(moduleFilter) > 0 {
		q = q.Where("source_module IN ?", moduleFilter)
	}

	var entries []models.LedgerEntry
	if err := q.Order("date ASC").Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := &FinancialSummary{Window: window}

	type monthTotals struct {
		income  float64
		expense float64
	}
	months := make(map[time.Time]*monthTotals)
	categories := make(map[models.CostCategory]float64)

	for _, e := range entries {
		monthKey := time.Date(e.Date.Year(), e.Date.Month(), 1, 0, 0, 0, 0, time.UTC)
		mt, ok := months[monthKey]
		if !ok {
			mt = &monthTotals{}
			months[monthKey] = mt
		}

		switch e.Kind {
		case models.EntryIncome:
			summary.TotalIncome += e.Amount
			mt.income += e.Amount
		case models.EntryExpense:
			summary.TotalExpense += e.Amount
			mt.expense += e.Amount
			categories[e.Category] += e.Amount
		}
	}

	summary.NetProfitLoss = summary.TotalIncome - summary.TotalExpense
	// Convention: zero income means zero margin, not a division error.
	if summary.TotalIncome > 0 {
		summary.ProfitMargin = summary.NetProfitLoss / summary.TotalIncome * 100
	}

	monthKeys := make([]time.Time, 0, len(months))
	for k := range months {
		monthKeys = append(monthKeys, k)
	}
	sort.Slice(monthKeys, func(i, j int) bool { return monthKeys[i].Before(monthKeys[j]) })

	summary.Monthly = make([]MonthlyPoint, 0, len(monthKeys))
	for _, k := range monthKeys {
		summary.Monthly = append(summary.Monthly, MonthlyPoint{
			Month:   k.Format("Jan 06"),
			Income:  months[k].income,
			Expense: months[k].expense,
		})
	}

	summary.Categories = make([]CategoryTotal, 0, len(categories))
	for name, total := range categories {
		ct := CategoryTotal{Name: string(name), Total: total}
		if summary.TotalExpense > 0 {
			ct.Percentage = total / summary.TotalExpense * 100
		}
		summary.Categories = append(summary.Categories, ct)
	}
	sort.Slice(summary.Categories, func(i, j int) bool {
		if summary.Categories[i].Total != summary.Categories[j].Total {
			return summary.Categories[i].Total > summary.Categories[j].Total
		}
		return summary.Categories[i].Name < summary.Categories[j].Name
	})

	return summary, nil
}
