package models

import "time"

// EntryKind partitions ledger entries into money out and money in.
type EntryKind string

const (
	EntryExpense EntryKind = "expense"
	EntryIncome  EntryKind = "income"
)

// LedgerEntry is a derived financial row used for reporting. Every entry
// traces back to the activity record and line item that produced it via
// (SourceActivityID, SourceLineItemID); at most one live entry exists per
// pair. Entries are never edited in place — the synchronizer deletes and
// recreates them whenever the source line items change, so they are
// hard-deleted rather than soft-deleted.
type LedgerEntry struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	FarmID        uint          `gorm:"not null;index:idx_ledger_farm_date" json:"farm_id"`
	Date          time.Time     `gorm:"not null;index:idx_ledger_farm_date" json:"date"`
	Description   string        `gorm:"not null" json:"description"`
	Amount        float64       `gorm:"not null" json:"amount"`
	Kind          EntryKind     `gorm:"not null" json:"kind"`
	Category      CostCategory  `gorm:"not null" json:"category"`
	PaymentSource PaymentSource `gorm:"not null" json:"payment_source"`

	SourceModule     ActivityModule `gorm:"not null;index" json:"source_module"`
	SourceActivityID uint           `gorm:"not null;index" json:"source_activity_id"`
	SourceLineItemID string         `gorm:"size:36;not null" json:"source_line_item_id"`

	CreatedAt time.Time `json:"created_at"`
}
