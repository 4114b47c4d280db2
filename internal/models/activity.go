package models

import "time"

// ActivityModule identifies the operational module that owns a record.
type ActivityModule string

const (
	ModuleBreeding   ActivityModule = "breeding"
	ModuleFeeding    ActivityModule = "feeding"
	ModuleHealth     ActivityModule = "health"
	ModuleHousing    ActivityModule = "housing"
	ModulePlanting   ActivityModule = "planting"
	ModuleHarvesting ActivityModule = "harvesting"
	ModulePayroll    ActivityModule = "payroll"
	ModuleEvent      ActivityModule = "event"
	ModuleAsset      ActivityModule = "asset"
	ModuleSoilTest   ActivityModule = "soil_test"
	ModulePlot       ActivityModule = "plot"
)

// AllModules lists every operational module that can own activity records.
var AllModules = []ActivityModule{
	ModuleBreeding, ModuleFeeding, ModuleHealth, ModuleHousing,
	ModulePlanting, ModuleHarvesting, ModulePayroll, ModuleEvent,
	ModuleAsset, ModuleSoilTest, ModulePlot,
}

// Valid reports whether m names a known module.
func (m ActivityModule) Valid() bool {
	for _, known := range AllModules {
		if m == known {
			return true
		}
	}
	return false
}

// CostCategory classifies a line item for reporting purposes.
type CostCategory string

const (
	CategoryMaterialInput   CostCategory = "material_input"
	CategoryLabor           CostCategory = "labor"
	CategoryUtilities       CostCategory = "utilities"
	CategoryEquipmentRental CostCategory = "equipment_rental"
	CategoryVeterinary      CostCategory = "veterinary"
	CategoryTransport       CostCategory = "transport"
	CategoryProduceSale     CostCategory = "produce_sale"
	CategoryOther           CostCategory = "other"
)

// PaymentSource records how a line item was paid (or received).
type PaymentSource string

const (
	PaymentCash         PaymentSource = "cash"
	PaymentBankTransfer PaymentSource = "bank_transfer"
	PaymentMobileMoney  PaymentSource = "mobile_money"
	PaymentCredit       PaymentSource = "credit"
)

// ActivityRecord is an operational log entry owned by one module
// (a feeding event, a harvest, a payroll run). Module-specific fields
// live in the Details document; cost and sale items are child rows that
// are replaced wholesale on every save.
type ActivityRecord struct {
	Base
	FarmID        uint           `gorm:"not null;index" json:"farm_id"`
	Module        ActivityModule `gorm:"not null;index" json:"module"`
	Title         string         `gorm:"not null" json:"title"`
	Notes         string         `json:"notes,omitempty"`
	EffectiveDate time.Time      `gorm:"not null" json:"effective_date"`
	Details       map[string]any `gorm:"serializer:json" json:"details,omitempty"`

	// Denormalized totals, recomputed on every save from the same line
	// items used to build ledger entries so the two can never diverge.
	TotalCost   float64 `gorm:"not null;default:0" json:"total_cost"`
	TotalIncome float64 `gorm:"not null;default:0" json:"total_income"`

	LineItems []LineItem `gorm:"foreignKey:ActivityRecordID" json:"line_items"`
}

// LineItem is one itemized cost or sale within an activity record.
// ItemID is a stable UUID stamped onto the derived ledger entry so a
// re-save replaces rather than duplicates. Line items are hard-deleted
// and recreated with their parent's save; they carry no soft delete.
type LineItem struct {
	ID               uint          `gorm:"primaryKey" json:"-"`
	ActivityRecordID uint          `gorm:"not null;index" json:"-"`
	ItemID           string        `gorm:"size:36;not null" json:"item_id"`
	Description      string        `gorm:"not null" json:"description"`
	Category         CostCategory  `gorm:"not null" json:"category"`
	PaymentSource    PaymentSource `gorm:"not null" json:"payment_source"`
	Unit             string        `json:"unit,omitempty"`
	Quantity         float64       `gorm:"not null" json:"quantity"`
	UnitPrice        float64       `gorm:"not null" json:"unit_price"`
	Total            float64       `gorm:"not null" json:"total"`
	Kind             EntryKind     `gorm:"not null;default:'expense'" json:"kind"`
	CreatedAt        time.Time     `json:"created_at"`
}
