package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/williampious/faas-sub000/internal/errors"
	"github.com/williampious/faas-sub000/internal/models"
	"github.com/williampious/faas-sub000/internal/pagination"
	"github.com/williampious/faas-sub000/internal/uuid"
)

// activityService owns activity records and keeps the financial ledger
// synchronized with their line items. Every save replaces the record's
// line items and derived ledger entries wholesale inside one database
// transaction: replace-all is idempotent by construction and can never
// leave a cost without ledger backing or vice versa.
type activityService struct {
	db *gorm.DB
}

// NewActivityService creates a new ActivityServicer.
func NewActivityService(db *gorm.DB) ActivityServicer {
	return &activityService{db: db}
}

// processLineItems turns validated input items into persistable line
// items, recomputing every total from quantity and unit price. Totals
// submitted by clients are never trusted. Only the harvesting module may
// emit income items; any other module's items are forced to expense.
func processLineItems(module models.ActivityModule, inputs []LineItemInput) (items []models.LineItem, totalCost, totalIncome float64) {
	items = make([]models.LineItem, 0, len(inputs))
	for _, in := range inputs {
		kind := models.EntryExpense
		if module == models.ModuleHarvesting && in.Kind == models.EntryIncome {
			kind = models.EntryIncome
		}

		itemID := in.ItemID
		if itemID == "" || !uuid.IsValid(itemID) {
			itemID = uuid.New()
		}

		total := in.Quantity * in.UnitPrice
		if kind == models.EntryIncome {
			totalIncome += total
		} else {
			totalCost += total
		}

		items = append(items, models.LineItem{
			ItemID:        itemID,
			Description:   in.Description,
			Category:      in.Category,
			PaymentSource: in.PaymentSource,
			Unit:          in.Unit,
			Quantity:      in.Quantity,
			UnitPrice:     in.UnitPrice,
			Total:         total,
			Kind:          kind,
		})
	}
	return items, totalCost, totalIncome
}

// syncLedger makes the ledger consistent with the record's current line
// items. It deletes every line item and ledger entry derived from this
// activity and recreates them from the given items, stamping each entry
// with its source ids so the next save replaces rather than duplicates.
// Must run inside the same transaction as the record upsert.
func syncLedger(tx *gorm.DB, record *models.ActivityRecord, items []models.LineItem) error {
	if err := tx.Where("activity_record_id = ?", record.ID).Delete(&models.LineItem{}).Error; err != nil {
		return err
	}
	if err := tx.Where("source_activity_id = ?", record.ID).Delete(&models.LedgerEntry{}).Error; err != nil {
		return err
	}

	if len(items) == 0 {
		return nil
	}

	for i := range items {
		items[i].ActivityRecordID = record.ID
	}
	if err := tx.Create(&items).Error; err != nil {
		return err
	}

	entries := make([]models.LedgerEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, models.LedgerEntry{
			FarmID:           record.FarmID,
			Date:             record.EffectiveDate,
			Description:      item.Description,
			Amount:           item.Total,
			Kind:             item.Kind,
			Category:         item.Category,
			PaymentSource:    item.PaymentSource,
			SourceModule:     record.Module,
			SourceActivityID: record.ID,
			SourceLineItemID: item.ItemID,
		})
	}
	return tx.Create(&entries).Error
}

// CreateActivity creates an activity record and its derived ledger
// entries in one atomic batch.
func (s *activityService) CreateActivity(farmID uint, input ActivityInput) (*models.ActivityRecord, error) {
	if input.Module == "" {
		return nil, apperrors.ErrInvalidModule
	}

	items, totalCost, totalIncome := processLineItems(input.Module, input.LineItems)

	record := &models.ActivityRecord{
		FarmID:        farmID,
		Module:        input.Module,
		Title:         input.Title,
		Notes:         input.Notes,
		EffectiveDate: input.EffectiveDate,
		Details:       input.Details,
		TotalCost:     totalCost,
		TotalIncome:   totalIncome,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(record).Error; err != nil {
			return err
		}
		return syncLedger(tx, record, items)
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrLedgerCommitFailed, err)
	}

	record.LineItems = items
	return record, nil
}

// UpdateActivity replaces the record's fields, line items, and ledger
// entries with the given input in one atomic batch. Re-saving identical
// input yields an identical ledger state.
func (s *activityService) UpdateActivity(farmID, activityID uint, input ActivityInput) (*models.ActivityRecord, error) {
	record, err := s.getRecord(farmID, activityID)
	if err != nil {
		return nil, err
	}

	items, totalCost, totalIncome := processLineItems(record.Module, input.LineItems)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"title":          input.Title,
			"notes":          input.Notes,
			"effective_date": input.EffectiveDate,
			"total_cost":     totalCost,
			"total_income":   totalIncome,
		}
		if input.Details != nil {
			updates["details"] = input.Details
		}
		if err := tx.Model(record).Updates(updates).Error; err != nil {
			return err
		}
		return syncLedger(tx, record, items)
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrLedgerCommitFailed, err)
	}

	record.LineItems = items
	return record, nil
}

// GetActivityByID retrieves an activity record with its line items.
func (s *activityService) GetActivityByID(farmID, activityID uint) (*models.ActivityRecord, error) {
	var record models.ActivityRecord
	err := s.db.Preload("LineItems").
		Where("id = ? AND farm_id = ?", activityID, farmID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrActivityNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &record, nil
}

// GetFarmActivities retrieves a paginated, filtered list of activity records.
func (s *activityService) GetFarmActivities(farmID uint, page pagination.PageRequest, filter ActivityFilter) (*pagination.PageResponse[models.ActivityRecord], error) {
	page.Defaults()

	base := s.db.Model(&models.ActivityRecord{}).Where("farm_id = ?", farmID)
	if filter.Module != nil {
		base = base.Where("module = ?", *filter.Module)
	}
	if filter.FromDate != nil {
		base = base.Where("effective_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		base = base.Where("effective_date <= ?", endOfDay(*filter.ToDate))
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var records []models.ActivityRecord
	if err := base.Preload("LineItems").Scopes(pagination.Paginate(page)).
		Order("effective_date DESC").
		Find(&records).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(records, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// DeleteActivity removes the record, its line items, and every ledger
// entry derived from it in one atomic batch, leaving no orphans.
func (s *activityService) DeleteActivity(farmID, activityID uint) error {
	record, err := s.getRecord(farmID, activityID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("activity_record_id = ?", record.ID).Delete(&models.LineItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("source_activity_id = ?", record.ID).Delete(&models.LedgerEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(record).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrLedgerCommitFailed, err)
	}
	return nil
}

// FindOrphanedEntries scans for ledger entries whose source activity no
// longer exists. Under atomic batches this should never find anything;
// a non-empty result is data-repair work, not a runtime error path.
func (s *activityService) FindOrphanedEntries(farmID uint) ([]models.LedgerEntry, error) {
	var orphans []models.LedgerEntry
	err := s.db.
		Where("farm_id = ?", farmID).
		Where("source_activity_id NOT IN (?)",
			s.db.Model(&models.ActivityRecord{}).Select("id").Where("farm_id = ?", farmID)).
		Find(&orphans).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return orphans, nil
}

func (s *activityService) getRecord(farmID, activityID uint) (*models.ActivityRecord, error) {
	var record models.ActivityRecord
	err := s.db.Where("id = ? AND farm_id = ?", activityID, farmID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrActivityNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &record, nil
}
