package models

import "time"

// Season is a named sub-period of a farming year, bounded by its parent's
// dates. Seasons are stored embedded in the year document and are only
// used to resolve reporting windows.
type Season struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// FarmingYear is reference data describing one production cycle. It is
// never itself financial; the window resolver reads it to turn a
// year/season selection into a concrete date range.
type FarmingYear struct {
	Base
	FarmID    uint      `gorm:"not null;index" json:"farm_id"`
	Name      string    `gorm:"not null" json:"name"`
	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`
	Seasons   []Season  `gorm:"serializer:json" json:"seasons"`
}

// FindSeason returns the embedded season with the given id, if any.
func (y *FarmingYear) FindSeason(seasonID string) (Season, bool) {
	for _, s := range y.Seasons {
		if s.ID == seasonID {
			return s, true
		}
	}
	return Season{}, false
}
