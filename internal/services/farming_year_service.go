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

// farmingYearService manages farming-year reference data and resolves
// user-selected reporting scopes into concrete date windows.
type farmingYearService struct {
	db *gorm.DB
}

// NewFarmingYearService creates a new FarmingYearServicer.
func NewFarmingYearService(db *gorm.DB) FarmingYearServicer {
	return &farmingYearService{db: db}
}

// buildSeasons assigns ids to new seasons and checks each season stays
// inside its parent year's dates.
func buildSeasons(yearStart, yearEnd time.Time, inputs []SeasonInput) ([]models.Season, error) {
	seasons := make([]models.Season, 0, len(inputs))
	for _, in := range inputs {
		if in.EndDate.Before(in.StartDate) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "season end date must not precede its start date")
		}
		if in.StartDate.Before(yearStart) || in.EndDate.After(endOfDay(yearEnd)) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "season must fall within its farming year")
		}

		id := in.ID
		if id == "" || !uuid.IsValid(id) {
			id = uuid.New()
		}
		seasons = append(seasons, models.Season{
			ID:        id,
			Name:      in.Name,
			StartDate: in.StartDate,
			EndDate:   in.EndDate,
		})
	}
	return seasons, nil
}

// CreateFarmingYear creates a farming year with its embedded seasons.
func (s *farmingYearService) CreateFarmingYear(farmID uint, name string, startDate, endDate time.Time, seasonInputs []SeasonInput) (*models.FarmingYear, error) {
	if endDate.Before(startDate) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "end date must not precede start date")
	}

	seasons, err := buildSeasons(startDate, endDate, seasonInputs)
	if err != nil {
		return nil, err
	}

	year := &models.FarmingYear{
		FarmID:    farmID,
		Name:      name,
		StartDate: startDate,
		EndDate:   endDate,
		Seasons:   seasons,
	}
	if err := s.db.Create(year).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return year, nil
}

// GetFarmingYears returns a paginated list of the farm's farming years.
func (s *farmingYearService) GetFarmingYears(farmID uint, page pagination.PageRequest) (*pagination.PageResponse[models.FarmingYear], error) {
	page.Defaults()

	base := s.db.Model(&models.FarmingYear{}).Where("farm_id = ?", farmID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var years []models.FarmingYear
	if err := base.Scopes(pagination.Paginate(page)).Order("start_date DESC").Find(&years).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(years, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetFarmingYearByID returns a farming year if it belongs to the farm.
func (s *farmingYearService) GetFarmingYearByID(farmID, yearID uint) (*models.FarmingYear, error) {
	var year models.FarmingYear
	if err := s.db.Where("id = ? AND farm_id = ?", yearID, farmID).First(&year).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFarmingYearNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &year, nil
}

// UpdateFarmingYear updates a farming year's fields. Seasons, when
// provided, replace the embedded list wholesale.
func (s *farmingYearService) UpdateFarmingYear(farmID, yearID uint, name string, startDate, endDate *time.Time, seasonInputs []SeasonInput) (*models.FarmingYear, error) {
	year, err := s.GetFarmingYearByID(farmID, yearID)
	if err != nil {
		return nil, err
	}

	if name != "" {
		year.Name = name
	}
	if startDate != nil {
		year.StartDate = *startDate
	}
	if endDate != nil {
		year.EndDate = *endDate
	}
	if year.EndDate.Before(year.StartDate) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "end date must not precede start date")
	}
	if seasonInputs != nil {
		seasons, err := buildSeasons(year.StartDate, year.EndDate, seasonInputs)
		if err != nil {
			return nil, err
		}
		year.Seasons = seasons
	}

	if err := s.db.Save(year).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return year, nil
}

// DeleteFarmingYear soft-deletes a farming year.
func (s *farmingYearService) DeleteFarmingYear(farmID, yearID uint) error {
	year, err := s.GetFarmingYearByID(farmID, yearID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(year).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ResolveWindow converts a reporting scope into a concrete inclusive
// date interval. Unknown year or season ids return not-found errors that
// report callers treat as "no data for this selection", never as fatal.
func (s *farmingYearService) ResolveWindow(farmID uint, scope WindowScope) (Window, error) {
	switch scope.Mode {
	case WindowExplicit:
		if scope.Start == nil || scope.End == nil {
			return Window{}, apperrors.WithMessage(apperrors.ErrInvalidWindow, "explicit windows require start and end dates")
		}
		if scope.End.Before(*scope.Start) {
			return Window{}, apperrors.WithMessage(apperrors.ErrInvalidWindow, "window end must not precede window start")
		}
		return Window{Start: *scope.Start, End: *scope.End}, nil

	case WindowRolling12:
		now := time.Now()
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -11, 0)
		return Window{Start: start, End: now}, nil

	case WindowFarmingYear:
		year, err := s.GetFarmingYearByID(farmID, scope.YearID)
		if err != nil {
			return Window{}, err
		}
		return Window{Start: year.StartDate, End: year.EndDate}, nil

	case WindowSeason:
		year, err := s.GetFarmingYearByID(farmID, scope.YearID)
		if err != nil {
			return Window{}, err
		}
		season, ok := year.FindSeason(scope.SeasonID)
		if !ok {
			return Window{}, apperrors.ErrSeasonNotFound
		}
		return Window{Start: season.StartDate, End: season.EndDate}, nil

	default:
		return Window{}, apperrors.WithMessage(apperrors.ErrInvalidWindow, "unknown window mode")
	}
}
