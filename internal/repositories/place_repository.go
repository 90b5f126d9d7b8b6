package repositories

import (
	"github.com/mehrdadh/hangout_bot/internal/models"
	"github.com/mehrdadh/hangout_bot/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PlaceRepository struct {
	db *gorm.DB
}

func NewPlaceRepository(db *gorm.DB) *PlaceRepository {
	return &PlaceRepository{db: db}
}

// ListPlaces returns up to limit catalog entries, best rated first. Distance
// filtering happens in the aggregator, which needs per-candidate distances
// anyway.
func (r *PlaceRepository) ListPlaces(limit int) ([]models.Place, error) {
	var places []models.Place

	err := r.db.Order("rating DESC").
		Limit(limit).
		Find(&places).Error

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list places")
	}

	return places, nil
}

// UpsertPlaces inserts or refreshes catalog entries by name, used by the
// spreadsheet import
func (r *PlaceRepository) UpsertPlaces(places []models.Place) error {
	if len(places) == 0 {
		return nil
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"category", "price_tier", "rating", "latitude", "longitude", "description"}),
	}).Create(&places).Error

	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to upsert places")
	}

	return nil
}

// CountPlaces reports catalog size
func (r *PlaceRepository) CountPlaces() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Place{}).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeInternalError, "failed to count places")
	}
	return count, nil
}
