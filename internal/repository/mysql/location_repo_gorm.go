package mysql

import (
	"errors"

	"orderflow/internal/domain"
	"orderflow/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type locationRepo struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) repository.LocationRepository {
	return &locationRepo{db: db}
}

func (r *locationRepo) FindByID(id uint64) (*domain.Location, error) {
	var loc domain.Location
	if err := r.db.First(&loc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &loc, nil
}

func (r *locationRepo) ETAOffset(locationID uint64) (int, error) {
	var cfg domain.LocationETAConfig
	if err := r.db.First(&cfg, "location_id = ?", locationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return cfg.OffsetMinutes, nil
}

func (r *locationRepo) SetETAOffset(locationID uint64, minutes int) error {
	cfg := domain.LocationETAConfig{LocationID: locationID, OffsetMinutes: minutes}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "location_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"offset_minutes"}),
	}).Create(&cfg).Error
}
