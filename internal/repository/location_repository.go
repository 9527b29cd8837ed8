package repository

import (
	"orderflow/internal/domain"
)

type LocationRepository interface {
	FindByID(id uint64) (*domain.Location, error)

	// ETAOffset returns the configured display offset for a location,
	// zero when none has been set.
	ETAOffset(locationID uint64) (int, error)
	SetETAOffset(locationID uint64, minutes int) error
}
