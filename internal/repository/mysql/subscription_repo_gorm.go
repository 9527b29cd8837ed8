package mysql

import (
	"errors"
	"fmt"

	"orderflow/internal/domain"
	"orderflow/internal/repository"

	"gorm.io/gorm"
)

type subscriptionRepo struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) repository.SubscriptionRepository {
	return &subscriptionRepo{db: db}
}

func (r *subscriptionRepo) FindActiveByRestaurant(restaurantID uint64) (*domain.Subscription, error) {
	var sub domain.Subscription
	err := r.db.Preload("Plan").
		Where("restaurant_id = ? AND is_active = ?", restaurantID, true).
		Order("created_at DESC").
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

type resourceRepo struct {
	db *gorm.DB
}

func NewResourceRepository(db *gorm.DB) repository.ResourceRepository {
	return &resourceRepo{db: db}
}

func (r *resourceRepo) CountActive(restaurantID uint64, kind domain.ResourceKind) (int64, error) {
	var cnt int64
	q := r.db.Where("restaurant_id = ? AND is_active = ?", restaurantID, true)
	switch kind {
	case domain.ResourceLocation:
		q = q.Model(&domain.Location{})
	case domain.ResourceStaffAccount:
		q = q.Model(&domain.StaffAccount{})
	case domain.ResourceMeal:
		q = q.Model(&domain.Meal{})
	default:
		return 0, fmt.Errorf("unknown resource kind %q", kind)
	}
	err := q.Count(&cnt).Error
	return cnt, err
}

func (r *resourceRepo) CreateLocation(loc *domain.Location) error {
	return r.db.Create(loc).Error
}

func (r *resourceRepo) CreateStaffAccount(sa *domain.StaffAccount) error {
	return r.db.Create(sa).Error
}

func (r *resourceRepo) CreateMeal(m *domain.Meal) error {
	return r.db.Create(m).Error
}
