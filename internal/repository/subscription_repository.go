package repository

import (
	"orderflow/internal/domain"
)

type SubscriptionRepository interface {
	// FindActiveByRestaurant returns the most recent active subscription
	// with its plan preloaded, or nil when the restaurant has none.
	FindActiveByRestaurant(restaurantID uint64) (*domain.Subscription, error)
}

// ResourceRepository covers the countable resources gated by subscription
// quotas. Creation goes through here so the quota guard can wrap count and
// insert in one critical section.
type ResourceRepository interface {
	CountActive(restaurantID uint64, kind domain.ResourceKind) (int64, error)
	CreateLocation(loc *domain.Location) error
	CreateStaffAccount(sa *domain.StaffAccount) error
	CreateMeal(m *domain.Meal) error
}
