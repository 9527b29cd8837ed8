package domain

import "time"

type ResourceKind string

const (
	ResourceLocation     ResourceKind = "location"
	ResourceStaffAccount ResourceKind = "staffAccount"
	ResourceMeal         ResourceKind = "meal"
)

type SubscriptionPlan struct {
	ID               uint64 `json:"id" gorm:"primaryKey;autoIncrement"`
	Name             string `json:"name" gorm:"type:varchar(50);not null"`
	MaxLocations     int    `json:"maxLocations" gorm:"not null"`
	MaxStaffAccounts int    `json:"maxStaffAccounts" gorm:"not null"`
	MaxMeals         int    `json:"maxMeals" gorm:"not null"`
	IsActive         bool   `json:"isActive" gorm:"default:true"`
}

// Subscription binds a restaurant to one plan. The most recent row with
// is_active=true is authoritative at evaluation time.
type Subscription struct {
	ID           uint64           `json:"id" gorm:"primaryKey;autoIncrement"`
	RestaurantID uint64           `json:"restaurantId" gorm:"not null;index"`
	PlanID       uint64           `json:"planId" gorm:"not null"`
	Plan         SubscriptionPlan `json:"plan" gorm:"foreignKey:PlanID"`
	IsActive     bool             `json:"isActive" gorm:"default:true;index"`
	CreatedAt    time.Time        `json:"createdAt" gorm:"autoCreateTime"`
}

// DefaultPlan applies when a restaurant has no active subscription.
func DefaultPlan() SubscriptionPlan {
	return SubscriptionPlan{
		Name:             "default",
		MaxLocations:     1,
		MaxStaffAccounts: 1,
		MaxMeals:         10,
		IsActive:         true,
	}
}

func (p SubscriptionPlan) Limit(kind ResourceKind) int {
	switch kind {
	case ResourceLocation:
		return p.MaxLocations
	case ResourceStaffAccount:
		return p.MaxStaffAccounts
	case ResourceMeal:
		return p.MaxMeals
	default:
		return 0
	}
}
