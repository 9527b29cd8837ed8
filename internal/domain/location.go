package domain

import "time"

type Location struct {
	ID           uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	RestaurantID uint64    `json:"restaurantId" gorm:"not null;index"`
	Name         string    `json:"name" gorm:"type:varchar(100);not null"`
	Address      string    `json:"address" gorm:"type:varchar(255)"`
	IsActive     bool      `json:"isActive" gorm:"default:true"`
	CreatedAt    time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

// LocationETAConfig holds the per-location offset (minutes, may be
// negative) added to kitchen estimates for display.
type LocationETAConfig struct {
	LocationID    uint64 `json:"locationId" gorm:"primaryKey"`
	OffsetMinutes int    `json:"offsetMinutes" gorm:"not null;default:0"`
}

type StaffAccount struct {
	ID           uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	RestaurantID uint64    `json:"restaurantId" gorm:"not null;index"`
	LocationID   uint64    `json:"locationId" gorm:"index"`
	Name         string    `json:"name" gorm:"type:varchar(100);not null"`
	Email        string    `json:"email" gorm:"type:varchar(191);uniqueIndex"`
	Role         string    `json:"role" gorm:"type:varchar(20);not null;default:'staff'"`
	IsActive     bool      `json:"isActive" gorm:"default:true"`
	CreatedAt    time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

type Meal struct {
	ID           uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	RestaurantID uint64    `json:"restaurantId" gorm:"not null;index"`
	Name         string    `json:"name" gorm:"type:varchar(100);not null"`
	Price        int64     `json:"price" gorm:"not null"`
	IsActive     bool      `json:"isActive" gorm:"default:true"`
	CreatedAt    time.Time `json:"createdAt" gorm:"autoCreateTime"`
}
