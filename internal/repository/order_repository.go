package repository

import (
	"orderflow/internal/domain"
)

type OrderRepository interface {
	Save(order *domain.Order) error
	FindByID(id uint64) (*domain.Order, error)
	FindByPaymentRef(ref string) (*domain.Order, error)
	ListActiveByLocation(locationID uint64) ([]domain.Order, error)

	// UpdateStatusGuard applies updates only while the order still holds the
	// observed status. Returns rows affected: 0 means the guard lost a
	// concurrent race or the order is gone.
	UpdateStatusGuard(id uint64, observed domain.OrderStatus, updates map[string]any) (int64, error)

	// UpdatePaymentGuard is the same conditional write keyed on the observed
	// payment status. Both reconciliation and staff actions must go through
	// one of these two guards; plain updates on status columns are not
	// exposed.
	UpdatePaymentGuard(id uint64, observed domain.PaymentStatus, updates map[string]any) (int64, error)

	UpdateEstimate(id uint64, minutes int) (int64, error)
}
