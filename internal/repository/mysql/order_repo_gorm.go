package mysql

import (
	"errors"

	"orderflow/internal/domain"
	"orderflow/internal/repository"

	"gorm.io/gorm"
)

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) Save(order *domain.Order) error {
	return r.db.Create(order).Error
}

func (r *orderRepo) FindByID(id uint64) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.First(&o, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) FindByPaymentRef(ref string) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.Where("payment_ref = ?", ref).First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) ListActiveByLocation(locationID uint64) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.
		Where("location_id = ? AND status NOT IN ?", locationID,
			[]domain.OrderStatus{domain.StatusDelivered, domain.StatusCancelled}).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) UpdateStatusGuard(id uint64, observed domain.OrderStatus, updates map[string]any) (int64, error) {
	res := r.db.Model(&domain.Order{}).
		Where("id = ? AND status = ?", id, observed).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *orderRepo) UpdatePaymentGuard(id uint64, observed domain.PaymentStatus, updates map[string]any) (int64, error) {
	res := r.db.Model(&domain.Order{}).
		Where("id = ? AND payment_status = ?", id, observed).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *orderRepo) UpdateEstimate(id uint64, minutes int) (int64, error) {
	res := r.db.Model(&domain.Order{}).
		Where("id = ?", id).
		Update("estimated_minutes", minutes)
	return res.RowsAffected, res.Error
}
