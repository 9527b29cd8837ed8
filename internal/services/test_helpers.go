package services

import (
	"sort"
	"sync"
	"time"

	"orderflow/internal/domain"
)

func CreateMockOrder(id uint64, status domain.OrderStatus, payment domain.PaymentStatus) *domain.Order {
	return &domain.Order{
		ID:            id,
		RestaurantID:  TestRestaurantID,
		LocationID:    TestLocationID,
		Status:        status,
		PaymentStatus: payment,
		PaymentRef:    TestPaymentRef,
		TotalPrice:    TestTotalPrice,
		CreatedAt:     time.Now(),
	}
}

const (
	TestRestaurantID = uint64(1)
	TestLocationID   = uint64(1)
	TestOrderID      = uint64(1)
	TestTotalPrice   = int64(1000)
	TestPaymentRef   = "11111111-2222-3333-4444-555555555555"
)

// memOrderRepo is an in-memory OrderRepository with the same guard
// semantics as the gorm implementation, for lifecycle and race tests.
type memOrderRepo struct {
	mu     sync.Mutex
	orders map[uint64]*domain.Order
	nextID uint64
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: make(map[uint64]*domain.Order)}
}

func (r *memOrderRepo) Save(o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	o.ID = r.nextID
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *memOrderRepo) FindByID(id uint64) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *memOrderRepo) FindByPaymentRef(ref string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.PaymentRef == ref {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memOrderRepo) ListActiveByLocation(locationID uint64) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Order
	for _, o := range r.orders {
		if o.LocationID == locationID && !o.Status.Terminal() {
			out = append(out, *o)
		}
	}
	// newest first, matching the gorm implementation
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memOrderRepo) UpdateStatusGuard(id uint64, observed domain.OrderStatus, updates map[string]any) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok || o.Status != observed {
		return 0, nil
	}
	applyUpdates(o, updates)
	return 1, nil
}

func (r *memOrderRepo) UpdatePaymentGuard(id uint64, observed domain.PaymentStatus, updates map[string]any) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok || o.PaymentStatus != observed {
		return 0, nil
	}
	applyUpdates(o, updates)
	return 1, nil
}

func (r *memOrderRepo) UpdateEstimate(id uint64, minutes int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return 0, nil
	}
	o.EstimatedMinutes = &minutes
	return 1, nil
}

func applyUpdates(o *domain.Order, updates map[string]any) {
	for k, v := range updates {
		switch k {
		case "status":
			o.Status = v.(domain.OrderStatus)
		case "payment_status":
			o.PaymentStatus = v.(domain.PaymentStatus)
		case "external_payment_reference":
			o.ExternalPaymentReference = v.(string)
		case "cancelled_at":
			if t, ok := v.(time.Time); ok {
				o.CancelledAt = &t
			} else if o.CancelledAt == nil {
				// COALESCE expression from the expired path
				now := time.Now()
				o.CancelledAt = &now
			}
		}
	}
}
