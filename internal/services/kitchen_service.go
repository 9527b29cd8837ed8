package services

import (
	"context"
	"fmt"
	"time"

	"orderflow/internal/domain"
	"orderflow/internal/repository"

	"github.com/go-redis/redis/v8"
)

// KitchenService is the staff-facing read/update surface. It is a polling
// snapshot, not a push system: every call re-reads the store.
type KitchenService struct {
	orders      repository.OrderRepository
	locations   repository.LocationRepository
	redisClient *redis.Client
}

func NewKitchenService(orders repository.OrderRepository, locations repository.LocationRepository) *KitchenService {
	return &KitchenService{orders: orders, locations: locations}
}

func (s *KitchenService) SetRedisClient(client *redis.Client) {
	s.redisClient = client
}

// OrderView annotates an order with the ETA shown to staff:
// estimate + location offset, clamped at zero. Nil until an estimate is set.
type OrderView struct {
	domain.Order
	DisplayETA *int `json:"displayEta,omitempty"`
}

func (s *KitchenService) ListActiveOrders(ctx context.Context, restaurantID, locationID uint64) ([]OrderView, error) {
	loc, err := s.mustOwnLocation(restaurantID, locationID)
	if err != nil {
		return nil, err
	}

	offset, err := s.etaOffset(ctx, loc.ID)
	if err != nil {
		return nil, err
	}

	orders, err := s.orders.ListActiveByLocation(loc.ID)
	if err != nil {
		return nil, err
	}

	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		v := OrderView{Order: o}
		if o.EstimatedMinutes != nil {
			eta := *o.EstimatedMinutes + offset
			if eta < 0 {
				eta = 0
			}
			v.DisplayETA = &eta
		}
		views = append(views, v)
	}
	return views, nil
}

// SetEstimate records the kitchen's preparation estimate. It never touches
// the order status.
func (s *KitchenService) SetEstimate(ctx context.Context, restaurantID, orderID uint64, minutes int) error {
	if minutes < 0 {
		return ErrInvalidEstimate
	}
	o, err := s.orders.FindByID(orderID)
	if err != nil {
		return err
	}
	if o == nil {
		return ErrOrderNotFound
	}
	if restaurantID != 0 && o.RestaurantID != restaurantID {
		return ErrForbidden
	}
	// rows affected is not checked here: MySQL reports 0 for a same-value
	// update and existence was already verified above.
	_, err = s.orders.UpdateEstimate(o.ID, minutes)
	return err
}

// SetLocationOffset stores the per-location display adjustment. Negative
// offsets are allowed; the displayed ETA clamps at zero instead.
func (s *KitchenService) SetLocationOffset(ctx context.Context, restaurantID, locationID uint64, minutes int) error {
	loc, err := s.mustOwnLocation(restaurantID, locationID)
	if err != nil {
		return err
	}
	if err := s.locations.SetETAOffset(loc.ID, minutes); err != nil {
		return err
	}
	if s.redisClient != nil {
		s.redisClient.Del(ctx, etaOffsetKey(loc.ID))
	}
	return nil
}

func (s *KitchenService) mustOwnLocation(restaurantID, locationID uint64) (*domain.Location, error) {
	loc, err := s.locations.FindByID(locationID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, ErrLocationNotFound
	}
	if restaurantID != 0 && loc.RestaurantID != restaurantID {
		return nil, ErrForbidden
	}
	return loc, nil
}

func (s *KitchenService) etaOffset(ctx context.Context, locationID uint64) (int, error) {
	key := etaOffsetKey(locationID)
	if s.redisClient != nil {
		if v, err := s.redisClient.Get(ctx, key).Int(); err == nil {
			return v, nil
		}
	}
	offset, err := s.locations.ETAOffset(locationID)
	if err != nil {
		return 0, err
	}
	if s.redisClient != nil {
		s.redisClient.Set(ctx, key, offset, time.Minute)
	}
	return offset, nil
}

func etaOffsetKey(locationID uint64) string {
	return fmt.Sprintf("eta_offset:%d", locationID)
}
