package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"orderflow/internal/domain"
	"orderflow/internal/mocks"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sync/errgroup"
)

// memResourceRepo counts creations like the real store would, so races in
// the quota guard become visible as over-provisioning.
type memResourceRepo struct {
	mu     sync.Mutex
	counts map[domain.ResourceKind]int64
}

func newMemResourceRepo() *memResourceRepo {
	return &memResourceRepo{counts: make(map[domain.ResourceKind]int64)}
}

func (r *memResourceRepo) CountActive(restaurantID uint64, kind domain.ResourceKind) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[kind], nil
}

func (r *memResourceRepo) CreateLocation(loc *domain.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[domain.ResourceLocation]++
	return nil
}

func (r *memResourceRepo) CreateStaffAccount(sa *domain.StaffAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[domain.ResourceStaffAccount]++
	return nil
}

func (r *memResourceRepo) CreateMeal(m *domain.Meal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[domain.ResourceMeal]++
	return nil
}

func subscriptionWithPlan(plan domain.SubscriptionPlan) *mocks.MockSubscriptionRepository {
	subs := new(mocks.MockSubscriptionRepository)
	subs.On("FindActiveByRestaurant", TestRestaurantID).Return(&domain.Subscription{
		ID:           1,
		RestaurantID: TestRestaurantID,
		Plan:         plan,
		IsActive:     true,
	}, nil)
	return subs
}

func TestQuota_ConcurrentReservationsAtLimit(t *testing.T) {
	subs := subscriptionWithPlan(domain.SubscriptionPlan{Name: "basic", MaxLocations: 2, IsActive: true})
	resources := newMemResourceRepo()
	resources.counts[domain.ResourceLocation] = 2

	service := NewQuotaService(subs, resources)

	var approved, denied int64
	var g errgroup.Group
	for i := 0; i < 50; i++ {
		g.Go(func() error {
			err := service.CheckAndReserve(context.Background(), TestRestaurantID, domain.ResourceLocation, func() error {
				return resources.CreateLocation(&domain.Location{RestaurantID: TestRestaurantID})
			})
			if err == nil {
				atomic.AddInt64(&approved, 1)
			} else if errors.Is(err, ErrQuotaExceeded) {
				atomic.AddInt64(&denied, 1)
			}
			return nil
		})
	}
	assert.NoError(t, g.Wait())

	assert.Equal(t, int64(0), approved)
	assert.Equal(t, int64(50), denied)
	assert.Equal(t, int64(2), resources.counts[domain.ResourceLocation])
}

func TestQuota_ConcurrentReservationsOneSlotLeft(t *testing.T) {
	subs := subscriptionWithPlan(domain.SubscriptionPlan{Name: "basic", MaxLocations: 2, IsActive: true})
	resources := newMemResourceRepo()
	resources.counts[domain.ResourceLocation] = 1

	service := NewQuotaService(subs, resources)

	var approved int64
	var g errgroup.Group
	for i := 0; i < 50; i++ {
		g.Go(func() error {
			err := service.CheckAndReserve(context.Background(), TestRestaurantID, domain.ResourceLocation, func() error {
				return resources.CreateLocation(&domain.Location{RestaurantID: TestRestaurantID})
			})
			if err == nil {
				atomic.AddInt64(&approved, 1)
			}
			return nil
		})
	}
	assert.NoError(t, g.Wait())

	assert.Equal(t, int64(1), approved, "exactly one of 50 concurrent calls may win the last slot")
	assert.Equal(t, int64(2), resources.counts[domain.ResourceLocation])
}

func TestQuota_DefaultPlanWithoutSubscription(t *testing.T) {
	subs := new(mocks.MockSubscriptionRepository)
	subs.On("FindActiveByRestaurant", TestRestaurantID).Return(nil, nil)
	resources := newMemResourceRepo()

	service := NewQuotaService(subs, resources)

	create := func() error {
		return resources.CreateStaffAccount(&domain.StaffAccount{RestaurantID: TestRestaurantID})
	}

	// Default plan allows a single staff account beyond the owner.
	assert.NoError(t, service.CheckAndReserve(context.Background(), TestRestaurantID, domain.ResourceStaffAccount, create))

	err := service.CheckAndReserve(context.Background(), TestRestaurantID, domain.ResourceStaffAccount, create)
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Equal(t, int64(1), resources.counts[domain.ResourceStaffAccount])
}

func TestQuota_FailedCreateReleasesSlot(t *testing.T) {
	subs := subscriptionWithPlan(domain.SubscriptionPlan{Name: "basic", MaxMeals: 1, IsActive: true})
	resources := newMemResourceRepo()

	service := NewQuotaService(subs, resources)

	err := service.CheckAndReserve(context.Background(), TestRestaurantID, domain.ResourceMeal, func() error {
		return errors.New("duplicate name")
	})
	assert.EqualError(t, err, "duplicate name")

	// Nothing was reserved, so the slot is still available.
	assert.NoError(t, service.CheckAndReserve(context.Background(), TestRestaurantID, domain.ResourceMeal, func() error {
		return resources.CreateMeal(&domain.Meal{RestaurantID: TestRestaurantID})
	}))
	assert.Equal(t, int64(1), resources.counts[domain.ResourceMeal])
}

func TestQuota_DecisionOnlyCheck(t *testing.T) {
	subs := subscriptionWithPlan(domain.SubscriptionPlan{Name: "basic", MaxLocations: 1, IsActive: true})
	resources := newMemResourceRepo()

	service := NewQuotaService(subs, resources)

	assert.NoError(t, service.CheckAndReserve(context.Background(), TestRestaurantID, domain.ResourceLocation, nil))
	assert.Equal(t, int64(0), resources.counts[domain.ResourceLocation])
}

func TestQuota_InactivePlanFallsBackToDefault(t *testing.T) {
	subs := subscriptionWithPlan(domain.SubscriptionPlan{Name: "legacy", MaxLocations: 50, IsActive: false})
	resources := newMemResourceRepo()
	resources.counts[domain.ResourceLocation] = 1

	service := NewQuotaService(subs, resources)

	err := service.CheckAndReserve(context.Background(), TestRestaurantID, domain.ResourceLocation, nil)
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Contains(t, err.Error(), "default")
}
