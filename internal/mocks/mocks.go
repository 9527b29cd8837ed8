package mocks

import (
	"context"

	"orderflow/internal/domain"
	"orderflow/internal/infra"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Save(order *domain.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(id uint64) (*domain.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByPaymentRef(ref string) (*domain.Order, error) {
	args := m.Called(ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) ListActiveByLocation(locationID uint64) ([]domain.Order, error) {
	args := m.Called(locationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatusGuard(id uint64, observed domain.OrderStatus, updates map[string]any) (int64, error) {
	args := m.Called(id, observed, updates)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) UpdatePaymentGuard(id uint64, observed domain.PaymentStatus, updates map[string]any) (int64, error) {
	args := m.Called(id, observed, updates)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) UpdateEstimate(id uint64, minutes int) (int64, error) {
	args := m.Called(id, minutes)
	return args.Get(0).(int64), args.Error(1)
}

type MockLocationRepository struct {
	mock.Mock
}

func (m *MockLocationRepository) FindByID(id uint64) (*domain.Location, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Location), args.Error(1)
}

func (m *MockLocationRepository) ETAOffset(locationID uint64) (int, error) {
	args := m.Called(locationID)
	return args.Int(0), args.Error(1)
}

func (m *MockLocationRepository) SetETAOffset(locationID uint64, minutes int) error {
	args := m.Called(locationID, minutes)
	return args.Error(0)
}

type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) FindActiveByRestaurant(restaurantID uint64) (*domain.Subscription, error) {
	args := m.Called(restaurantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subscription), args.Error(1)
}

type MockResourceRepository struct {
	mock.Mock
}

func (m *MockResourceRepository) CountActive(restaurantID uint64, kind domain.ResourceKind) (int64, error) {
	args := m.Called(restaurantID, kind)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockResourceRepository) CreateLocation(loc *domain.Location) error {
	args := m.Called(loc)
	return args.Error(0)
}

func (m *MockResourceRepository) CreateStaffAccount(sa *domain.StaffAccount) error {
	args := m.Called(sa)
	return args.Error(0)
}

func (m *MockResourceRepository) CreateMeal(meal *domain.Meal) error {
	args := m.Called(meal)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, data any) error {
	args := m.Called(ctx, routingKey, data)
	return args.Error(0)
}

type MockProcessorClient struct {
	mock.Mock
}

func (m *MockProcessorClient) CreateCheckoutSession(ctx context.Context, paymentRef string, amount int64) (*infra.CheckoutSession, error) {
	args := m.Called(ctx, paymentRef, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*infra.CheckoutSession), args.Error(1)
}
