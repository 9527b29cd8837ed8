package services

import (
	"context"
	"testing"
	"time"

	"orderflow/internal/domain"
	"orderflow/internal/mocks"

	"github.com/stretchr/testify/assert"
)

func testLocation() *domain.Location {
	return &domain.Location{
		ID:           TestLocationID,
		RestaurantID: TestRestaurantID,
		Name:         "Downtown",
		IsActive:     true,
	}
}

func TestKitchen_DisplayedETA(t *testing.T) {
	estimate := 20
	tests := []struct {
		name        string
		offset      int
		expectedETA int
	}{
		{name: "positive offset adds", offset: 10, expectedETA: 30},
		{name: "negative offset subtracts", offset: -5, expectedETA: 15},
		{name: "offset below estimate clamps to zero", offset: -25, expectedETA: 0},
		{name: "zero offset", offset: 0, expectedETA: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockOrders := new(mocks.MockOrderRepository)
			mockLocations := new(mocks.MockLocationRepository)

			mockLocations.On("FindByID", TestLocationID).Return(testLocation(), nil)
			mockLocations.On("ETAOffset", TestLocationID).Return(tt.offset, nil)

			order := *CreateMockOrder(TestOrderID, domain.StatusPreparing, domain.PaymentPaid)
			order.EstimatedMinutes = &estimate
			mockOrders.On("ListActiveByLocation", TestLocationID).Return([]domain.Order{order}, nil)

			service := NewKitchenService(mockOrders, mockLocations)
			views, err := service.ListActiveOrders(context.Background(), TestRestaurantID, TestLocationID)

			assert.NoError(t, err)
			assert.Len(t, views, 1)
			assert.NotNil(t, views[0].DisplayETA)
			assert.Equal(t, tt.expectedETA, *views[0].DisplayETA)
		})
	}
}

func TestKitchen_ListActiveOrders(t *testing.T) {
	mockOrders := new(mocks.MockOrderRepository)
	mockLocations := new(mocks.MockLocationRepository)

	mockLocations.On("FindByID", TestLocationID).Return(testLocation(), nil)
	mockLocations.On("ETAOffset", TestLocationID).Return(5, nil)

	withEstimate := *CreateMockOrder(1, domain.StatusConfirmed, domain.PaymentPaid)
	est := 10
	withEstimate.EstimatedMinutes = &est
	withoutEstimate := *CreateMockOrder(2, domain.StatusPending, domain.PaymentPaid)

	mockOrders.On("ListActiveByLocation", TestLocationID).Return([]domain.Order{withEstimate, withoutEstimate}, nil)

	service := NewKitchenService(mockOrders, mockLocations)
	views, err := service.ListActiveOrders(context.Background(), TestRestaurantID, TestLocationID)

	assert.NoError(t, err)
	assert.Len(t, views, 2)
	assert.Equal(t, 15, *views[0].DisplayETA)
	assert.Nil(t, views[1].DisplayETA, "no displayed ETA until the kitchen sets an estimate")
}

func TestKitchen_ListActiveOrders_UnknownLocation(t *testing.T) {
	mockOrders := new(mocks.MockOrderRepository)
	mockLocations := new(mocks.MockLocationRepository)
	mockLocations.On("FindByID", uint64(404)).Return(nil, nil)

	service := NewKitchenService(mockOrders, mockLocations)
	_, err := service.ListActiveOrders(context.Background(), TestRestaurantID, 404)
	assert.ErrorIs(t, err, ErrLocationNotFound)
}

func TestKitchen_ListActiveOrders_ForeignLocation(t *testing.T) {
	mockOrders := new(mocks.MockOrderRepository)
	mockLocations := new(mocks.MockLocationRepository)
	mockLocations.On("FindByID", TestLocationID).Return(testLocation(), nil)

	service := NewKitchenService(mockOrders, mockLocations)
	_, err := service.ListActiveOrders(context.Background(), uint64(99), TestLocationID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestKitchen_SetEstimate(t *testing.T) {
	tests := []struct {
		name          string
		minutes       int
		setupMocks    func(*mocks.MockOrderRepository)
		expectedError error
	}{
		{
			name:    "valid estimate",
			minutes: 25,
			setupMocks: func(mockOrders *mocks.MockOrderRepository) {
				mockOrders.On("FindByID", TestOrderID).Return(CreateMockOrder(TestOrderID, domain.StatusPreparing, domain.PaymentPaid), nil)
				mockOrders.On("UpdateEstimate", TestOrderID, 25).Return(int64(1), nil)
			},
		},
		{
			name:          "negative estimate rejected",
			minutes:       -1,
			setupMocks:    func(mockOrders *mocks.MockOrderRepository) {},
			expectedError: ErrInvalidEstimate,
		},
		{
			name:    "unknown order",
			minutes: 10,
			setupMocks: func(mockOrders *mocks.MockOrderRepository) {
				mockOrders.On("FindByID", TestOrderID).Return(nil, nil)
			},
			expectedError: ErrOrderNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockOrders := new(mocks.MockOrderRepository)
			mockLocations := new(mocks.MockLocationRepository)
			tt.setupMocks(mockOrders)

			service := NewKitchenService(mockOrders, mockLocations)
			err := service.SetEstimate(context.Background(), TestRestaurantID, TestOrderID, tt.minutes)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
			mockOrders.AssertExpectations(t)
		})
	}
}

func TestKitchen_SetEstimate_DoesNotTouchStatus(t *testing.T) {
	repo := newMemOrderRepo()
	o := seedOrder(t, repo, domain.StatusPreparing, domain.PaymentPaid)
	mockLocations := new(mocks.MockLocationRepository)

	service := NewKitchenService(repo, mockLocations)
	assert.NoError(t, service.SetEstimate(context.Background(), TestRestaurantID, o.ID, 15))

	got, _ := repo.FindByID(o.ID)
	assert.Equal(t, domain.StatusPreparing, got.Status)
	assert.Equal(t, 15, *got.EstimatedMinutes)
}

func TestKitchen_SetLocationOffset(t *testing.T) {
	mockOrders := new(mocks.MockOrderRepository)
	mockLocations := new(mocks.MockLocationRepository)

	mockLocations.On("FindByID", TestLocationID).Return(testLocation(), nil)
	mockLocations.On("SetETAOffset", TestLocationID, -5).Return(nil)

	service := NewKitchenService(mockOrders, mockLocations)
	assert.NoError(t, service.SetLocationOffset(context.Background(), TestRestaurantID, TestLocationID, -5))
	mockLocations.AssertExpectations(t)
}

func TestKitchen_FeedIsNewestFirst(t *testing.T) {
	repo := newMemOrderRepo()
	oldest := seedOrder(t, repo, domain.StatusPending, domain.PaymentPaid)
	middle := seedOrder(t, repo, domain.StatusConfirmed, domain.PaymentPaid)
	newest := seedOrder(t, repo, domain.StatusPreparing, domain.PaymentPaid)
	base := time.Now()
	repo.orders[oldest.ID].CreatedAt = base.Add(-2 * time.Hour)
	repo.orders[middle.ID].CreatedAt = base.Add(-time.Hour)
	repo.orders[newest.ID].CreatedAt = base

	mockLocations := new(mocks.MockLocationRepository)
	mockLocations.On("FindByID", TestLocationID).Return(testLocation(), nil)
	mockLocations.On("ETAOffset", TestLocationID).Return(0, nil)

	service := NewKitchenService(repo, mockLocations)
	views, err := service.ListActiveOrders(context.Background(), TestRestaurantID, TestLocationID)

	assert.NoError(t, err)
	assert.Len(t, views, 3)
	assert.Equal(t, newest.ID, views[0].ID)
	assert.Equal(t, middle.ID, views[1].ID)
	assert.Equal(t, oldest.ID, views[2].ID)
}

func TestKitchen_FeedIsARestartableSnapshot(t *testing.T) {
	// Two identical queries differ only because the data changed between
	// them; the feed holds no state of its own.
	repo := newMemOrderRepo()
	o := seedOrder(t, repo, domain.StatusConfirmed, domain.PaymentPaid)

	mockLocations := new(mocks.MockLocationRepository)
	mockLocations.On("FindByID", TestLocationID).Return(testLocation(), nil)
	mockLocations.On("ETAOffset", TestLocationID).Return(0, nil)

	service := NewKitchenService(repo, mockLocations)

	views, err := service.ListActiveOrders(context.Background(), TestRestaurantID, TestLocationID)
	assert.NoError(t, err)
	assert.Len(t, views, 1)

	updates := map[string]any{"status": domain.StatusCancelled, "cancelled_at": time.Now()}
	affected, err := repo.UpdateStatusGuard(o.ID, domain.StatusConfirmed, updates)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	views, err = service.ListActiveOrders(context.Background(), TestRestaurantID, TestLocationID)
	assert.NoError(t, err)
	assert.Len(t, views, 0)
}
