package services

import (
	"context"
	"fmt"
	"time"

	"orderflow/internal/domain"
	"orderflow/internal/infra"
	rabbit "orderflow/internal/infra/rabbitmq"
	"orderflow/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type OrderService struct {
	repo      repository.OrderRepository
	processor infra.ProcessorClientInterface
	publisher rabbit.PublisherInterface
}

func NewOrderService(r repository.OrderRepository, p infra.ProcessorClientInterface, pub rabbit.PublisherInterface) *OrderService {
	return &OrderService{
		repo:      r,
		processor: p,
		publisher: pub,
	}
}

type CheckoutInput struct {
	RestaurantID uint64
	LocationID   uint64
	TotalPrice   int64
}

// Checkout creates the order at checkout initiation (PENDING/PENDING) and
// opens a checkout session at the payment processor. The generated
// PaymentRef is the correlation field later webhook events carry back.
func (s *OrderService) Checkout(ctx context.Context, in CheckoutInput) (*domain.Order, string, error) {
	order := &domain.Order{
		RestaurantID:  in.RestaurantID,
		LocationID:    in.LocationID,
		TotalPrice:    in.TotalPrice,
		Status:        domain.StatusPending,
		PaymentStatus: domain.PaymentPending,
		PaymentRef:    uuid.NewString(),
		CreatedAt:     time.Now(),
	}
	if err := s.repo.Save(order); err != nil {
		return nil, "", err
	}

	session, err := s.processor.CreateCheckoutSession(ctx, order.PaymentRef, order.TotalPrice)
	if err != nil {
		// The order stays PENDING/PENDING; the expired path cleans it up
		// if the customer never pays.
		log.Error().Err(err).Uint64("order_id", order.ID).Msg("checkout session creation failed")
		return nil, "", err
	}

	go s.publishOrderCreated(context.Background(), order)

	return order, session.CheckoutURL, nil
}

// Transition validates the requested edge against the transition table and
// applies it as a single conditional update keyed on the status observed at
// read time. A lost race returns ErrConcurrentModification, never a silent
// overwrite.
func (s *OrderService) Transition(ctx context.Context, restaurantID, orderID uint64, to domain.OrderStatus) (*domain.Order, error) {
	if !domain.ValidOrderStatus(to) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}

	o, err := s.repo.FindByID(orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	if restaurantID != 0 && o.RestaurantID != restaurantID {
		return nil, ErrForbidden
	}
	if !domain.CanTransition(o.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, to)
	}

	updates := map[string]any{"status": to}
	var cancelledAt time.Time
	if to == domain.StatusCancelled {
		// Re-entering CANCELLED is rejected by the table above, so the
		// timestamp is written at most once.
		cancelledAt = time.Now()
		updates["cancelled_at"] = cancelledAt
	}

	affected, err := s.repo.UpdateStatusGuard(o.ID, o.Status, updates)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: order %d no longer in %s", ErrConcurrentModification, o.ID, o.Status)
	}

	from := o.Status
	o.Status = to
	if to == domain.StatusCancelled {
		o.CancelledAt = &cancelledAt
	}

	go s.publishStatusChanged(context.Background(), o.ID, from, to)

	return o, nil
}

func (s *OrderService) GetOrderById(ctx context.Context, id uint64) (*domain.Order, error) {
	o, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (s *OrderService) publishOrderCreated(ctx context.Context, order *domain.Order) {
	evt := domain.OrderCreatedEvent{
		OrderID:    order.ID,
		LocationID: order.LocationID,
		TotalPrice: order.TotalPrice,
		CreatedAt:  order.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, "order.created", evt); err != nil {
		log.Error().Err(err).Uint64("order_id", order.ID).Msg("publish order.created failed")
	}
}

func (s *OrderService) publishStatusChanged(ctx context.Context, orderID uint64, from, to domain.OrderStatus) {
	evt := domain.StatusChangedEvent{OrderID: orderID, From: from, To: to}
	if err := s.publisher.Publish(ctx, "order.status_changed", evt); err != nil {
		log.Error().Err(err).Uint64("order_id", orderID).Msg("publish order.status_changed failed")
	}
}
