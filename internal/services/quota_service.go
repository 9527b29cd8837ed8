package services

import (
	"context"
	"fmt"
	"sync"

	"orderflow/internal/domain"
	"orderflow/internal/repository"
)

// QuotaService enforces subscription-tier resource limits. Count and create
// run under one per-(restaurant, kind) lock so two concurrent creations can
// never both squeeze under the limit.
type QuotaService struct {
	subs      repository.SubscriptionRepository
	resources repository.ResourceRepository

	// locks holds one mutex per (restaurant, kind); entries are never
	// removed, so the map is bounded by restaurants seen, not requests.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewQuotaService(subs repository.SubscriptionRepository, resources repository.ResourceRepository) *QuotaService {
	return &QuotaService{
		subs:      subs,
		resources: resources,
		locks:     make(map[string]*sync.Mutex),
	}
}

// CheckAndReserve resolves the authoritative plan limit, counts existing
// active resources and, while still holding the serializing lock, runs the
// create callback. A create failure leaves nothing reserved; the lock
// release frees the slot for the next caller. Pass a nil create for a pure
// decision check.
func (s *QuotaService) CheckAndReserve(ctx context.Context, restaurantID uint64, kind domain.ResourceKind, create func() error) error {
	l := s.lockFor(restaurantID, kind)
	l.Lock()
	defer l.Unlock()

	plan, err := s.activePlan(restaurantID)
	if err != nil {
		return err
	}
	limit := plan.Limit(kind)

	count, err := s.resources.CountActive(restaurantID, kind)
	if err != nil {
		return err
	}
	if count >= int64(limit) {
		return fmt.Errorf("%w: plan %q allows %d %s resources", ErrQuotaExceeded, plan.Name, limit, kind)
	}

	if create == nil {
		return nil
	}
	return create()
}

func (s *QuotaService) lockFor(restaurantID uint64, kind domain.ResourceKind) *sync.Mutex {
	key := fmt.Sprintf("%d/%s", restaurantID, kind)
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

// activePlan picks the most recent active subscription's plan; without one
// the hard-coded minimum plan applies. No subscription is not an error.
func (s *QuotaService) activePlan(restaurantID uint64) (domain.SubscriptionPlan, error) {
	sub, err := s.subs.FindActiveByRestaurant(restaurantID)
	if err != nil {
		return domain.SubscriptionPlan{}, err
	}
	if sub == nil || !sub.Plan.IsActive {
		return domain.DefaultPlan(), nil
	}
	return sub.Plan, nil
}
