package services

import (
	"context"
	"time"

	"orderflow/internal/domain"
	rabbit "orderflow/internal/infra/rabbitmq"
	"orderflow/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ReconcileService applies externally-sourced payment truth to order state.
// Idempotency is precondition-based: an event only takes effect while the
// order's payment status still matches what the event expects, so at-least-
// once delivery and reordering by the processor are harmless.
type ReconcileService struct {
	repo      repository.OrderRepository
	publisher rabbit.PublisherInterface
}

func NewReconcileService(r repository.OrderRepository, pub rabbit.PublisherInterface) *ReconcileService {
	return &ReconcileService{repo: r, publisher: pub}
}

// ApplyPaymentEvent consumes one verified webhook event. Every outcome
// except a store failure is a successful acknowledgement: duplicates,
// unmatched references and unknown kinds are logged no-ops.
func (s *ReconcileService) ApplyPaymentEvent(ctx context.Context, evt domain.PaymentEvent) error {
	o, err := s.repo.FindByPaymentRef(evt.PaymentRef)
	if err != nil {
		return err
	}
	if o == nil {
		// Processor events may reference charges we never tracked.
		log.Info().
			Str("event_id", evt.EventID).
			Str("kind", evt.Kind).
			Str("payment_ref", evt.PaymentRef).
			Msg("payment event matches no order, acknowledging")
		return nil
	}

	switch evt.Kind {
	case domain.EventCompleted:
		if o.PaymentStatus != domain.PaymentPending {
			s.logNoop(evt, o, "payment no longer pending")
			return nil
		}
		if o.Status == domain.StatusCancelled {
			// A cancelled order stays cancelled; a late confirmation must
			// not pull it back onto the board.
			s.logNoop(evt, o, "order already cancelled")
			return nil
		}
		if evt.Amount != 0 && evt.Amount != o.TotalPrice {
			// The processor is the payment authority; the discrepancy is
			// flagged for audit, not rejected.
			log.Warn().
				Str("event_id", evt.EventID).
				Uint64("order_id", o.ID).
				Int64("event_amount", evt.Amount).
				Int64("order_total", o.TotalPrice).
				Msg("payment amount differs from order total")
		}
		affected, err := s.repo.UpdatePaymentGuard(o.ID, domain.PaymentPending, map[string]any{
			"payment_status":             domain.PaymentPaid,
			"status":                     domain.StatusPending,
			"external_payment_reference": evt.SessionID,
		})
		if err != nil {
			return err
		}
		if affected == 0 {
			s.logNoop(evt, o, "lost race to concurrent event")
			return nil
		}
		go s.publishReconciled(context.Background(), o.ID, evt.EventID, domain.PaymentPaid)

	case domain.EventExpired:
		if o.PaymentStatus != domain.PaymentPending {
			s.logNoop(evt, o, "payment no longer pending")
			return nil
		}
		updates := map[string]any{"payment_status": domain.PaymentFailed}
		if o.Status != domain.StatusDelivered {
			updates["status"] = domain.StatusCancelled
			// keep an earlier staff-set timestamp if cancellation raced
			updates["cancelled_at"] = gorm.Expr("COALESCE(cancelled_at, ?)", time.Now())
		} else {
			// DELIVERED has no outgoing edges; record the failed payment
			// but leave the order where it ended up.
			log.Info().
				Str("event_id", evt.EventID).
				Uint64("order_id", o.ID).
				Msg("expiry for a delivered order, recording failed payment only")
		}
		affected, err := s.repo.UpdatePaymentGuard(o.ID, domain.PaymentPending, updates)
		if err != nil {
			return err
		}
		if affected == 0 {
			s.logNoop(evt, o, "lost race to concurrent event")
			return nil
		}
		go s.publishReconciled(context.Background(), o.ID, evt.EventID, domain.PaymentFailed)

	case domain.EventRefunded:
		if o.PaymentStatus != domain.PaymentPaid {
			s.logNoop(evt, o, "payment not in PAID")
			return nil
		}
		affected, err := s.repo.UpdatePaymentGuard(o.ID, domain.PaymentPaid, map[string]any{
			"payment_status": domain.PaymentRefunded,
		})
		if err != nil {
			return err
		}
		if affected == 0 {
			s.logNoop(evt, o, "lost race to concurrent event")
			return nil
		}
		go s.publishReconciled(context.Background(), o.ID, evt.EventID, domain.PaymentRefunded)

	default:
		// Forward compatibility: the processor's taxonomy may grow.
		log.Info().
			Str("event_id", evt.EventID).
			Str("kind", evt.Kind).
			Uint64("order_id", o.ID).
			Msg("unrecognized payment event kind, acknowledging")
	}

	return nil
}

func (s *ReconcileService) logNoop(evt domain.PaymentEvent, o *domain.Order, reason string) {
	log.Info().
		Str("event_id", evt.EventID).
		Str("kind", evt.Kind).
		Uint64("order_id", o.ID).
		Str("payment_status", string(o.PaymentStatus)).
		Str("reason", reason).
		Msg("payment event applied as no-op")
}

func (s *ReconcileService) publishReconciled(ctx context.Context, orderID uint64, eventID string, ps domain.PaymentStatus) {
	evt := domain.PaymentReconciledEvent{OrderID: orderID, EventID: eventID, PaymentStatus: ps}
	if err := s.publisher.Publish(ctx, "payment.reconciled", evt); err != nil {
		log.Error().Err(err).Uint64("order_id", orderID).Msg("publish payment.reconciled failed")
	}
}
