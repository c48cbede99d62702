package application

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/mvoss/pizzaflow/internal/order/domain"
)

// Service coordinates the stock ledger and the kitchen queue into the order
// placement saga: reserve, submit, release the reservation when the submit
// fails. The two stores keep separate locks, so the pairing is held together
// by the explicit compensation step, not by a transaction. Service owns no
// mutable state and is safe for concurrent use.
type Service struct {
	log       *slog.Logger
	ledger    StockLedger
	kitchen   TicketQueue
	events    EventPublisher
	prepDelay time.Duration
	tracer    trace.Tracer
}

func NewService(log *slog.Logger, ledger StockLedger, kitchen TicketQueue, events EventPublisher, prepDelay time.Duration) *Service {
	return &Service{
		log:       log,
		ledger:    ledger,
		kitchen:   kitchen,
		events:    events,
		prepDelay: prepDelay,
		tracer:    otel.Tracer("order-engine"),
	}
}

// PlaceOrder runs the saga for one validated intent. Domain errors from the
// ledger and the kitchen are returned to the caller unchanged, whatever
// boundary sits on top. A kitchen failure after a successful reservation
// releases that reservation before the error surfaces, so stock is never
// left decremented without a corresponding ticket.
func (s *Service) PlaceOrder(ctx context.Context, order domain.OrderIntent, requestID string, forceKitchenFail bool) (domain.OrderResult, error) {
	ctx, span := s.tracer.Start(ctx, "PlaceOrder")
	defer span.End()

	s.log.Info("place order start",
		"rid", requestID, "customer", order.CustomerName, "pizza", order.Pizza, "qty", order.Quantity)

	remaining, err := s.ledger.Reserve(ctx, order.Pizza, order.Quantity, requestID)
	if err != nil {
		s.publishRejected(ctx, requestID, err)
		return domain.OrderResult{}, err
	}

	ticket := domain.Ticket{
		RequestID:    requestID,
		CustomerName: order.CustomerName,
		Pizza:        order.Pizza,
		Quantity:     order.Quantity,
	}

	if err := s.kitchen.Submit(ctx, ticket, requestID, forceKitchenFail); err != nil {
		s.ledger.Release(ctx, order.Pizza, order.Quantity, requestID)
		s.publishReleased(ctx, requestID, order)
		return domain.OrderResult{}, err
	}

	// Kitchen prep latency. Runs outside both locks so a slow order never
	// serializes unrelated ones.
	if s.prepDelay > 0 {
		select {
		case <-time.After(s.prepDelay):
		case <-ctx.Done():
		}
	}

	result := domain.OrderResult{
		RequestID:      requestID,
		Accepted:       true,
		CustomerName:   order.CustomerName,
		Pizza:          order.Pizza,
		Quantity:       order.Quantity,
		RemainingStock: remaining,
	}
	s.publishAccepted(ctx, result)

	s.log.Info("place order ok",
		"rid", requestID, "customer", order.CustomerName, "pizza", order.Pizza, "qty", order.Quantity, "remaining", remaining)
	return result, nil
}

func (s *Service) publishAccepted(ctx context.Context, r domain.OrderResult) {
	payload, err := json.Marshal(domain.OrderAccepted{
		RequestID:      r.RequestID,
		CustomerName:   r.CustomerName,
		Pizza:          r.Pizza,
		Quantity:       r.Quantity,
		RemainingStock: r.RemainingStock,
	})
	if err != nil {
		s.log.Error("marshal OrderAccepted", "rid", r.RequestID, "err", err)
		return
	}
	s.events.Publish(ctx, domain.EventOrderAccepted, r.RequestID, payload)
}

func (s *Service) publishRejected(ctx context.Context, requestID string, cause error) {
	kind, _ := domain.KindOf(cause)
	payload, err := json.Marshal(domain.OrderRejected{
		RequestID: requestID,
		Kind:      kind,
		Message:   cause.Error(),
	})
	if err != nil {
		s.log.Error("marshal OrderRejected", "rid", requestID, "err", err)
		return
	}
	s.events.Publish(ctx, domain.EventOrderRejected, requestID, payload)
}

func (s *Service) publishReleased(ctx context.Context, requestID string, order domain.OrderIntent) {
	payload, err := json.Marshal(domain.ReservationReleased{
		RequestID: requestID,
		Pizza:     order.Pizza,
		Quantity:  order.Quantity,
	})
	if err != nil {
		s.log.Error("marshal ReservationReleased", "rid", requestID, "err", err)
		return
	}
	s.events.Publish(ctx, domain.EventReservationReleased, requestID, payload)
}
