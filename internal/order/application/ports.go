package application

import (
	"context"

	"github.com/mvoss/pizzaflow/internal/order/domain"
)

// StockLedger is the reservation side of the inventory.
type StockLedger interface {
	Reserve(ctx context.Context, pizza domain.Pizza, quantity int, requestID string) (int, error)
	Release(ctx context.Context, pizza domain.Pizza, quantity int, requestID string) int
}

// TicketQueue accepts kitchen tickets.
type TicketQueue interface {
	Submit(ctx context.Context, t domain.Ticket, requestID string, forceFail bool) error
}

// EventPublisher receives the engine's domain events. Implementations must
// not block the order path.
type EventPublisher interface {
	Publish(ctx context.Context, eventType, key string, payload []byte)
}
