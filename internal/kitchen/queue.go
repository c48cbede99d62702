package kitchen

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/mvoss/pizzaflow/internal/order/domain"
)

// Queue is the append-only list of tickets accepted by the kitchen. Tickets
// appear in the order their Submit entered the critical section.
type Queue struct {
	log *slog.Logger

	mu      sync.Mutex
	tickets []domain.Ticket
}

func NewQueue(log *slog.Logger) *Queue {
	return &Queue{log: log}
}

// Submit appends the ticket. When forceFail is set the kitchen reports
// itself down and the ticket is not appended; there is no partial effect.
func (q *Queue) Submit(ctx context.Context, t domain.Ticket, requestID string, forceFail bool) error {
	q.log.Debug("kitchen submit attempt", "rid", requestID, "force_fail", forceFail)
	if forceFail {
		return domain.ErrKitchenDown()
	}

	q.mu.Lock()
	q.tickets = append(q.tickets, t)
	q.mu.Unlock()

	q.log.Info("kitchen submit ok",
		"rid", requestID, "customer", t.CustomerName, "pizza", t.Pizza, "qty", t.Quantity)
	return nil
}

// Snapshot returns the tickets in submission order.
func (q *Queue) Snapshot() []domain.Ticket {
	q.mu.Lock()
	defer q.mu.Unlock()
	return slices.Clone(q.tickets)
}

// Reset empties the queue.
func (q *Queue) Reset() {
	q.mu.Lock()
	q.tickets = nil
	q.mu.Unlock()
}
