package inventory

import (
	"context"
	"log/slog"
	"maps"
	"sync"

	"github.com/mvoss/pizzaflow/internal/order/domain"
)

// Ledger owns the per-pizza available counts. One mutex guards the whole
// map: reserve, release, snapshot and reset are each a single critical
// section, so concurrent reservations against the same pizza serialize and
// can never jointly oversell.
type Ledger struct {
	log *slog.Logger

	mu      sync.Mutex
	initial map[domain.Pizza]int
	stock   map[domain.Pizza]int
}

// NewLedger starts the ledger at initial, which is also the snapshot Reset
// restores.
func NewLedger(log *slog.Logger, initial map[domain.Pizza]int) *Ledger {
	return &Ledger{
		log:     log,
		initial: maps.Clone(initial),
		stock:   maps.Clone(initial),
	}
}

// Reserve decrements the available count for pizza by quantity and returns
// the post-decrement value. Zero stock fails with sold_out, positive but
// short stock with insufficient_inventory; a failed reserve leaves the count
// untouched.
func (l *Ledger) Reserve(ctx context.Context, pizza domain.Pizza, quantity int, requestID string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	available := l.stock[pizza]
	l.log.Debug("inventory check",
		"rid", requestID, "pizza", pizza, "available", available, "requested", quantity)

	if available <= 0 {
		return 0, domain.ErrSoldOut(pizza)
	}
	if quantity > available {
		return 0, domain.ErrInsufficientStock(pizza, quantity, available)
	}

	l.stock[pizza] = available - quantity
	l.log.Info("inventory reserved",
		"rid", requestID, "pizza", pizza, "qty", quantity, "before", available, "after", l.stock[pizza])
	return l.stock[pizza], nil
}

// Release increments the available count back by quantity and returns the
// new value. It is the compensating half of a reservation whose downstream
// step failed and always succeeds.
func (l *Ledger) Release(ctx context.Context, pizza domain.Pizza, quantity int, requestID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	before := l.stock[pizza]
	l.stock[pizza] = before + quantity
	l.log.Warn("inventory rollback",
		"rid", requestID, "pizza", pizza, "qty", quantity, "before", before, "after", l.stock[pizza])
	return l.stock[pizza]
}

// Snapshot returns a copy of the current counts.
func (l *Ledger) Snapshot() map[domain.Pizza]int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return maps.Clone(l.stock)
}

// Reset overwrites the counts with the initial snapshot and returns a copy.
func (l *Ledger) Reset() map[domain.Pizza]int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stock = maps.Clone(l.initial)
	return maps.Clone(l.stock)
}
