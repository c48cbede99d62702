package application

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/mvoss/pizzaflow/internal/inventory"
	"github.com/mvoss/pizzaflow/internal/kitchen"
	"github.com/mvoss/pizzaflow/internal/order/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type capturePublisher struct {
	mu    sync.Mutex
	types []string
}

func (c *capturePublisher) Publish(ctx context.Context, eventType, key string, payload []byte) {
	c.mu.Lock()
	c.types = append(c.types, eventType)
	c.mu.Unlock()
}

func (c *capturePublisher) published() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.types...)
}

func newTestService(prepDelay time.Duration) (*Service, *inventory.Ledger, *kitchen.Queue, *capturePublisher) {
	log := slog.New(slog.DiscardHandler)
	ledger := inventory.NewLedger(log, domain.InitialStock())
	queue := kitchen.NewQueue(log)
	pub := &capturePublisher{}
	return NewService(log, ledger, queue, pub, prepDelay), ledger, queue, pub
}

func TestPlaceOrderSuccess(t *testing.T) {
	svc, ledger, queue, pub := newTestService(0)

	intent := domain.OrderIntent{CustomerName: "Markus", Pizza: domain.Margherita, Quantity: 1}
	result, err := svc.PlaceOrder(context.Background(), intent, "rid-1", false)
	require.NoError(t, err)

	assert.Equal(t, domain.OrderResult{
		RequestID:      "rid-1",
		Accepted:       true,
		CustomerName:   "Markus",
		Pizza:          domain.Margherita,
		Quantity:       1,
		RemainingStock: 2,
	}, result)
	assert.Equal(t, 2, ledger.Snapshot()[domain.Margherita])
	require.Len(t, queue.Snapshot(), 1)
	assert.Equal(t, "rid-1", queue.Snapshot()[0].RequestID)
	assert.Equal(t, []string{domain.EventOrderAccepted}, pub.published())
}

func TestPlaceOrderSoldOutPropagates(t *testing.T) {
	svc, ledger, queue, pub := newTestService(0)

	intent := domain.OrderIntent{CustomerName: "Markus", Pizza: domain.Funghi, Quantity: 1}
	_, err := svc.PlaceOrder(context.Background(), intent, "rid-1", false)
	require.Error(t, err)

	kind, ok := domain.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindSoldOut, kind)
	assert.Equal(t, 0, ledger.Snapshot()[domain.Funghi])
	assert.Empty(t, queue.Snapshot())
	assert.Equal(t, []string{domain.EventOrderRejected}, pub.published())
}

func TestPlaceOrderInsufficientStockPropagates(t *testing.T) {
	svc, ledger, queue, _ := newTestService(0)

	intent := domain.OrderIntent{CustomerName: "Markus", Pizza: domain.Margherita, Quantity: 5}
	_, err := svc.PlaceOrder(context.Background(), intent, "rid-1", false)
	require.Error(t, err)

	kind, _ := domain.KindOf(err)
	assert.Equal(t, domain.KindInsufficientStock, kind)
	assert.Equal(t, 3, ledger.Snapshot()[domain.Margherita])
	assert.Empty(t, queue.Snapshot())
}

func TestKitchenFailureReleasesReservation(t *testing.T) {
	svc, ledger, queue, pub := newTestService(0)

	intent := domain.OrderIntent{CustomerName: "Markus", Pizza: domain.Salami, Quantity: 1}
	_, err := svc.PlaceOrder(context.Background(), intent, "rid-1", true)
	require.Error(t, err)

	kind, _ := domain.KindOf(err)
	assert.Equal(t, domain.KindKitchenDown, kind)
	assert.Equal(t, 1, ledger.Snapshot()[domain.Salami], "reserve then release must net to zero")
	assert.Empty(t, queue.Snapshot(), "no ticket without a kept reservation")
	assert.Equal(t, []string{domain.EventReservationReleased}, pub.published())
}

func TestConcurrentOrdersNeverOversell(t *testing.T) {
	svc, ledger, queue, _ := newTestService(0)

	const attempts = 10
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			intent := domain.OrderIntent{CustomerName: "Markus", Pizza: domain.Margherita, Quantity: 1}
			if _, err := svc.PlaceOrder(context.Background(), intent, "rid", false); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, accepted)
	assert.Equal(t, 0, ledger.Snapshot()[domain.Margherita])
	assert.Len(t, queue.Snapshot(), 3)
}

func TestPrepDelayDoesNotSerializeOrders(t *testing.T) {
	const delay = 100 * time.Millisecond
	log := slog.New(slog.DiscardHandler)
	ledger := inventory.NewLedger(log, map[domain.Pizza]int{domain.Margherita: 8})
	queue := kitchen.NewQueue(log)
	svc := NewService(log, ledger, queue, &capturePublisher{}, delay)

	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			intent := domain.OrderIntent{CustomerName: "Markus", Pizza: domain.Margherita, Quantity: 1}
			_, err := svc.PlaceOrder(context.Background(), intent, "rid", false)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	elapsed := time.Since(start)
	assert.Less(t, elapsed, 8*delay/2, "prep delay must not hold the ledger or queue lock")
	assert.Len(t, queue.Snapshot(), 8)
}
