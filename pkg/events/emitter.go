package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mvoss/pizzaflow/pkg/tracing"
)

// Sink receives drained events.
type Sink interface {
	Dispatch(ctx context.Context, e Event) error
}

// Emitter decouples the order path from the broker: Publish enqueues onto a
// buffered channel and never blocks, Run drains the channel into the sink.
type Emitter struct {
	log  *slog.Logger
	sink Sink
	ch   chan Event
}

func NewEmitter(log *slog.Logger, sink Sink, buffer int) *Emitter {
	if buffer <= 0 {
		buffer = 256
	}
	return &Emitter{log: log, sink: sink, ch: make(chan Event, buffer)}
}

// Publish implements the engine's publisher port. The traceparent is
// captured here, while the caller's span is still current. When the buffer
// is full the event is dropped with a warning instead of stalling an order.
func (e *Emitter) Publish(ctx context.Context, eventType, key string, payload []byte) {
	evt := Event{
		ID:          uuid.NewString(),
		Type:        eventType,
		Key:         key,
		Payload:     payload,
		Traceparent: tracing.Traceparent(ctx),
		OccurredAt:  time.Now().UTC(),
	}
	select {
	case e.ch <- evt:
	default:
		e.log.Warn("event buffer full, dropping", "type", eventType, "key", key)
	}
}

// Run drains events until ctx is canceled.
func (e *Emitter) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			e.log.Info("emitter stopping")
			return nil
		case evt := <-e.ch:
			_ = e.sink.Dispatch(ctx, evt)
		}
	}
}

// Discard satisfies the engine's publisher port when no broker is configured.
type Discard struct{}

func (Discard) Publish(ctx context.Context, eventType, key string, payload []byte) {}
