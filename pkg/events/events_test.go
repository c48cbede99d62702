package events

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chanSink struct {
	ch chan Event
}

func (s *chanSink) Dispatch(ctx context.Context, e Event) error {
	s.ch <- e
	return nil
}

func TestEmitterDeliversToSink(t *testing.T) {
	sink := &chanSink{ch: make(chan Event, 1)}
	em := NewEmitter(slog.New(slog.DiscardHandler), sink, 4)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = em.Run(ctx)
		close(done)
	}()

	em.Publish(context.Background(), "OrderAccepted", "rid-1", []byte(`{}`))

	select {
	case e := <-sink.ch:
		assert.Equal(t, "OrderAccepted", e.Type)
		assert.Equal(t, "rid-1", e.Key)
		assert.NotEmpty(t, e.ID)
		assert.False(t, e.OccurredAt.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("event never reached the sink")
	}

	cancel()
	<-done
}

func TestEmitterDropsWhenBufferFull(t *testing.T) {
	// No Run loop draining, buffer of one: the second publish must drop
	// instead of blocking.
	em := NewEmitter(slog.New(slog.DiscardHandler), &chanSink{ch: make(chan Event)}, 1)

	done := make(chan struct{})
	go func() {
		em.Publish(context.Background(), "OrderAccepted", "rid-1", nil)
		em.Publish(context.Background(), "OrderAccepted", "rid-2", nil)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a full buffer")
	}
}

type captureProducer struct {
	msgs []kafka.Message
	err  error
}

func (p *captureProducer) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, msgs...)
	return nil
}

func TestDispatcherBuildsMessage(t *testing.T) {
	p := &captureProducer{}
	d := NewDispatcher(slog.New(slog.DiscardHandler), p, "pizza.orders")

	evt := Event{
		ID:          "e1",
		Type:        "OrderAccepted",
		Key:         "rid-1",
		Payload:     []byte(`{"quantity":1}`),
		Traceparent: "00-0123456789abcdef0123456789abcdef-0123456789abcdef-01",
		OccurredAt:  time.Now().UTC(),
	}
	require.NoError(t, d.Dispatch(context.Background(), evt))
	require.Len(t, p.msgs, 1)

	msg := p.msgs[0]
	assert.Equal(t, "pizza.orders", msg.Topic)
	assert.Equal(t, []byte("rid-1"), msg.Key)
	assert.Equal(t, []byte(`{"quantity":1}`), msg.Value)

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "e1", headers["event_id"])
	assert.Equal(t, "OrderAccepted", headers["event_type"])
	assert.Equal(t, evt.Traceparent, headers["traceparent"])
}

func TestDispatcherPropagatesProducerError(t *testing.T) {
	p := &captureProducer{err: errors.New("broker down")}
	d := NewDispatcher(slog.New(slog.DiscardHandler), p, "pizza.orders")

	err := d.Dispatch(context.Background(), Event{ID: "e1", Type: "OrderAccepted"})
	require.Error(t, err)
}
