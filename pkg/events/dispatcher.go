package events

import (
	"context"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/mvoss/pizzaflow/pkg/tracing"
)

// Producer is the slice of kafka.Writer the dispatcher needs.
type Producer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Dispatcher writes events to one topic, carrying the event metadata and the
// originating trace context as message headers.
type Dispatcher struct {
	log      *slog.Logger
	producer Producer
	topic    string
}

func NewDispatcher(log *slog.Logger, producer Producer, topic string) *Dispatcher {
	return &Dispatcher{log: log, producer: producer, topic: topic}
}

func (d *Dispatcher) Dispatch(ctx context.Context, e Event) error {
	headers := []kafka.Header{
		{Key: "event_id", Value: []byte(e.ID)},
		{Key: "event_type", Value: []byte(e.Type)},
	}
	if e.Traceparent != "" {
		headers = append(headers, kafka.Header{Key: tracing.TraceparentHeader, Value: []byte(e.Traceparent)})
	}

	msg := kafka.Message{
		Topic:   d.topic,
		Key:     []byte(e.Key),
		Value:   e.Payload,
		Headers: headers,
		Time:    e.OccurredAt,
	}
	if err := d.producer.WriteMessages(ctx, msg); err != nil {
		d.log.Error("event dispatch failed", "event_id", e.ID, "type", e.Type, "err", err)
		return err
	}
	d.log.Info("event dispatched", "event_id", e.ID, "type", e.Type)
	return nil
}
