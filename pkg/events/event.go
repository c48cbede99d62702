package events

import "time"

// Event is one domain occurrence bound for the broker.
type Event struct {
	ID          string
	Type        string
	Key         string
	Payload     []byte
	Traceparent string
	OccurredAt  time.Time
}
