package relay

import (
	"context"
	"time"

	"github.com/frahmantamala/ngo-donations/internal/core/events"
)

const DefaultExchange = "donation_events"

// Message is the envelope written to the broker.
type Message struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// Relay forwards bus events to RabbitMQ, routed by event type.
type Relay struct {
	publisher Publisher
	exchange  string
}

func New(publisher Publisher, exchange string) *Relay {
	if exchange == "" {
		exchange = DefaultExchange
	}
	return &Relay{publisher: publisher, exchange: exchange}
}

func (r *Relay) Attach(bus *events.EventBus) {
	bus.Subscribe(events.AllEvents, r.Handle)
}

func (r *Relay) Handle(ctx context.Context, event events.Event) error {
	return r.publisher.Publish(ctx, r.exchange, event.EventType(), Message{
		ID:        event.EventID(),
		Type:      event.EventType(),
		Timestamp: event.OccurredAt(),
		Data:      event.Payload(),
	})
}
