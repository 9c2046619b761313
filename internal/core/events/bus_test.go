package events_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/ngo-donations/internal/core/events"
)

var _ = Describe("EventBus", func() {
	var (
		bus  *events.EventBus
		mu   sync.Mutex
		seen []string
	)

	record := func(name string) events.Handler {
		return func(_ context.Context, e events.Event) error {
			mu.Lock()
			defer mu.Unlock()
			seen = append(seen, name+":"+e.EventType())
			return nil
		}
	}

	recorded := func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), seen...)
	}

	BeforeEach(func() {
		bus = events.NewEventBus(slog.New(slog.NewTextHandler(io.Discard, nil)))
		seen = nil
	})

	It("delivers to handlers of the type and to wildcard handlers", func() {
		bus.Subscribe(events.EventTypeDonationCompleted, record("typed"))
		bus.Subscribe(events.AllEvents, record("all"))
		bus.Subscribe(events.EventTypeDonationFailed, record("other"))

		evt := events.NewDonationCompletedEvent("d-1", "order_1", "pay_1", 500, "one-time", "a@example.com")
		Expect(bus.Publish(context.Background(), evt)).To(Succeed())
		bus.Wait()

		Expect(recorded()).To(ConsistOf("typed:donation.completed", "all:donation.completed"))
	})

	It("runs async handlers after the publishing context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		var handlerErr error
		bus.Subscribe(events.EventTypeDonationAbandoned, func(hctx context.Context, _ events.Event) error {
			handlerErr = hctx.Err()
			return nil
		})

		Expect(bus.Publish(ctx, events.NewDonationAbandonedEvent("d-1", "order_1", 500, "one-time", "a@example.com"))).To(Succeed())
		cancel()
		bus.Wait()

		Expect(handlerErr).NotTo(HaveOccurred())
	})

	It("stops at the first failing handler in PublishSync", func() {
		bus.Subscribe("test.event", func(context.Context, events.Event) error { return errors.New("boom") })

		err := bus.PublishSync(context.Background(), events.BaseEvent{ID: "1", Type: "test.event"})

		Expect(err).To(MatchError(ContainSubstring("boom")))
	})

	It("ignores events nobody listens to", func() {
		Expect(bus.PublishSync(context.Background(), events.BaseEvent{ID: "1", Type: "nobody"})).To(Succeed())
	})

	Describe("donation events", func() {
		It("carries the donation fields in the payload", func() {
			evt := events.NewDonationFailedEvent("d-9", 250, "monthly", "b@example.com", "card declined")

			Expect(evt.EventType()).To(Equal(events.EventTypeDonationFailed))
			Expect(evt.EventID()).NotTo(BeEmpty())
			payload, ok := evt.Payload().(map[string]interface{})
			Expect(ok).To(BeTrue())
			Expect(payload).To(HaveKeyWithValue("donation_id", "d-9"))
			Expect(payload).To(HaveKeyWithValue("reason", "card declined"))
			Expect(payload).NotTo(HaveKey("order_id"))
		})
	})
})
