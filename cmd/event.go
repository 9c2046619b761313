package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/frahmantamala/ngo-donations/internal/core/events"
	"github.com/frahmantamala/ngo-donations/pkg/logger"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Publish test donation events through the event bus and the broker relay`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a test event",
	Long:  `Publish a test event to the event bus; it is relayed to RabbitMQ when rabbitmq.url is set`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		publishTestEvent(args[0])
	},
}

var (
	eventData   string
	eventAmount int64
	eventEmail  string
)

func publishTestEvent(eventType string) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	lg := logger.LoggerWrapper()

	bus, publisher := initEvents(cfg.RabbitMQ, lg)
	defer publisher.Close()

	bus.Subscribe(eventType, func(ctx context.Context, event events.Event) error {
		lg.Info("test handler received event",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"payload", event.Payload())
		return nil
	})

	donationID := uuid.NewString()
	var testEvent events.Event
	switch eventType {
	case events.EventTypeDonationOrderCreated:
		testEvent = events.NewDonationOrderCreatedEvent(donationID, "order_test", eventAmount, "one-time", eventEmail)
	case events.EventTypeDonationCompleted:
		testEvent = events.NewDonationCompletedEvent(donationID, "order_test", "pay_test", eventAmount, "one-time", eventEmail)
	case events.EventTypeDonationFailed:
		testEvent = events.NewDonationFailedEvent(donationID, eventAmount, "one-time", eventEmail, eventData)
	case events.EventTypeDonationAbandoned:
		testEvent = events.NewDonationAbandonedEvent(donationID, "order_test", eventAmount, "one-time", eventEmail)
	default:
		testEvent = events.BaseEvent{
			ID:        fmt.Sprintf("test-%d", time.Now().Unix()),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"message": eventData,
				"source":  "cli-command",
			},
		}
	}

	lg.Info("publishing test event", "event_type", eventType, "event_id", testEvent.EventID())

	if err := bus.PublishSync(context.Background(), testEvent); err != nil {
		lg.Error("failed to publish event", "error", err)
		return
	}
	lg.Info("test event published successfully")
}

func init() {
	publishEventCmd.Flags().StringVar(&eventData, "data", "test message", "Event data message, or the failure reason for donation.failed")
	publishEventCmd.Flags().Int64Var(&eventAmount, "amount", 500, "Donation amount in rupees for donation events")
	publishEventCmd.Flags().StringVar(&eventEmail, "email", "donor@example.com", "Donor email for donation events")

	eventCmd.AddCommand(publishEventCmd)
}
