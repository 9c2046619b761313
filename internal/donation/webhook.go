package donation

import (
	"context"
	"time"

	errors "github.com/frahmantamala/ngo-donations/internal"
	"github.com/frahmantamala/ngo-donations/internal/core/events"
)

const (
	WebhookPaymentCaptured = "payment.captured"
	WebhookPaymentFailed   = "payment.failed"
	WebhookOrderPaid       = "order.paid"
)

// Webhook outcomes reported back to the gateway.
const (
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
	OutcomeDuplicate = "duplicate"
	OutcomeIgnored   = "ignored"
)

// WebhookEvent is the part of a Razorpay webhook delivery we act on.
type WebhookEvent struct {
	Event   string         `json:"event"`
	Payload WebhookPayload `json:"payload"`
}

type WebhookPayload struct {
	Payment struct {
		Entity WebhookPayment `json:"entity"`
	} `json:"payment"`
}

type WebhookPayment struct {
	ID               string `json:"id"`
	OrderID          string `json:"order_id"`
	Amount           int64  `json:"amount"`
	Status           string `json:"status"`
	ErrorDescription string `json:"error_description"`
}

// HandleWebhook reconciles a donation with a gateway notification. Captured
// payments complete the donation even after the scheduler abandoned it;
// failures only touch donations that are still pending.
func (s *Service) HandleWebhook(ctx context.Context, evt WebhookEvent) (string, error) {
	payment := evt.Payload.Payment.Entity
	if payment.OrderID == "" {
		s.logger.Info("webhook without order, ignoring", "event", evt.Event)
		return OutcomeIgnored, nil
	}

	row, err := s.repo.GetByOrderID(ctx, payment.OrderID)
	if err == errors.ErrOrderNotFound {
		s.logger.Warn("webhook for unknown order", "event", evt.Event, "order_id", payment.OrderID)
		return OutcomeIgnored, nil
	}
	if err != nil {
		return "", err
	}
	donation := FromDataModel(row)

	switch evt.Event {
	case WebhookPaymentCaptured, WebhookOrderPaid:
		if donation.IsCompleted() {
			return OutcomeDuplicate, nil
		}
		changed, err := s.repo.MarkCompleted(ctx, donation.ID, payment.ID, time.Now())
		if err != nil {
			return "", errors.NewInternalError("Failed to record payment", err)
		}
		if !changed {
			return OutcomeDuplicate, nil
		}
		s.logger.Info("donation completed by webhook", "donation_id", donation.ID, "order_id", payment.OrderID, "payment_id", payment.ID, "previous_status", donation.Status)
		s.publish(ctx, events.NewDonationCompletedEvent(donation.ID, payment.OrderID, payment.ID, donation.Amount, donation.Type, donation.Email))
		return OutcomeCompleted, nil

	case WebhookPaymentFailed:
		if !donation.IsPending() {
			return OutcomeIgnored, nil
		}
		reason := payment.ErrorDescription
		if reason == "" {
			reason = "payment failed"
		}
		changed, err := s.repo.MarkFailed(ctx, donation.ID, reason)
		if err != nil {
			return "", errors.NewInternalError("Failed to record payment failure", err)
		}
		if !changed {
			return OutcomeIgnored, nil
		}
		s.logger.Info("donation failed by webhook", "donation_id", donation.ID, "order_id", payment.OrderID, "reason", reason)
		s.publish(ctx, events.NewDonationFailedEvent(donation.ID, donation.Amount, donation.Type, donation.Email, reason))
		return OutcomeFailed, nil
	}

	return OutcomeIgnored, nil
}
