package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeDonationOrderCreated = "donation.order_created"
	EventTypeDonationCompleted    = "donation.completed"
	EventTypeDonationFailed       = "donation.failed"
	EventTypeDonationAbandoned    = "donation.abandoned"
)

type DonationEvent struct {
	BaseEvent
	DonationID   string `json:"donation_id"`
	OrderID      string `json:"order_id,omitempty"`
	PaymentID    string `json:"payment_id,omitempty"`
	Amount       int64  `json:"amount"`
	DonationType string `json:"donation_type"`
	DonorEmail   string `json:"donor_email"`
	Reason       string `json:"reason,omitempty"`
}

func newDonationEvent(eventType, donationID, orderID, paymentID string, amount int64, donationType, donorEmail, reason string) *DonationEvent {
	data := map[string]interface{}{
		"donation_id":   donationID,
		"amount":        amount,
		"donation_type": donationType,
		"donor_email":   donorEmail,
	}
	if orderID != "" {
		data["order_id"] = orderID
	}
	if paymentID != "" {
		data["payment_id"] = paymentID
	}
	if reason != "" {
		data["reason"] = reason
	}

	return &DonationEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data:      data,
		},
		DonationID:   donationID,
		OrderID:      orderID,
		PaymentID:    paymentID,
		Amount:       amount,
		DonationType: donationType,
		DonorEmail:   donorEmail,
		Reason:       reason,
	}
}

func NewDonationOrderCreatedEvent(donationID, orderID string, amount int64, donationType, donorEmail string) *DonationEvent {
	return newDonationEvent(EventTypeDonationOrderCreated, donationID, orderID, "", amount, donationType, donorEmail, "")
}

func NewDonationCompletedEvent(donationID, orderID, paymentID string, amount int64, donationType, donorEmail string) *DonationEvent {
	return newDonationEvent(EventTypeDonationCompleted, donationID, orderID, paymentID, amount, donationType, donorEmail, "")
}

func NewDonationFailedEvent(donationID string, amount int64, donationType, donorEmail, reason string) *DonationEvent {
	return newDonationEvent(EventTypeDonationFailed, donationID, "", "", amount, donationType, donorEmail, reason)
}

func NewDonationAbandonedEvent(donationID, orderID string, amount int64, donationType, donorEmail string) *DonationEvent {
	return newDonationEvent(EventTypeDonationAbandoned, donationID, orderID, "", amount, donationType, donorEmail, "pending payment expired")
}
