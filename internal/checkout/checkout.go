// Package checkout drives a donor's form submission through order creation
// and the hosted payment widget to a confirmed (or failed) payment.
package checkout

import (
	"strings"
	"time"
)

type DonationType string

const (
	DonationOneTime DonationType = "one-time"
	DonationMonthly DonationType = "monthly"
)

const (
	// DefaultAmount is the preselected amount of a fresh donor form.
	DefaultAmount int64 = 1000
	// MinorUnitsPerMajor converts rupees to paise.
	MinorUnitsPerMajor int64 = 100
)

// DonationRequest is the donor form as submitted. Amount is in major units.
type DonationRequest struct {
	DonorName    string       `json:"name"`
	DonorEmail   string       `json:"email"`
	DonorPhone   string       `json:"phone"`
	PanNumber    string       `json:"pan,omitempty"`
	Address      string       `json:"address,omitempty"`
	Amount       int64        `json:"amount"`
	DonationType DonationType `json:"type"`
}

// DefaultForm is the state the donor form returns to after a successful payment.
func DefaultForm() DonationRequest {
	return DonationRequest{
		Amount:       DefaultAmount,
		DonationType: DonationOneTime,
	}
}

func (r DonationRequest) normalized() DonationRequest {
	r.DonorName = strings.TrimSpace(r.DonorName)
	r.DonorEmail = strings.TrimSpace(r.DonorEmail)
	r.DonorPhone = strings.TrimSpace(r.DonorPhone)
	r.PanNumber = strings.ToUpper(strings.TrimSpace(r.PanNumber))
	r.Address = strings.TrimSpace(r.Address)
	if r.DonationType == "" {
		r.DonationType = DonationOneTime
	}
	return r
}

// MinorUnits is the amount the gateway must charge for this request.
func (r DonationRequest) MinorUnits() int64 {
	return r.Amount * MinorUnitsPerMajor
}

// PaymentOrder is the client's read-only copy of a backend-created gateway order.
type PaymentOrder struct {
	OrderID          string `json:"order_id"`
	GatewayKeyID     string `json:"gateway_key_id"`
	AmountMinorUnits int64  `json:"amount_minor_units"`
	Currency         string `json:"currency"`
}

type State string

const (
	StateIdle            State = "idle"
	StateSubmitting      State = "submitting"
	StateAwaitingPayment State = "awaiting_payment"
	StateSucceeded       State = "succeeded"
	StateFailed          State = "failed"
	StateCancelled       State = "cancelled"
)

// InFlight reports whether a new submission must be rejected.
func (s State) InFlight() bool {
	return s == StateSubmitting || s == StateAwaitingPayment
}

func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed || s == StateCancelled
}

// Attempt is a snapshot of one form submission.
type Attempt struct {
	ID           string               `json:"id,omitempty"`
	State        State                `json:"state"`
	Request      DonationRequest      `json:"request"`
	Order        *PaymentOrder        `json:"order,omitempty"`
	Err          *FlowError           `json:"error,omitempty"`
	Confirmation *PaymentConfirmation `json:"confirmation,omitempty"`
	StartedAt    time.Time            `json:"started_at,omitempty"`
	FinishedAt   *time.Time           `json:"finished_at,omitempty"`
}

// PaymentConfirmation is the widget's success payload.
type PaymentConfirmation struct {
	PaymentID string `json:"razorpay_payment_id"`
	OrderID   string `json:"razorpay_order_id"`
	Signature string `json:"razorpay_signature"`
}

// GatewayFailure is the widget's failure payload.
type GatewayFailure struct {
	Code        string `json:"code,omitempty"`
	Description string `json:"description"`
	Reason      string `json:"reason,omitempty"`
	Step        string `json:"step,omitempty"`
}

type Prefill struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
}

type Theme struct {
	Color string `json:"color,omitempty"`
}

// WidgetConfig is what the hosted payment widget is opened with.
type WidgetConfig struct {
	Key         string  `json:"key"`
	Amount      int64   `json:"amount"`
	Currency    string  `json:"currency"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	OrderID     string  `json:"order_id"`
	Prefill     Prefill `json:"prefill"`
	Theme       Theme   `json:"theme"`
}
