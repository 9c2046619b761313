package checkout

import "context"

// OrderRequest is sent to the backend to create a gateway order.
type OrderRequest struct {
	Name    string
	Email   string
	Phone   string
	PAN     string
	Address string
	Amount  int64
	Type    DonationType
}

// OrderResponse is the backend's answer as decoded, before validation.
// AmountMinorUnits is nil when the field was absent.
type OrderResponse struct {
	OrderID          string
	GatewayKeyID     string
	AmountMinorUnits *int64
	Currency         string
}

type OrderCreator interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*OrderResponse, error)
}

// Callbacks receives the widget outcome. At most one method is called per
// opened widget; none when the donor walks away.
type Callbacks interface {
	PaymentSucceeded(PaymentConfirmation)
	PaymentFailed(GatewayFailure)
	Dismissed()
}

// PaymentCollector opens the hosted payment widget. Open must not block
// until the payment completes.
type PaymentCollector interface {
	Open(ctx context.Context, cfg WidgetConfig, cb Callbacks) error
}

// PaymentVerifier confirms a widget success payload with the backend.
type PaymentVerifier interface {
	VerifyPayment(ctx context.Context, conf PaymentConfirmation) error
}

type NotificationLevel string

const (
	NotificationSuccess NotificationLevel = "success"
	NotificationError   NotificationLevel = "error"
	NotificationInfo    NotificationLevel = "info"
)

// Notification is a user-visible notice emitted on each terminal transition.
type Notification struct {
	AttemptID string            `json:"attempt_id"`
	Level     NotificationLevel `json:"level"`
	State     State             `json:"state"`
	Kind      ErrorKind         `json:"kind,omitempty"`
	Message   string            `json:"message"`
}

type Notifier interface {
	Notify(Notification)
}
