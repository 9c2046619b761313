package donation

import (
	"time"

	donationDatamodel "github.com/frahmantamala/ngo-donations/internal/core/datamodel/donation"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusAbandoned = "abandoned"

	TypeOneTime = "one-time"
	TypeMonthly = "monthly"
)

var (
	Statuses = []string{StatusPending, StatusCompleted, StatusFailed, StatusAbandoned}
	Types    = []string{TypeOneTime, TypeMonthly}
)

type Donation struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	Phone             string     `json:"phone"`
	PAN               *string    `json:"pan,omitempty"`
	Address           *string    `json:"address,omitempty"`
	Amount            int64      `json:"amount"`
	Type              string     `json:"type"`
	Status            string     `json:"status"`
	RazorpayOrderID   *string    `json:"razorpay_order_id,omitempty"`
	RazorpayPaymentID *string    `json:"razorpay_payment_id,omitempty"`
	Error             *string    `json:"error,omitempty"`
	PaidAt            *time.Time `json:"paid_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (d *Donation) IsPending() bool {
	return d.Status == StatusPending
}

func (d *Donation) IsCompleted() bool {
	return d.Status == StatusCompleted
}

// AmountPaise is the gateway amount in the minor currency unit.
func (d *Donation) AmountPaise() int64 {
	return d.Amount * 100
}

func (d *Donation) OrderID() string {
	if d.RazorpayOrderID == nil {
		return ""
	}
	return *d.RazorpayOrderID
}

func NewDonation(id string, dto CreateOrderDTO) *Donation {
	now := time.Now()
	return &Donation{
		ID:        id,
		Name:      dto.Name,
		Email:     dto.Email,
		Phone:     dto.Phone,
		PAN:       dto.PAN,
		Address:   dto.Address,
		Amount:    dto.Amount,
		Type:      dto.Type,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func ToDataModel(d *Donation) *donationDatamodel.Donation {
	return &donationDatamodel.Donation{
		ID:                d.ID,
		Name:              d.Name,
		Email:             d.Email,
		Phone:             d.Phone,
		PAN:               d.PAN,
		Address:           d.Address,
		Amount:            d.Amount,
		Type:              d.Type,
		Status:            d.Status,
		RazorpayOrderID:   d.RazorpayOrderID,
		RazorpayPaymentID: d.RazorpayPaymentID,
		Error:             d.Error,
		PaidAt:            d.PaidAt,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

func FromDataModel(d *donationDatamodel.Donation) *Donation {
	return &Donation{
		ID:                d.ID,
		Name:              d.Name,
		Email:             d.Email,
		Phone:             d.Phone,
		PAN:               d.PAN,
		Address:           d.Address,
		Amount:            d.Amount,
		Type:              d.Type,
		Status:            d.Status,
		RazorpayOrderID:   d.RazorpayOrderID,
		RazorpayPaymentID: d.RazorpayPaymentID,
		Error:             d.Error,
		PaidAt:            d.PaidAt,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}
