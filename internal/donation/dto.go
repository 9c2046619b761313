package donation

import (
	"strings"

	errors "github.com/frahmantamala/ngo-donations/internal"
	"github.com/frahmantamala/ngo-donations/internal/core/common/validation"
)

type CreateOrderDTO struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone"`
	PAN     *string `json:"pan,omitempty"`
	Address *string `json:"address,omitempty"`
	Amount  int64   `json:"amount"`
	Type    string  `json:"type"`
}

func (dto *CreateOrderDTO) Normalize() {
	dto.Name = strings.TrimSpace(dto.Name)
	dto.Email = strings.ToLower(strings.TrimSpace(dto.Email))
	dto.Phone = strings.TrimSpace(dto.Phone)
	dto.PAN = trimOptional(dto.PAN, true)
	dto.Address = trimOptional(dto.Address, false)
	if dto.Type == "" {
		dto.Type = TypeOneTime
	}
}

func trimOptional(s *string, upper bool) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	if upper {
		v = strings.ToUpper(v)
	}
	return &v
}

// Validate checks the donor fields and the amount against minAmount.
func (dto CreateOrderDTO) Validate(minAmount int64) *errors.AppError {
	validator := validation.NewValidator()
	validator.Field("name", dto.Name).Required().MaxLength(200)
	validator.Field("email", dto.Email).Required().Email()
	validator.Field("phone", dto.Phone).Required().MaxLength(20)
	validator.Field("amount", dto.Amount).
		MinInt(1, errors.ErrCodeInvalidAmount).
		MinInt(minAmount, errors.ErrCodeAmountTooLow)
	validator.Field("type", dto.Type).OneOf(Types, errors.ErrCodeInvalidDonationType)
	if dto.PAN != nil {
		validator.Field("pan", *dto.PAN).MaxLength(10)
	}
	return validator.Validate()
}

type DonorInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type CreateOrderResponse struct {
	Status        string    `json:"status"`
	OrderID       string    `json:"order_id"`
	DonationID    string    `json:"donation_id"`
	Amount        int64     `json:"amount"`
	AmountPaise   int64     `json:"amount_paise"`
	Currency      string    `json:"currency"`
	RazorpayKeyID string    `json:"razorpay_key_id"`
	Donor         DonorInfo `json:"donor"`
}

type VerifyPaymentDTO struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

func (dto VerifyPaymentDTO) Validate() *errors.AppError {
	validator := validation.NewValidator()
	validator.Field("razorpay_order_id", dto.OrderID).Required()
	validator.Field("razorpay_payment_id", dto.PaymentID).Required()
	validator.Field("razorpay_signature", dto.Signature).Required()
	return validator.Validate()
}

type VerifyPaymentResponse struct {
	Status     string `json:"status"`
	DonationID string `json:"donation_id"`
	PaymentID  string `json:"payment_id"`
}

type UpdateStatusDTO struct {
	Status string `json:"status"`
}

func (dto UpdateStatusDTO) Validate() *errors.AppError {
	validator := validation.NewValidator()
	validator.Field("status", dto.Status).Required().OneOf(Statuses, errors.ErrCodeInvalidStatus)
	return validator.Validate()
}

type ListFilter struct {
	Status string
	Type   string
	Limit  int
}
