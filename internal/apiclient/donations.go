package apiclient

import (
	"context"
	"net/http"

	"github.com/frahmantamala/ngo-donations/internal/checkout"
)

type createOrderRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	PAN     string `json:"pan,omitempty"`
	Address string `json:"address,omitempty"`
	Amount  int64  `json:"amount"`
	Type    string `json:"type"`
}

// CreateOrderResponse is the create-order payload. AmountPaise is a pointer
// so that an absent field can be told apart from zero.
type CreateOrderResponse struct {
	Status        string `json:"status"`
	OrderID       string `json:"order_id"`
	DonationID    string `json:"donation_id"`
	Amount        int64  `json:"amount"`
	AmountPaise   *int64 `json:"amount_paise"`
	Currency      string `json:"currency"`
	RazorpayKeyID string `json:"razorpay_key_id"`
}

type verifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

// CreateOrder asks the backend to persist a pending donation and create its
// gateway order.
func (c *Client) CreateOrder(ctx context.Context, req checkout.OrderRequest) (*checkout.OrderResponse, error) {
	var resp CreateOrderResponse
	err := c.do(ctx, nil, http.MethodPost, "/donations/create-order", nil, createOrderRequest{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		PAN:     req.PAN,
		Address: req.Address,
		Amount:  req.Amount,
		Type:    string(req.Type),
	}, &resp)
	if err != nil {
		return nil, err
	}

	c.logger.Info("donation order created", "donation_id", resp.DonationID, "order_id", resp.OrderID)
	return &checkout.OrderResponse{
		OrderID:          resp.OrderID,
		GatewayKeyID:     resp.RazorpayKeyID,
		AmountMinorUnits: resp.AmountPaise,
		Currency:         resp.Currency,
	}, nil
}

// VerifyPayment submits the widget's success payload for signature checking.
func (c *Client) VerifyPayment(ctx context.Context, conf checkout.PaymentConfirmation) error {
	return c.do(ctx, nil, http.MethodPost, "/donations/verify-payment", nil, verifyPaymentRequest{
		OrderID:   conf.OrderID,
		PaymentID: conf.PaymentID,
		Signature: conf.Signature,
	}, nil)
}
