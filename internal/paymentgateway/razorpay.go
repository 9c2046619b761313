// Package paymentgateway integrates the Razorpay order API on the server and
// the hosted checkout widget on the donor side.
package paymentgateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"
)

var ErrNotConfigured = errors.New("paymentgateway: razorpay credentials not configured")

// OrderAPI is the subset of the razorpay-go order resource in use.
type OrderAPI interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

type OrderRequest struct {
	// AmountPaise is the amount in the currency's minor unit.
	AmountPaise int64
	Currency    string
	Receipt     string
	Notes       map[string]string
}

type Order struct {
	ID       string
	Amount   int64
	Currency string
	Receipt  string
	Status   string
}

type Razorpay struct {
	keyID     string
	keySecret string
	orders    OrderAPI
	logger    *slog.Logger
}

// NewRazorpay returns a gateway backed by the Razorpay API. It returns
// ErrNotConfigured when either credential is empty.
func NewRazorpay(keyID, keySecret string, logger *slog.Logger) (*Razorpay, error) {
	if keyID == "" || keySecret == "" {
		return nil, ErrNotConfigured
	}
	client := razorpay.NewClient(keyID, keySecret)
	return NewRazorpayWithOrders(keyID, keySecret, client.Order, logger), nil
}

func NewRazorpayWithOrders(keyID, keySecret string, orders OrderAPI, logger *slog.Logger) *Razorpay {
	return &Razorpay{
		keyID:     keyID,
		keySecret: keySecret,
		orders:    orders,
		logger:    logger,
	}
}

// KeyID is the public key the widget is opened with.
func (r *Razorpay) KeyID() string {
	return r.keyID
}

// CreateOrder creates an auto-captured order. The SDK call is not
// context-aware, so ctx only bounds how long the caller waits for it.
func (r *Razorpay) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	notes := make(map[string]interface{}, len(req.Notes))
	for k, v := range req.Notes {
		notes[k] = v
	}
	data := map[string]interface{}{
		"amount":          req.AmountPaise,
		"currency":        req.Currency,
		"receipt":         req.Receipt,
		"payment_capture": 1,
		"notes":           notes,
	}

	type result struct {
		body map[string]interface{}
		err  error
	}
	done := make(chan result, 1)
	go func() {
		body, err := r.orders.Create(data, nil)
		done <- result{body: body, err: err}
	}()

	var res result
	select {
	case res = <-done:
	case <-ctx.Done():
		r.logger.Error("razorpay order creation timed out", "receipt", req.Receipt, "error", ctx.Err())
		return nil, fmt.Errorf("create razorpay order: %w", ctx.Err())
	}
	if res.err != nil {
		r.logger.Error("razorpay order creation failed", "receipt", req.Receipt, "error", res.err)
		return nil, fmt.Errorf("create razorpay order: %w", res.err)
	}

	order, err := parseOrder(res.body)
	if err != nil {
		return nil, err
	}
	r.logger.Info("razorpay order created", "order_id", order.ID, "receipt", req.Receipt, "amount", order.Amount)
	return order, nil
}

func parseOrder(body map[string]interface{}) (*Order, error) {
	id, _ := body["id"].(string)
	if id == "" {
		return nil, errors.New("razorpay order response has no id")
	}
	amount, err := toInt64(body["amount"])
	if err != nil {
		return nil, fmt.Errorf("razorpay order amount: %w", err)
	}
	order := &Order{ID: id, Amount: amount}
	order.Currency, _ = body["currency"].(string)
	order.Receipt, _ = body["receipt"].(string)
	order.Status, _ = body["status"].(string)
	return order, nil
}

func toInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case float64:
		return int64(n), nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case json.Number:
		return n.Int64()
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}

// VerifySignature checks the checkout signature, an HMAC-SHA256 of
// "order_id|payment_id" keyed with the API secret.
func (r *Razorpay) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifySignature(r.keySecret, orderID, paymentID, signature)
}

func VerifySignature(secret, orderID, paymentID, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	return utils.VerifyPaymentSignature(map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
	}, signature, secret)
}

// VerifyWebhookSignature checks X-Razorpay-Signature against the raw body.
func VerifyWebhookSignature(secret string, body []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	return utils.VerifyWebhookSignature(string(body), signature, secret)
}

// Sign produces the signature Razorpay attaches to a successful checkout.
// Used to fake widget callbacks in tests and local runs.
func Sign(secret, orderID, paymentID string) string {
	return hmacHex(secret, []byte(orderID+"|"+paymentID))
}

// SignWebhook produces the X-Razorpay-Signature of a webhook body.
func SignWebhook(secret string, body []byte) string {
	return hmacHex(secret, body)
}

func hmacHex(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
