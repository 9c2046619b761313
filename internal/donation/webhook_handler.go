package donation

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	errors "github.com/frahmantamala/ngo-donations/internal"
	"github.com/frahmantamala/ngo-donations/internal/paymentgateway"
	"github.com/frahmantamala/ngo-donations/internal/transport"
)

// SignatureHeader carries the HMAC of the raw webhook body.
const SignatureHeader = "X-Razorpay-Signature"

const maxWebhookBody = 1 << 20

type WebhookServiceAPI interface {
	HandleWebhook(ctx context.Context, evt WebhookEvent) (string, error)
}

type WebhookHandler struct {
	*transport.BaseHandler
	Service WebhookServiceAPI
	secret  string
}

func NewWebhookHandler(baseHandler *transport.BaseHandler, service WebhookServiceAPI, secret string) *WebhookHandler {
	return &WebhookHandler{
		BaseHandler: baseHandler,
		Service:     service,
		secret:      secret,
	}
}

type WebhookResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (h *WebhookHandler) HandleRazorpayWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		h.HandleError(w, errors.NewValidationError("Invalid request body", errors.ErrCodeValidationFailed).WithCause(err))
		return
	}

	if !paymentgateway.VerifyWebhookSignature(h.secret, body, r.Header.Get(SignatureHeader)) {
		h.Logger.Warn("webhook signature mismatch")
		h.HandleError(w, errors.ErrInvalidWebhook)
		return
	}

	var evt WebhookEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		h.HandleError(w, errors.NewValidationError("Malformed JSON in request body", errors.ErrCodeValidationFailed).WithCause(err))
		return
	}

	h.Logger.Info("received payment webhook",
		"event", evt.Event,
		"order_id", evt.Payload.Payment.Entity.OrderID,
		"payment_id", evt.Payload.Payment.Entity.ID)

	outcome, err := h.Service.HandleWebhook(r.Context(), evt)
	if err != nil {
		h.Logger.Error("failed to process payment webhook", "error", err, "event", evt.Event)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, WebhookResponse{Status: "success", Message: outcome})
}
