package paymentgateway

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi"

	apperrors "github.com/frahmantamala/ngo-donations/internal"
	"github.com/frahmantamala/ngo-donations/internal/checkout"
	"github.com/frahmantamala/ngo-donations/internal/transport"
)

// failurePayload mirrors the widget's payment.failed response.
type failurePayload struct {
	Error checkout.GatewayFailure `json:"error"`
}

type WidgetHandler struct {
	*transport.BaseHandler
	Widget *HostedWidget
}

func NewWidgetHandler(baseHandler *transport.BaseHandler, widget *HostedWidget) *WidgetHandler {
	return &WidgetHandler{
		BaseHandler: baseHandler,
		Widget:      widget,
	}
}

func (h *WidgetHandler) RegisterRoutes(r chi.Router) {
	r.Route("/checkout/{order_id}", func(r chi.Router) {
		r.Get("/", h.GetConfig)
		r.Post("/success", h.Success)
		r.Post("/failure", h.Failure)
		r.Post("/dismiss", h.Dismiss)
	})
}

func (h *WidgetHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "order_id")
	cfg, ok := h.Widget.Config(orderID)
	if !ok {
		h.HandleError(w, apperrors.ErrOrderNotFound)
		return
	}
	h.WriteJSON(w, http.StatusOK, cfg)
}

func (h *WidgetHandler) Success(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "order_id")
	var conf checkout.PaymentConfirmation
	if !h.DecodeJSON(w, r, &conf) {
		return
	}
	if conf.PaymentID == "" {
		h.HandleError(w, apperrors.NewValidationFieldError("razorpay_payment_id", "razorpay_payment_id is required", apperrors.ErrCodeValidationFailed))
		return
	}
	h.respond(w, orderID, "succeeded", h.Widget.Succeed(orderID, conf))
}

func (h *WidgetHandler) Failure(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "order_id")
	var payload failurePayload
	if !h.DecodeJSON(w, r, &payload) {
		return
	}
	h.respond(w, orderID, "failed", h.Widget.Fail(orderID, payload.Error))
}

func (h *WidgetHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "order_id")
	h.respond(w, orderID, "cancelled", h.Widget.Dismiss(orderID))
}

func (h *WidgetHandler) respond(w http.ResponseWriter, orderID, outcome string, err error) {
	switch {
	case err == nil:
		h.WriteJSON(w, http.StatusOK, map[string]string{"order_id": orderID, "outcome": outcome})
	case errors.Is(err, ErrUnknownOrder):
		h.HandleError(w, apperrors.ErrOrderNotFound)
	case errors.Is(err, ErrOrderIDMismatch):
		h.HandleError(w, apperrors.NewValidationError("Order id does not match", apperrors.ErrCodeValidationFailed))
	default:
		h.HandleServiceError(w, err)
	}
}
