package donation

import (
	"context"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/ngo-donations/internal/transport"
)

type ServiceAPI interface {
	GatewayConfigured() bool
	CreateOrder(ctx context.Context, dto CreateOrderDTO) (*CreateOrderResponse, error)
	VerifyPayment(ctx context.Context, dto VerifyPaymentDTO) (*VerifyPaymentResponse, error)
	List(ctx context.Context, filter ListFilter) ([]*Donation, error)
	Get(ctx context.Context, id string) (*Donation, error)
	UpdateStatus(ctx context.Context, id string, dto UpdateStatusDTO) (*Donation, error)
	Delete(ctx context.Context, id string) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":             "donations router OK",
		"gateway_configured": h.Service.GatewayConfigured(),
	})
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var dto CreateOrderDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	resp, err := h.Service.CreateOrder(r.Context(), dto)
	if err != nil {
		h.Logger.Error("CreateOrder: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateOrder: order created", "donation_id", resp.DonationID, "order_id", resp.OrderID)
	h.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var dto VerifyPaymentDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	resp, err := h.Service.VerifyPayment(r.Context(), dto)
	if err != nil {
		h.Logger.Error("VerifyPayment: service error", "error", err, "order_id", dto.OrderID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) ListDonations(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Status: r.URL.Query().Get("status"),
		Type:   r.URL.Query().Get("type"),
		Limit:  h.QueryLimit(r, 100, 1000),
	}

	donations, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, donations)
}

func (h *Handler) GetDonation(w http.ResponseWriter, r *http.Request) {
	d, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) UpdateDonation(w http.ResponseWriter, r *http.Request) {
	var dto UpdateStatusDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	d, err := h.Service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) DeleteDonation(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "Donation deleted successfully"})
}
