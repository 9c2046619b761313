package inquiry

import (
	"context"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/ngo-donations/internal/transport"
)

type ServiceAPI interface {
	Create(ctx context.Context, dto CreateInquiryDTO) (*Inquiry, error)
	List(ctx context.Context, status string, limit int) ([]*Inquiry, error)
	Stats(ctx context.Context) (*Stats, error)
	UpdateStatus(ctx context.Context, id string, dto UpdateInquiryDTO) (*Inquiry, error)
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

func (h *Handler) CreateInquiry(w http.ResponseWriter, r *http.Request) {
	var dto CreateInquiryDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	inq, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, inq)
}

func (h *Handler) ListInquiries(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		status = r.URL.Query().Get("status_filter")
	}
	inquiries, err := h.Service.List(r.Context(), status, h.QueryLimit(r, 100, 1000))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, inquiries)
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) UpdateInquiry(w http.ResponseWriter, r *http.Request) {
	var dto UpdateInquiryDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	inq, err := h.Service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, inq)
}

func (h *Handler) DeleteInquiry(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "Inquiry deleted successfully"})
}
