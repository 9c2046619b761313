package volunteer

import (
	"context"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/ngo-donations/internal/transport"
)

type ServiceAPI interface {
	Apply(ctx context.Context, dto CreateVolunteerDTO) (*Volunteer, error)
	List(ctx context.Context, status string, limit int) ([]*Volunteer, error)
	Stats(ctx context.Context) (*Stats, error)
	UpdateStatus(ctx context.Context, id string, dto UpdateVolunteerDTO) (*Volunteer, error)
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

func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	var dto CreateVolunteerDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	v, err := h.Service.Apply(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, v)
}

func (h *Handler) ListVolunteers(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		status = r.URL.Query().Get("status_filter")
	}
	volunteers, err := h.Service.List(r.Context(), status, h.QueryLimit(r, 100, 1000))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, volunteers)
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) UpdateVolunteer(w http.ResponseWriter, r *http.Request) {
	var dto UpdateVolunteerDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	v, err := h.Service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) DeleteVolunteer(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "Volunteer application deleted successfully"})
}
