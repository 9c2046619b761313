package dashboard

import (
	"context"
	"net/http"

	"github.com/frahmantamala/ngo-donations/internal/transport"
)

type ServiceAPI interface {
	Stats(ctx context.Context) (*Stats, error)
	Recent(ctx context.Context, limit int) (*Recent, error)
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

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) GetRecent(w http.ResponseWriter, r *http.Request) {
	recent, err := h.Service.Recent(r.Context(), h.QueryLimit(r, DefaultRecentLimit, 50))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, recent)
}
