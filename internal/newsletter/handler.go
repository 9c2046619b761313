package newsletter

import (
	"context"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/ngo-donations/internal/transport"
)

type ServiceAPI interface {
	Subscribe(ctx context.Context, dto SubscribeDTO) (*Subscriber, error)
	List(ctx context.Context, status string, limit int) ([]*Subscriber, error)
	Stats(ctx context.Context) (*Stats, error)
	Unsubscribe(ctx context.Context, id string) error
	UnsubscribeByEmail(ctx context.Context, dto SubscribeDTO) error
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

func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var dto SubscribeDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	sub, err := h.Service.Subscribe(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, sub)
}

// UnsubscribeByEmail takes the address from ?email= (the link in a mail) or a JSON body.
func (h *Handler) UnsubscribeByEmail(w http.ResponseWriter, r *http.Request) {
	dto := SubscribeDTO{Email: r.URL.Query().Get("email")}
	if dto.Email == "" && !h.DecodeJSON(w, r, &dto) {
		return
	}
	if err := h.Service.UnsubscribeByEmail(r.Context(), dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "Unsubscribed successfully"})
}

func (h *Handler) ListSubscribers(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		status = r.URL.Query().Get("status_filter")
	}
	subs, err := h.Service.List(r.Context(), status, h.QueryLimit(r, 500, 1000))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, subs)
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) DeleteSubscriber(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Unsubscribe(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "Unsubscribed successfully"})
}
