package checkout

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi"

	apperrors "github.com/frahmantamala/ngo-donations/internal"
	"github.com/frahmantamala/ngo-donations/internal/transport"
)

// SessionHeader carries the donor's checkout session id.
const SessionHeader = "X-Checkout-Session"

type View struct {
	SessionID    string          `json:"session_id"`
	Attempt      Attempt         `json:"attempt"`
	Form         DonationRequest `json:"form"`
	Notification *Notification   `json:"notification,omitempty"`
	Widget       *WidgetConfig   `json:"widget,omitempty"`
}

type Handler struct {
	*transport.BaseHandler
	Sessions *Sessions
}

func NewHandler(baseHandler *transport.BaseHandler, sessions *Sessions) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Sessions:    sessions,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/donate", func(r chi.Router) {
		r.Get("/", h.GetDonation)
		r.Post("/", h.SubmitDonation)
		r.Post("/reset", h.ResetDonation)
	})
}

func (h *Handler) SubmitDonation(w http.ResponseWriter, r *http.Request) {
	var req DonationRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	sess := h.Sessions.Open(r.Header.Get(SessionHeader))
	attempt, err := sess.Flow.Submit(r.Context(), req)

	status := http.StatusOK
	switch {
	case err == nil:
	case errors.Is(err, ErrAttemptInProgress):
		status = http.StatusConflict
	case IsKind(err, KindValidation):
		status = http.StatusUnprocessableEntity
	case IsKind(err, KindOrderCreation), IsKind(err, KindInvalidOrder), IsKind(err, KindPaymentGateway):
		status = http.StatusBadGateway
	}
	if err != nil {
		h.Logger.Warn("SubmitDonation: attempt did not reach payment", "session_id", sess.ID, "attempt_id", attempt.ID, "state", attempt.State, "error", err)
	}

	h.writeView(w, status, sess)
}

func (h *Handler) GetDonation(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.Sessions.Get(r.Header.Get(SessionHeader))
	if !ok {
		h.HandleError(w, apperrors.ErrSessionNotFound)
		return
	}
	h.writeView(w, http.StatusOK, sess)
}

func (h *Handler) ResetDonation(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.Sessions.Get(r.Header.Get(SessionHeader))
	if !ok {
		h.HandleError(w, apperrors.ErrSessionNotFound)
		return
	}
	if err := sess.Flow.Reset(); err != nil {
		h.writeView(w, http.StatusConflict, sess)
		return
	}
	h.writeView(w, http.StatusOK, sess)
}

func (h *Handler) writeView(w http.ResponseWriter, status int, sess *Session) {
	view := View{
		SessionID: sess.ID,
		Attempt:   sess.Flow.Current(),
		Form:      sess.Flow.Form(),
	}
	if view.Attempt.ID != "" {
		if notices := sess.Notices.For(view.Attempt.ID); len(notices) > 0 {
			last := notices[len(notices)-1]
			view.Notification = &last
		}
	}
	if widget, ok := sess.Flow.Widget(); ok {
		view.Widget = &widget
	}
	w.Header().Set(SessionHeader, sess.ID)
	h.WriteJSON(w, status, view)
}
