package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// CreateBooking confirms the draft held by the given session and clears it.
func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r.Context())

	var req struct {
		SessionID string `json:"session_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, KindBadRequest, "invalid JSON body")
		return
	}
	if !validSessionID(req.SessionID) {
		writeError(w, http.StatusBadRequest, KindBadRequest, "session_id is required")
		return
	}

	draft, err := h.sessions.LoadDraft(r.Context(), req.SessionID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	conf, err := h.bookings.Confirm(r.Context(), userID, draft)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.sessions.DeleteDraft(r.Context(), req.SessionID); err != nil {
		loggerFrom(r.Context(), h.logger).WithError(err).WithField("booking_id", conf.Booking.ID).Warn("clear booking draft")
	}
	writeJSON(w, http.StatusCreated, conf)
}

func (h *Handlers) ListBookings(w http.ResponseWriter, r *http.Request) {
	list, err := h.bookings.List(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handlers) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, KindBadRequest, "invalid booking id")
		return
	}

	b, err := h.bookings.Get(r.Context(), userIDFrom(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handlers) CancelBooking(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, KindBadRequest, "invalid booking id")
		return
	}

	b, err := h.bookings.Cancel(r.Context(), userIDFrom(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}
