package http

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/robertarktes/lumiere-hotel/internal/booking"
	"github.com/robertarktes/lumiere-hotel/internal/domain"
	"github.com/robertarktes/lumiere-hotel/internal/pricing"
	"github.com/robertarktes/lumiere-hotel/internal/rooms"
	"github.com/robertarktes/lumiere-hotel/internal/search"
)

const maxSessionIDLen = 128

func validSessionID(sid string) bool {
	if sid == "" || len(sid) > maxSessionIDLen {
		return false
	}
	for _, c := range sid {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}

// sessionID reads the {sid} path parameter and rejects malformed ids.
func sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	sid := chi.URLParam(r, "sid")
	if !validSessionID(sid) {
		writeError(w, http.StatusBadRequest, KindBadRequest, "invalid session id")
		return "", false
	}
	return sid, true
}

func (h *Handlers) GetFilters(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	f, err := h.sessions.LoadFilters(r.Context(), sid)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// PatchFilters merges the given fields into the stored filters.
func (h *Handlers) PatchFilters(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	var patch search.Patch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, KindBadRequest, "invalid JSON body")
		return
	}

	current, err := h.sessions.LoadFilters(r.Context(), sid)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	state := search.Restore(current)
	state.Apply(patch)

	next := state.Filters()
	if err := h.sessions.SaveFilters(r.Context(), sid, next); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, next)
}

func (h *Handlers) ResetFilters(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	if err := h.sessions.DeleteFilters(r.Context(), sid); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, search.NewState().Filters())
}

// SessionRooms runs the room query with the session's stored filters.
func (h *Handlers) SessionRooms(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	f, err := h.sessions.LoadFilters(r.Context(), sid)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	all, err := h.catalog.ListRooms(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	key := rooms.ParseSortKey(r.URL.Query().Get("sort"))
	writeJSON(w, http.StatusOK, newRoomList(rooms.Query(all, f, key), key))
}

type draftView struct {
	Draft booking.Draft  `json:"draft"`
	Quote *pricing.Quote `json:"quote,omitempty"`
}

// view attaches the booking summary price when the drafted room is known.
func (h *Handlers) view(r *http.Request, d booking.Draft) draftView {
	v := draftView{Draft: d}
	if d.RoomID == nil {
		return v
	}
	room, err := h.catalog.GetRoom(r.Context(), *d.RoomID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			loggerFrom(r.Context(), h.logger).WithError(err).WithField("room_id", *d.RoomID).Warn("price booking draft")
		}
		return v
	}
	q := pricing.ForStay(room.Price, d.DateRange)
	v.Quote = &q
	return v
}

func (h *Handlers) GetDraft(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	d, err := h.sessions.LoadDraft(r.Context(), sid)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(r, d))
}

// PutDraft replaces the whole draft; no field is merged or coerced.
func (h *Handlers) PutDraft(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	var req struct {
		RoomID    string           `json:"roomId"`
		DateRange domain.DateRange `json:"dateRange"`
		Guests    int              `json:"guests"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, KindBadRequest, "invalid JSON body")
		return
	}
	if req.RoomID == "" {
		writeError(w, http.StatusBadRequest, KindBadRequest, "roomId is required")
		return
	}

	state := booking.NewDraftState()
	state.Set(req.RoomID, req.DateRange, req.Guests)
	d := state.Current()
	if err := h.sessions.SaveDraft(r.Context(), sid, d); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(r, d))
}

func (h *Handlers) ClearDraft(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	if err := h.sessions.DeleteDraft(r.Context(), sid); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, draftView{Draft: booking.EmptyDraft()})
}
