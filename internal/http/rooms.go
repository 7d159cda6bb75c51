package http

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/robertarktes/lumiere-hotel/internal/domain"
	"github.com/robertarktes/lumiere-hotel/internal/pricing"
	"github.com/robertarktes/lumiere-hotel/internal/rooms"
	"github.com/robertarktes/lumiere-hotel/internal/search"
)

const dateLayout = "2006-01-02"

type roomList struct {
	Rooms []domain.Room `json:"rooms"`
	Total int           `json:"total"`
	Sort  rooms.SortKey `json:"sort"`
}

func newRoomList(rs []domain.Room, key rooms.SortKey) roomList {
	return roomList{Rooms: rs, Total: len(rs), Sort: key}
}

// ListRooms answers an ad-hoc query built from the URL parameters.
func (h *Handlers) ListRooms(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f, err := filtersFromQuery(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, KindBadRequest, err.Error())
		return
	}

	all, err := h.catalog.ListRooms(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	key := rooms.ParseSortKey(q.Get("sort"))
	writeJSON(w, http.StatusOK, newRoomList(rooms.Query(all, f, key), key))
}

func (h *Handlers) FeaturedRooms(w http.ResponseWriter, r *http.Request) {
	all, err := h.catalog.ListRooms(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newRoomList(rooms.Featured(all), rooms.SortFeatured))
}

func (h *Handlers) GetRoom(w http.ResponseWriter, r *http.Request) {
	room, err := h.catalog.GetRoom(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

// QuoteRoom prices a stay in the room. Missing dates give a quote that is
// not ready rather than an error.
func (h *Handlers) QuoteRoom(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	checkIn, err := parseDate(q.Get("check_in"))
	if err != nil {
		writeError(w, http.StatusBadRequest, KindBadRequest, "check_in must be YYYY-MM-DD")
		return
	}
	checkOut, err := parseDate(q.Get("check_out"))
	if err != nil {
		writeError(w, http.StatusBadRequest, KindBadRequest, "check_out must be YYYY-MM-DD")
		return
	}

	room, err := h.catalog.GetRoom(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pricing.ForStay(room.Price, domain.DateRange{From: checkIn, To: checkOut}))
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func filtersFromQuery(q url.Values) (search.Filters, error) {
	f := search.DefaultFilters()

	for _, t := range q["type"] {
		rt := domain.RoomType(t)
		if !rt.Valid() {
			return f, errors.Newf("unknown room type %q", t)
		}
		f.RoomTypes = append(f.RoomTypes, rt)
	}
	f.Amenities = append(f.Amenities, q["amenity"]...)

	if v := q.Get("guests"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return f, errors.New("guests must be a positive integer")
		}
		f.Guests = n
	}
	if v := q.Get("min_price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return f, errors.New("min_price must be a number")
		}
		f.PriceRange[0] = p
	}
	if v := q.Get("max_price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return f, errors.New("max_price must be a number")
		}
		f.PriceRange[1] = p
	}
	return f, nil
}
