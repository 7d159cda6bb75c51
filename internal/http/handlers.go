package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/robertarktes/lumiere-hotel/internal/auth"
	"github.com/robertarktes/lumiere-hotel/internal/booking"
	"github.com/robertarktes/lumiere-hotel/internal/domain"
	"github.com/robertarktes/lumiere-hotel/internal/observability"
	"github.com/robertarktes/lumiere-hotel/internal/search"
	"golang.org/x/sync/errgroup"
)

type AuthService interface {
	SignUp(ctx context.Context, in auth.SignUpInput) (*auth.SignUpResult, error)
	SignIn(ctx context.Context, in auth.SignInInput) (*auth.SignInResult, error)
}

type RoomCatalog interface {
	ListRooms(ctx context.Context) ([]domain.Room, error)
	GetRoom(ctx context.Context, id string) (*domain.Room, error)
}

// SessionStore keeps per-session filter and draft state.
type SessionStore interface {
	LoadFilters(ctx context.Context, sessionID string) (search.Filters, error)
	SaveFilters(ctx context.Context, sessionID string, f search.Filters) error
	DeleteFilters(ctx context.Context, sessionID string) error
	LoadDraft(ctx context.Context, sessionID string) (booking.Draft, error)
	SaveDraft(ctx context.Context, sessionID string, d booking.Draft) error
	DeleteDraft(ctx context.Context, sessionID string) error
}

type BookingService interface {
	Confirm(ctx context.Context, userID string, d booking.Draft) (*booking.Confirmation, error)
	List(ctx context.Context, userID string) (*booking.BookingList, error)
	Get(ctx context.Context, userID string, id uuid.UUID) (*domain.Booking, error)
	Cancel(ctx context.Context, userID string, id uuid.UUID) (*domain.Booking, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Handlers struct {
	auth     AuthService
	catalog  RoomCatalog
	sessions SessionStore
	bookings BookingService
	probes   map[string]Pinger
	logger   observability.Logger
}

func NewHandlers(authSvc AuthService, catalog RoomCatalog, sessions SessionStore, bookings BookingService, probes map[string]Pinger, logger observability.Logger) *Handlers {
	return &Handlers{
		auth:     authSvc,
		catalog:  catalog,
		sessions: sessions,
		bookings: bookings,
		probes:   probes,
		logger:   logger,
	}
}

// Error kinds carried in the "error" field of every error body.
const (
	KindBadRequest      = "BadRequest"
	KindUnauthorized    = "Unauthorized"
	KindNotFound        = "NotFound"
	KindConflict        = "Conflict"
	KindTooManyRequests = "TooManyRequests"
	KindInternal        = "Internal"
)

type errorBody struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, kind, msg string) {
	writeJSON(w, status, errorBody{Error: kind, Message: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20)
	return json.NewDecoder(r.Body).Decode(dst)
}

// fail maps a service error to its status code and error body.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	if kind := auth.Kind(err); kind != "" {
		status := http.StatusBadRequest
		if kind == "InvalidCredentialsError" {
			status = http.StatusUnauthorized
		}
		writeError(w, status, kind, auth.Message(err))
		return
	}
	if de := booking.AsDraftError(err); de != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: KindBadRequest, Message: "booking details are incomplete", Fields: de.Fields()})
		return
	}

	switch {
	case errors.Is(err, booking.ErrRoomNotFound):
		writeError(w, http.StatusNotFound, KindNotFound, "room not found")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, KindNotFound, "not found")
	case errors.Is(err, booking.ErrRoomUnavailable):
		writeError(w, http.StatusConflict, KindConflict, "room is not available")
	case errors.Is(err, domain.ErrSerializationFailure):
		writeError(w, http.StatusConflict, KindConflict, "conflict, try again")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, KindConflict, "booking cannot be changed in its current state")
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, KindBadRequest, errors.UnwrapAll(err).Error())
	default:
		loggerFrom(r.Context(), h.logger).WithError(err).Error("request failed")
		writeError(w, http.StatusInternalServerError, KindInternal, "internal server error")
	}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Readyz pings every backing store concurrently.
func (h *Handlers) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	for name, p := range h.probes {
		g.Go(func() error {
			return errors.Wrap(p.Ping(ctx), name)
		})
	}
	if err := g.Wait(); err != nil {
		loggerFrom(r.Context(), h.logger).WithError(err).Warn("readiness check failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "reason": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
