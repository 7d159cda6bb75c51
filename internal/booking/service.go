// Package booking turns a confirmed draft into a Booking and manages the
// guest's booking list.
package booking

import (
	"context"
	"slices"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/robertarktes/lumiere-hotel/internal/domain"
	"github.com/robertarktes/lumiere-hotel/internal/observability"
	"github.com/robertarktes/lumiere-hotel/internal/pricing"
)

type RoomCatalog interface {
	GetRoom(ctx context.Context, id string) (*domain.Room, error)
}

// Store persists bookings together with their outbox events.
type Store interface {
	CreateBooking(ctx context.Context, b domain.Booking) error
	GetBooking(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	ListBookings(ctx context.Context, userID string) ([]domain.Booking, error)
	CancelBooking(ctx context.Context, userID string, id uuid.UUID) (*domain.Booking, error)
}

type Auditor interface {
	LogBooking(ctx context.Context, action string, b domain.Booking) error
}

type Service struct {
	catalog RoomCatalog
	store   Store
	audit   Auditor
	logger  observability.Logger
}

func NewService(catalog RoomCatalog, store Store, audit Auditor, logger observability.Logger) *Service {
	return &Service{catalog: catalog, store: store, audit: audit, logger: logger}
}

type Confirmation struct {
	Booking domain.Booking `json:"booking"`
	Quote   pricing.Quote  `json:"quote"`
}

// Confirm validates the draft against the room and stores a confirmed
// booking priced by the pricing calculator.
func (s *Service) Confirm(ctx context.Context, userID string, d Draft) (*Confirmation, error) {
	if d.RoomID == nil || *d.RoomID == "" {
		de := newDraftError()
		de.add("roomId", "select a room")
		return nil, de
	}

	room, err := s.catalog.GetRoom(ctx, *d.RoomID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "load room")
	}
	if !room.Available {
		return nil, ErrRoomUnavailable
	}

	quote, err := validate(*room, d)
	if err != nil {
		return nil, err
	}

	b := domain.NewBooking(userID, *room, *d.DateRange.From, *d.DateRange.To, d.Guests, quote.Total)
	if err := s.store.CreateBooking(ctx, b); err != nil {
		return nil, errors.Wrap(err, "save booking")
	}
	observability.BookingsTotal.WithLabelValues(string(b.Status)).Inc()

	if err := s.audit.LogBooking(ctx, "booking.created", b); err != nil {
		s.logger.WithError(err).WithField("booking_id", b.ID).Warn("audit booking")
	}

	return &Confirmation{Booking: b, Quote: quote}, nil
}

func validate(room domain.Room, d Draft) (pricing.Quote, error) {
	de := newDraftError()

	if d.DateRange.From == nil {
		de.add("dateRange.from", "select a check-in date")
	}
	if d.DateRange.To == nil {
		de.add("dateRange.to", "select a check-out date")
	}
	if d.Guests < 1 {
		de.add("guests", "at least one guest is required")
	} else if d.Guests > room.Capacity {
		de.add("guests", "room sleeps at most "+strconv.Itoa(room.Capacity))
	}

	quote := pricing.ForStay(room.Price, d.DateRange)
	if d.DateRange.Complete() && !quote.Ready {
		de.add("dateRange.to", "check-out must be after check-in")
	}

	if !de.empty() {
		return pricing.Quote{}, de
	}
	return quote, nil
}

type BookingList struct {
	Upcoming []domain.Booking `json:"upcoming"`
	Past     []domain.Booking `json:"past"`
}

// List returns the user's bookings, newest first, split as the dashboard
// shows them.
func (s *Service) List(ctx context.Context, userID string) (*BookingList, error) {
	all, err := s.store.ListBookings(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list bookings")
	}

	slices.SortStableFunc(all, func(a, b domain.Booking) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	out := &BookingList{Upcoming: []domain.Booking{}, Past: []domain.Booking{}}
	for _, b := range all {
		if b.Status.Upcoming() {
			out.Upcoming = append(out.Upcoming, b)
		} else {
			out.Past = append(out.Past, b)
		}
	}
	return out, nil
}

// Get returns one of the user's bookings. Bookings owned by someone else
// are reported as not found.
func (s *Service) Get(ctx context.Context, userID string, id uuid.UUID) (*domain.Booking, error) {
	b, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

// Cancel moves a confirmed or pending booking to cancelled.
func (s *Service) Cancel(ctx context.Context, userID string, id uuid.UUID) (*domain.Booking, error) {
	b, err := s.store.CancelBooking(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	observability.BookingsTotal.WithLabelValues(string(b.Status)).Inc()

	if err := s.audit.LogBooking(ctx, "booking.cancelled", *b); err != nil {
		s.logger.WithError(err).WithField("booking_id", b.ID).Warn("audit booking")
	}
	return b, nil
}
