package booking

import (
	"time"

	"github.com/robertarktes/lumiere-hotel/internal/domain"
)

// Draft is a room and stay selection the guest has not confirmed yet.
type Draft struct {
	RoomID    *string          `json:"roomId"`
	DateRange domain.DateRange `json:"dateRange"`
	Guests    int              `json:"guests"`
}

func EmptyDraft() Draft {
	return Draft{Guests: 1}
}

// DraftState holds the current draft for one session. Set replaces the
// whole draft; concurrent selections resolve as last write wins.
type DraftState struct {
	current Draft
}

func NewDraftState() *DraftState {
	return &DraftState{current: EmptyDraft()}
}

func RestoreDraft(d Draft) *DraftState {
	return &DraftState{current: d}
}

func (s *DraftState) Set(roomID string, stay domain.DateRange, guests int) {
	s.current = Draft{
		RoomID:    &roomID,
		DateRange: domain.DateRange{From: copyTime(stay.From), To: copyTime(stay.To)},
		Guests:    guests,
	}
}

func (s *DraftState) Clear() {
	s.current = EmptyDraft()
}

func (s *DraftState) Current() Draft {
	return s.current
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
