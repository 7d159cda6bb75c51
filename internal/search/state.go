package search

import "github.com/robertarktes/lumiere-hotel/internal/domain"

// State is the mutable filter container for one browsing session. It is
// single-writer: callers serialize access per session.
type State struct {
	filters Filters
}

func NewState() *State {
	return &State{filters: DefaultFilters()}
}

// Restore wraps previously persisted filters.
func Restore(f Filters) *State {
	return &State{filters: f.clone()}
}

// Filters returns a copy of the current filters.
func (s *State) Filters() Filters {
	return s.filters.clone()
}

func (s *State) SetDateRange(r domain.DateRange) {
	s.filters.CheckIn = cloneTime(r.From)
	s.filters.CheckOut = cloneTime(r.To)
}

func (s *State) SetGuests(guests int) {
	s.filters.Guests = guests
}

func (s *State) SetRoomTypes(types []domain.RoomType) {
	s.filters.RoomTypes = append([]domain.RoomType{}, types...)
}

func (s *State) SetPriceRange(r PriceRange) {
	s.filters.PriceRange = r
}

func (s *State) SetAmenities(amenities []string) {
	s.filters.Amenities = append([]string{}, amenities...)
}

func (s *State) Reset() {
	s.filters = DefaultFilters()
}

// Apply runs the setter for every field present in p.
func (s *State) Apply(p Patch) {
	if p.DateRange != nil {
		s.SetDateRange(*p.DateRange)
	}
	if p.Guests != nil {
		s.SetGuests(*p.Guests)
	}
	if p.RoomTypes != nil {
		s.SetRoomTypes(*p.RoomTypes)
	}
	if p.PriceRange != nil {
		s.SetPriceRange(*p.PriceRange)
	}
	if p.Amenities != nil {
		s.SetAmenities(*p.Amenities)
	}
}
