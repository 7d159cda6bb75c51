// Package search holds the room search criteria a visitor builds up while
// browsing. State performs no validation: out-of-range values are stored
// as given and rejected, if at all, by whoever runs the query.
package search

import (
	"time"

	"github.com/robertarktes/lumiere-hotel/internal/domain"
)

const (
	DefaultGuests   = 1
	DefaultMinPrice = 0
	DefaultMaxPrice = 2000
)

// PriceRange holds inclusive [min, max] bounds.
type PriceRange [2]float64

func (p PriceRange) Min() float64 { return p[0] }
func (p PriceRange) Max() float64 { return p[1] }

func (p PriceRange) Contains(price float64) bool {
	return p[0] <= price && price <= p[1]
}

type Filters struct {
	CheckIn    *time.Time        `json:"checkIn"`
	CheckOut   *time.Time        `json:"checkOut"`
	Guests     int               `json:"guests"`
	RoomTypes  []domain.RoomType `json:"roomTypes"`
	PriceRange PriceRange        `json:"priceRange"`
	Amenities  []string          `json:"amenities"`
}

func DefaultFilters() Filters {
	return Filters{
		Guests:     DefaultGuests,
		RoomTypes:  []domain.RoomType{},
		PriceRange: PriceRange{DefaultMinPrice, DefaultMaxPrice},
		Amenities:  []string{},
	}
}

// DateRange returns the stay selection carried by the filters.
func (f Filters) DateRange() domain.DateRange {
	return domain.DateRange{From: f.CheckIn, To: f.CheckOut}
}

func (f Filters) clone() Filters {
	out := f
	out.CheckIn = cloneTime(f.CheckIn)
	out.CheckOut = cloneTime(f.CheckOut)
	out.RoomTypes = append([]domain.RoomType{}, f.RoomTypes...)
	out.Amenities = append([]string{}, f.Amenities...)
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// Patch is a partial update: nil fields leave the current value alone.
type Patch struct {
	DateRange  *domain.DateRange  `json:"dateRange,omitempty"`
	Guests     *int               `json:"guests,omitempty"`
	RoomTypes  *[]domain.RoomType `json:"roomTypes,omitempty"`
	PriceRange *PriceRange        `json:"priceRange,omitempty"`
	Amenities  *[]string          `json:"amenities,omitempty"`
}
