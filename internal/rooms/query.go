// Package rooms filters and orders the room catalog in memory.
package rooms

import (
	"cmp"
	"slices"

	"github.com/robertarktes/lumiere-hotel/internal/domain"
	"github.com/robertarktes/lumiere-hotel/internal/search"
)

type SortKey string

const (
	SortFeatured  SortKey = "featured"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortRating    SortKey = "rating"
)

// ParseSortKey maps a query value to a SortKey; anything unknown sorts
// featured-first.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(s); k {
	case SortPriceLow, SortPriceHigh, SortRating:
		return k
	}
	return SortFeatured
}

// Matches reports whether room satisfies every populated filter.
func Matches(room domain.Room, f search.Filters) bool {
	if len(f.RoomTypes) > 0 && !slices.Contains(f.RoomTypes, room.Type) {
		return false
	}
	if !f.PriceRange.Contains(room.Price) {
		return false
	}
	if room.Capacity < f.Guests {
		return false
	}
	for _, a := range f.Amenities {
		if !room.HasAmenity(a) {
			return false
		}
	}
	return true
}

// Filter returns the matching rooms in input order. The input is not
// modified.
func Filter(all []domain.Room, f search.Filters) []domain.Room {
	out := make([]domain.Room, 0, len(all))
	for _, r := range all {
		if Matches(r, f) {
			out = append(out, r)
		}
	}
	return out
}

// Sort returns a stably sorted copy; equal keys keep input order.
func Sort(all []domain.Room, key SortKey) []domain.Room {
	out := slices.Clone(all)
	switch key {
	case SortPriceLow:
		slices.SortStableFunc(out, func(a, b domain.Room) int { return cmp.Compare(a.Price, b.Price) })
	case SortPriceHigh:
		slices.SortStableFunc(out, func(a, b domain.Room) int { return cmp.Compare(b.Price, a.Price) })
	case SortRating:
		slices.SortStableFunc(out, func(a, b domain.Room) int { return cmp.Compare(b.Rating, a.Rating) })
	default:
		slices.SortStableFunc(out, func(a, b domain.Room) int { return featuredRank(a) - featuredRank(b) })
	}
	return out
}

func featuredRank(r domain.Room) int {
	if r.Featured {
		return 0
	}
	return 1
}

func Query(all []domain.Room, f search.Filters, key SortKey) []domain.Room {
	return Sort(Filter(all, f), key)
}

func Featured(all []domain.Room) []domain.Room {
	out := make([]domain.Room, 0)
	for _, r := range all {
		if r.Featured {
			out = append(out, r)
		}
	}
	return out
}

func Find(all []domain.Room, id string) (domain.Room, bool) {
	for _, r := range all {
		if r.ID == id {
			return r, true
		}
	}
	return domain.Room{}, false
}
