// Package pricing turns a nightly rate and a stay length into the amounts
// shown on the booking summary.
//
// Taxes are rounded half away from zero to whole currency units.
package pricing

import (
	"time"

	"github.com/robertarktes/lumiere-hotel/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	TaxRate    = decimal.RequireFromString("0.12")
	ServiceFee = decimal.NewFromInt(25)
)

type Quote struct {
	Nights       int     `json:"nights"`
	NightlyPrice float64 `json:"nightlyPrice"`
	Subtotal     float64 `json:"subtotal"`
	Taxes        float64 `json:"taxes"`
	ServiceFee   float64 `json:"serviceFee"`
	Total        float64 `json:"total"`
	// Ready is false when the stay is not bookable; amounts are then zero.
	Ready bool `json:"ready"`
}

// Nights is the number of whole calendar days between the two dates.
// Times of day are ignored. The result is negative when checkOut precedes
// checkIn.
func Nights(checkIn, checkOut time.Time) int {
	return int(dayNumber(checkOut) - dayNumber(checkIn))
}

const secondsPerDay = 24 * 60 * 60

// dayNumber counts days since the Unix epoch. Differencing day numbers
// stays exact for ranges longer than a time.Duration can hold.
func dayNumber(t time.Time) int64 {
	return midnight(t).Unix() / secondsPerDay
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func Calculate(nightlyPrice float64, nights int) Quote {
	q := Quote{Nights: nights, NightlyPrice: nightlyPrice}
	if nights <= 0 {
		return q
	}

	subtotal := decimal.NewFromFloat(nightlyPrice).Mul(decimal.NewFromInt(int64(nights)))
	taxes := subtotal.Mul(TaxRate).Round(0)
	total := subtotal.Add(taxes).Add(ServiceFee)

	q.Subtotal = subtotal.InexactFloat64()
	q.Taxes = taxes.InexactFloat64()
	q.ServiceFee = ServiceFee.InexactFloat64()
	q.Total = total.InexactFloat64()
	q.Ready = true
	return q
}

// ForStay prices a possibly incomplete date selection.
func ForStay(nightlyPrice float64, stay domain.DateRange) Quote {
	if !stay.Complete() {
		return Quote{NightlyPrice: nightlyPrice}
	}
	return Calculate(nightlyPrice, Nights(*stay.From, *stay.To))
}
