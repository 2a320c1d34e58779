package pricing

import (
	"math"
	"time"
)

type Quote struct {
	Nights        int     `json:"nights"`
	PricePerNight float64 `json:"pricePerNight"`
	Total         float64 `json:"total"`
}

// Nights counts calendar-day boundaries between from and to in loc. A stay
// that starts and ends on the same day or runs backwards counts as one night.
func Nights(from, to time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.Local
	}

	f := from.In(loc)
	t := to.In(loc)

	start := time.Date(f.Year(), f.Month(), f.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)

	nights := int(end.Sub(start).Hours() / 24) //nolint:gomnd
	if nights < 1 {
		return 1
	}

	return nights
}

// New prices a stay at pricePerNight. The total is advisory; the remote
// API decides what is charged.
func New(pricePerNight float64, from, to time.Time, loc *time.Location) *Quote {
	nights := Nights(from, to, loc)

	return &Quote{
		Nights:        nights,
		PricePerNight: pricePerNight,
		Total:         math.Round(pricePerNight*float64(nights)*100) / 100, //nolint:gomnd
	}
}
