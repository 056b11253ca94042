package models

import (
	"sort"
	"time"
)

// PricePoint is a single dated per-unit price observation
type PricePoint struct {
	Date  time.Time `db:"observed_on" json:"date"`
	Price float64   `db:"price" json:"price"`
}

// PriceSeries is an ordered price history: one entry per trading date,
// sorted ascending. The engine never mutates a series it is given.
type PriceSeries []PricePoint

// IsEmpty reports whether the series has no observations
func (s PriceSeries) IsEmpty() bool {
	return len(s) == 0
}

// Earliest returns the first observation in the series
func (s PriceSeries) Earliest() (PricePoint, bool) {
	if len(s) == 0 {
		return PricePoint{}, false
	}
	return s[0], true
}

// Latest returns the most recent observation in the series
func (s PriceSeries) Latest() (PricePoint, bool) {
	if len(s) == 0 {
		return PricePoint{}, false
	}
	return s[len(s)-1], true
}

// IsSorted reports whether the series is strictly ascending by date
func (s PriceSeries) IsSorted() bool {
	for i := 1; i < len(s); i++ {
		if !s[i-1].Date.Before(s[i].Date) {
			return false
		}
	}
	return true
}

// Sorted returns a copy of the series sorted ascending by date. The receiver
// is left untouched.
func (s PriceSeries) Sorted() PriceSeries {
	out := make(PriceSeries, len(s))
	copy(out, s)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}
