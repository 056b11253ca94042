// Package engine implements the return calculation core: series
// normalization, investment simulation, return solving, risk estimation and
// scenario comparison. Every function is a pure computation over
// already-fetched inputs; fetching belongs to the provider layer.
package engine

import (
	"time"

	"github.com/yourusername/fund-compare/internal/models"
)

// PriceOnOrBefore returns the latest price observed on or before the given
// date. When the series starts after the date, the earliest available price
// is returned instead; this is the documented fallback for requests whose
// start predates the series, not an error. The boolean is false only for an
// empty series.
func PriceOnOrBefore(series models.PriceSeries, date time.Time) (float64, bool) {
	if series.IsEmpty() {
		return 0, false
	}

	price := 0.0
	found := false
	for _, point := range series {
		if point.Date.After(date) {
			break
		}
		price = point.Price
		found = true
	}
	if !found {
		return series[0].Price, true
	}
	return price, true
}

// MonthlyRepresentative picks one price per calendar month present in the
// series: the earliest-dated observation of that month. Months the series
// skips entirely have no entry, and callers must skip those periods rather
// than substitute a stale value.
func MonthlyRepresentative(series models.PriceSeries) map[time.Time]float64 {
	monthly := make(map[time.Time]float64)
	seen := make(map[time.Time]time.Time)

	for _, point := range series {
		month := MonthStart(point.Date)
		first, ok := seen[month]
		if !ok || point.Date.Before(first) {
			seen[month] = point.Date
			monthly[month] = point.Price
		}
	}
	return monthly
}

// MonthStart truncates a date to the first day of its calendar month in UTC
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
