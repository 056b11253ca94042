package engine

import (
	"testing"
	"time"

	"github.com/yourusername/fund-compare/internal/models"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestPriceOnOrBefore(t *testing.T) {
	series := models.PriceSeries{
		{Date: date(2022, 1, 10), Price: 100},
		{Date: date(2022, 2, 10), Price: 110},
		{Date: date(2022, 3, 10), Price: 120},
	}

	price, ok := PriceOnOrBefore(series, date(2022, 2, 10))
	if !ok || price != 110 {
		t.Fatalf("expected exact match 110, got %v ok=%v", price, ok)
	}

	price, ok = PriceOnOrBefore(series, date(2022, 2, 25))
	if !ok || price != 110 {
		t.Fatalf("expected latest on-or-before 110, got %v ok=%v", price, ok)
	}

	price, ok = PriceOnOrBefore(series, date(2023, 1, 1))
	if !ok || price != 120 {
		t.Fatalf("expected last price 120, got %v ok=%v", price, ok)
	}
}

func TestPriceOnOrBeforeFallsBackToEarliest(t *testing.T) {
	series := models.PriceSeries{
		{Date: date(2022, 1, 10), Price: 100},
		{Date: date(2022, 2, 10), Price: 110},
	}

	price, ok := PriceOnOrBefore(series, date(2020, 1, 1))
	if !ok || price != 100 {
		t.Fatalf("expected earliest price fallback 100, got %v ok=%v", price, ok)
	}
}

func TestPriceOnOrBeforeEmptySeries(t *testing.T) {
	if _, ok := PriceOnOrBefore(models.PriceSeries{}, date(2022, 1, 1)); ok {
		t.Fatalf("expected no price for empty series")
	}
}

func TestMonthlyRepresentative(t *testing.T) {
	series := models.PriceSeries{
		{Date: date(2022, 1, 3), Price: 100},
		{Date: date(2022, 1, 20), Price: 105},
		{Date: date(2022, 2, 1), Price: 110},
		// March has no observations
		{Date: date(2022, 4, 5), Price: 120},
	}

	monthly := MonthlyRepresentative(series)
	if len(monthly) != 3 {
		t.Fatalf("expected 3 months, got %d", len(monthly))
	}
	if monthly[date(2022, 1, 1)] != 100 {
		t.Fatalf("expected earliest observation of January (100), got %v", monthly[date(2022, 1, 1)])
	}
	if monthly[date(2022, 2, 1)] != 110 {
		t.Fatalf("expected February price 110, got %v", monthly[date(2022, 2, 1)])
	}
	if _, ok := monthly[date(2022, 3, 1)]; ok {
		t.Fatalf("expected no entry for a month without observations")
	}
}
