package engine

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yourusername/fund-compare/internal/models"
)

func monthlySeries(start time.Time, months int, startPrice, step float64) models.PriceSeries {
	series := make(models.PriceSeries, 0, months)
	for i := 0; i < months; i++ {
		series = append(series, models.PricePoint{
			Date:  start.AddDate(0, i, 0),
			Price: startPrice + step*float64(i),
		})
	}
	return series
}

func sipRequest(amount float64, start, end time.Time) *models.InvestmentRequest {
	return &models.InvestmentRequest{
		Mode:      models.ModeSIP,
		Amount:    decimal.NewFromFloat(amount),
		StartDate: start,
		EndDate:   end,
	}
}

func TestCompareBestPerformer(t *testing.T) {
	start := date(2022, 1, 1)
	end := date(2022, 12, 1)
	req := sipRequest(1000, start, end)

	weak := Scenario{InstrumentID: "weak", Series: monthlySeries(start, 12, 100, 1)}
	strong := Scenario{InstrumentID: "strong", Series: monthlySeries(start, 12, 100, 10)}
	index := Scenario{InstrumentID: "index", Series: monthlySeries(start, 12, 100, 5)}

	result, err := Compare(req, weak, strong, &index, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.BestPerformer != models.ParticipantComparison {
		t.Fatalf("expected comparison to win, got %s", result.BestPerformer)
	}
	if result.Benchmark == nil {
		t.Fatalf("expected benchmark leg")
	}

	// bestPerformer must match the largest final value among the legs present
	bestValue := math.Max(result.Current.CurrentValue,
		math.Max(result.Comparison.CurrentValue, result.Benchmark.CurrentValue))
	if bestValue != result.Comparison.CurrentValue {
		t.Fatalf("best performer does not hold the largest value")
	}
}

func TestCompareTieBreaksTowardCurrent(t *testing.T) {
	start := date(2022, 1, 1)
	end := date(2022, 6, 1)
	req := sipRequest(1000, start, end)

	series := monthlySeries(start, 6, 100, 2)
	a := Scenario{InstrumentID: "a", Series: series}
	b := Scenario{InstrumentID: "b", Series: series}

	result, err := Compare(req, a, b, nil, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.BestPerformer != models.ParticipantCurrent {
		t.Fatalf("expected tie to favor current, got %s", result.BestPerformer)
	}
}

func TestCompareDifference(t *testing.T) {
	start := date(2022, 1, 1)
	end := date(2022, 6, 1)
	req := sipRequest(1000, start, end)

	a := Scenario{InstrumentID: "a", Series: monthlySeries(start, 6, 100, 0)}
	b := Scenario{InstrumentID: "b", Series: monthlySeries(start, 6, 100, 4)}

	result, err := Compare(req, a, b, nil, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantDiff := result.Comparison.CurrentValue - result.Current.CurrentValue
	if math.Abs(result.Difference-wantDiff) > epsilon {
		t.Fatalf("expected difference %v, got %v", wantDiff, result.Difference)
	}
	wantPct := wantDiff / result.Current.Invested * 100
	if math.Abs(result.PercentageDifference-wantPct) > epsilon {
		t.Fatalf("expected pct difference %v, got %v", wantPct, result.PercentageDifference)
	}
}

func TestCompareFailsWhenPrimaryLacksData(t *testing.T) {
	start := date(2022, 1, 1)
	end := date(2022, 6, 1)
	req := sipRequest(1000, start, end)

	a := Scenario{InstrumentID: "a", Series: monthlySeries(start, 6, 100, 2)}
	empty := Scenario{InstrumentID: "empty", Series: models.PriceSeries{}}

	if _, err := Compare(req, a, empty, nil, end); !errors.Is(err, models.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
	if _, err := Compare(req, empty, a, nil, end); !errors.Is(err, models.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestCompareDegradesBenchmark(t *testing.T) {
	start := date(2022, 1, 1)
	end := date(2022, 6, 1)
	req := sipRequest(1000, start, end)

	a := Scenario{InstrumentID: "a", Series: monthlySeries(start, 6, 100, 2)}
	b := Scenario{InstrumentID: "b", Series: monthlySeries(start, 6, 100, 3)}
	badBenchmark := Scenario{InstrumentID: "index", Series: models.PriceSeries{}}

	result, err := Compare(req, a, b, &badBenchmark, end)
	if err != nil {
		t.Fatalf("expected two-way result, got error: %v", err)
	}
	if result.Benchmark != nil {
		t.Fatalf("expected nil benchmark after degradation")
	}
	for _, point := range result.ChartData {
		if point.BenchmarkValue != nil {
			t.Fatalf("expected no benchmark values in chart data")
		}
	}
}

func TestCompareInvalidRequest(t *testing.T) {
	start := date(2022, 1, 1)
	a := Scenario{InstrumentID: "a", Series: monthlySeries(start, 6, 100, 2)}
	b := Scenario{InstrumentID: "b", Series: monthlySeries(start, 6, 100, 3)}

	req := sipRequest(-5, start, date(2022, 6, 1))
	if _, err := Compare(req, a, b, nil, date(2022, 6, 1)); !errors.Is(err, models.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}

	req = sipRequest(1000, date(2022, 6, 1), start)
	if _, err := Compare(req, a, b, nil, date(2022, 6, 1)); !errors.Is(err, models.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for inverted window, got %v", err)
	}
}

func TestChartDataTruncatedToRecentPoints(t *testing.T) {
	start := date(2019, 1, 1)
	end := date(2022, 12, 1)
	req := sipRequest(1000, start, end)

	a := Scenario{InstrumentID: "a", Series: monthlySeries(start, 48, 100, 1)}
	b := Scenario{InstrumentID: "b", Series: monthlySeries(start, 48, 100, 2)}

	result, err := Compare(req, a, b, nil, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.ChartData) != ChartPointLimit {
		t.Fatalf("expected %d chart points, got %d", ChartPointLimit, len(result.ChartData))
	}
	last := result.ChartData[len(result.ChartData)-1]
	if !last.Date.Equal(date(2022, 12, 1)) {
		t.Fatalf("expected most recent months to be kept, last point at %v", last.Date)
	}
}

func TestChartDataMergesOnSharedMonths(t *testing.T) {
	start := date(2022, 1, 1)
	end := date(2022, 6, 1)
	req := sipRequest(1000, start, end)

	a := Scenario{InstrumentID: "a", Series: monthlySeries(start, 6, 100, 2)}
	// Comparison series missing March
	gappy := models.PriceSeries{
		{Date: date(2022, 1, 1), Price: 100},
		{Date: date(2022, 2, 1), Price: 102},
		{Date: date(2022, 4, 1), Price: 104},
		{Date: date(2022, 5, 1), Price: 106},
		{Date: date(2022, 6, 1), Price: 108},
	}
	b := Scenario{InstrumentID: "b", Series: gappy}

	result, err := Compare(req, a, b, nil, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.ChartData) != 5 {
		t.Fatalf("expected 5 shared months, got %d", len(result.ChartData))
	}
	for _, point := range result.ChartData {
		if point.Date.Equal(date(2022, 3, 1)) {
			t.Fatalf("March should not appear: missing from one simulation")
		}
	}
}
