package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/fund-compare/internal/models"
)

// ChartPointLimit truncates merged chart data to the most recent periods
const ChartPointLimit = 24

// Scenario is one leg of a comparison: an instrument and its already-fetched
// price history.
type Scenario struct {
	InstrumentID string
	Series       models.PriceSeries
}

// Compare runs the simulator and return solver for the current and
// comparison instruments, and optionally a benchmark index, over the
// identical window and mode so all legs are apples-to-apples. A primary leg
// failing with insufficient data fails the whole comparison; a benchmark leg
// failing degrades to a two-way result with a nil benchmark.
func Compare(req *models.InvestmentRequest, current, comparison Scenario, benchmark *Scenario, now time.Time) (*models.ComparisonResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	currentOutcome, err := Simulate(current.Series, req, current.InstrumentID, now)
	if err != nil {
		return nil, err
	}
	comparisonOutcome, err := Simulate(comparison.Series, req, comparison.InstrumentID, now)
	if err != nil {
		return nil, err
	}

	var benchmarkOutcome *Outcome
	if benchmark != nil {
		benchmarkOutcome, err = Simulate(benchmark.Series, req, benchmark.InstrumentID, now)
		if err != nil {
			benchmarkOutcome = nil
		}
	}

	result := &models.ComparisonResult{
		ID:          uuid.New(),
		Current:     scenarioOutcome(current.InstrumentID, currentOutcome, req.Mode, now),
		Comparison:  scenarioOutcome(comparison.InstrumentID, comparisonOutcome, req.Mode, now),
		GeneratedAt: now,
	}
	if benchmarkOutcome != nil {
		outcome := scenarioOutcome(benchmark.InstrumentID, benchmarkOutcome, req.Mode, now)
		result.Benchmark = &outcome
	}

	result.Difference = result.Comparison.CurrentValue - result.Current.CurrentValue
	if result.Current.Invested > 0 {
		result.PercentageDifference = result.Difference / result.Current.Invested * 100
	}
	result.BestPerformer = bestPerformer(result)
	result.ChartData = mergeChartData(currentOutcome, comparisonOutcome, benchmarkOutcome)

	return result, nil
}

func scenarioOutcome(instrumentID string, outcome *Outcome, mode models.InvestmentMode, now time.Time) models.ScenarioOutcome {
	returns := ComputeReturns(outcome, mode, now)
	return models.ScenarioOutcome{
		InstrumentID:        instrumentID,
		Invested:            outcome.Result.TotalContributed,
		CurrentValue:        outcome.Result.CurrentValue,
		Units:               outcome.Result.UnitsHeld,
		ReturnPct:           returns.AbsoluteReturnPct,
		AnnualizedReturnPct: returns.AnnualizedReturnPct,
		Approximate:         returns.Approximate,
	}
}

// bestPerformer is the arg-max over final value across the legs present,
// with ties broken toward the current instrument.
func bestPerformer(result *models.ComparisonResult) string {
	best := models.ParticipantCurrent
	bestValue := result.Current.CurrentValue

	if result.Comparison.CurrentValue > bestValue {
		best = models.ParticipantComparison
		bestValue = result.Comparison.CurrentValue
	}
	if result.Benchmark != nil && result.Benchmark.CurrentValue > bestValue {
		best = models.ParticipantBenchmark
	}
	return best
}

// mergeChartData joins the per-month trajectories on periods present in both
// primary simulations, attaching benchmark values where available, truncated
// to the most recent ChartPointLimit points.
func mergeChartData(current, comparison, benchmark *Outcome) []models.ChartPoint {
	comparisonByMonth := make(map[time.Time]models.ValuePoint, len(comparison.Result.Trajectory))
	for _, point := range comparison.Result.Trajectory {
		comparisonByMonth[point.Date] = point
	}

	benchmarkByMonth := make(map[time.Time]models.ValuePoint)
	if benchmark != nil {
		for _, point := range benchmark.Result.Trajectory {
			benchmarkByMonth[point.Date] = point
		}
	}

	merged := make([]models.ChartPoint, 0, len(current.Result.Trajectory))
	for _, point := range current.Result.Trajectory {
		other, ok := comparisonByMonth[point.Date]
		if !ok {
			continue
		}
		chartPoint := models.ChartPoint{
			Date:            point.Date,
			CurrentValue:    point.Value,
			ComparisonValue: other.Value,
		}
		if bench, ok := benchmarkByMonth[point.Date]; ok {
			value := bench.Value
			chartPoint.BenchmarkValue = &value
		}
		merged = append(merged, chartPoint)
	}

	if len(merged) > ChartPointLimit {
		merged = merged[len(merged)-ChartPointLimit:]
	}
	return merged
}
