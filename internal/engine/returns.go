package engine

import (
	"math"
	"sort"
	"time"

	"github.com/yourusername/fund-compare/internal/models"
)

// Return solver constants
const (
	// XIRRGuess is the initial rate for the Newton-Raphson iteration
	XIRRGuess = 0.10
	// XIRRTolerance is the NPV magnitude below which the solve has converged
	XIRRTolerance = 1e-4
	// XIRRMaxIterations caps the solve; hitting the cap yields a best-effort
	// estimate flagged as approximate, not an error
	XIRRMaxIterations = 100

	daysPerYear = 365.0

	// minAnnualizationYears is one period (a month); annualizing a holding
	// shorter than that extrapolates noise into an absurd rate
	minAnnualizationYears = 1.0 / 12.0
)

// CashFlow is a signed, dated cash flow: negative for contributions going
// out, positive for the final valuation coming in.
type CashFlow struct {
	Date   time.Time
	Amount float64
}

// CAGR returns the closed-form compound annual growth rate as a percentage.
// The boolean is false when any input is non-positive, in which case no rate
// is determinable.
func CAGR(totalContributed, currentValue, elapsedYears float64) (float64, bool) {
	if totalContributed <= 0 || currentValue <= 0 || elapsedYears <= 0 {
		return 0, false
	}
	return (math.Pow(currentValue/totalContributed, 1.0/elapsedYears) - 1.0) * 100, true
}

// XIRR solves the internal rate of return for an irregular series of dated
// cash flows via Newton-Raphson and returns it as a percentage. The first
// flow's date is the time origin. Fewer than two flows returns 0 by
// contract. When the iteration cap is hit, or the NPV derivative degenerates
// to zero or NaN so no further step is possible, the last computed rate is
// returned with approximate=true; the solver is not provably convergent for
// pathological flow patterns.
func XIRR(flows []CashFlow) (float64, bool) {
	if len(flows) < 2 {
		return 0, false
	}

	sorted := make([]CashFlow, len(flows))
	copy(sorted, flows)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	origin := sorted[0].Date

	rate := XIRRGuess
	for i := 0; i < XIRRMaxIterations; i++ {
		npv, derivative := netPresentValue(sorted, origin, rate)
		if math.Abs(npv) < XIRRTolerance {
			return rate * 100, false
		}
		if derivative == 0 || math.IsNaN(derivative) {
			return rate * 100, true
		}
		rate -= npv / derivative
		if rate <= -1 {
			// Discount factors require 1+rate > 0
			rate = -0.999999
		}
	}
	return rate * 100, true
}

func netPresentValue(flows []CashFlow, origin time.Time, rate float64) (float64, float64) {
	npv := 0.0
	derivative := 0.0
	for _, flow := range flows {
		years := flow.Date.Sub(origin).Hours() / 24.0 / daysPerYear
		factor := math.Pow(1+rate, years)
		npv += flow.Amount / factor
		derivative -= flow.Amount * years / (factor * (1 + rate))
	}
	return npv, derivative
}

// ComputeReturns derives return metrics for a simulated outcome. Lumpsum
// annualization is the closed-form CAGR of the single cash-flow pair, left
// nil for holdings under one period; SIP annualization is a full XIRR solve
// over the contribution schedule plus a terminal inflow of the current value
// dated now.
func ComputeReturns(outcome *Outcome, mode models.InvestmentMode, now time.Time) models.ReturnMetrics {
	contributed := outcome.Result.TotalContributed
	value := outcome.Result.CurrentValue

	metrics := models.ReturnMetrics{
		AbsoluteReturn: value - contributed,
	}
	if contributed > 0 {
		metrics.AbsoluteReturnPct = (value - contributed) / contributed * 100
	}

	if mode == models.ModeSIP {
		flows := make([]CashFlow, 0, len(outcome.Purchases)+1)
		flows = append(flows, outcome.Purchases...)
		flows = append(flows, CashFlow{Date: now, Amount: value})
		rate, approximate := XIRR(flows)
		metrics.AnnualizedReturnPct = &rate
		metrics.Approximate = approximate
		return metrics
	}

	elapsedYears := 0.0
	if len(outcome.Purchases) > 0 {
		elapsedYears = now.Sub(outcome.Purchases[0].Date).Hours() / 24.0 / daysPerYear
	}
	if elapsedYears < minAnnualizationYears {
		return metrics
	}
	if rate, ok := CAGR(contributed, value, elapsedYears); ok {
		metrics.AnnualizedReturnPct = &rate
	}
	return metrics
}
