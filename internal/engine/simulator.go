package engine

import (
	"time"

	"github.com/yourusername/fund-compare/internal/models"
)

// Outcome couples a simulation result with the dated purchases that produced
// it. Purchases are signed cash flows (negative = money out), ready for the
// return solver.
type Outcome struct {
	Result    models.SimulationResult
	Purchases []CashFlow
}

// Simulate replays an investment request against a price series. The request
// must already be validated; now anchors the default lumpsum window end.
func Simulate(series models.PriceSeries, req *models.InvestmentRequest, instrumentID string, now time.Time) (*Outcome, error) {
	switch req.Mode {
	case models.ModeSIP:
		return SimulateSIP(series, req.AmountValue(), req.StartDate, req.EndDate, instrumentID)
	default:
		return SimulateLumpSum(series, req.AmountValue(), req.StartDate, req.EffectiveEndDate(now), instrumentID)
	}
}

// SimulateLumpSum buys once at the price in effect on the investment date
// and values the holding at the latest available price.
func SimulateLumpSum(series models.PriceSeries, amount float64, investmentDate, windowEnd time.Time, instrumentID string) (*Outcome, error) {
	price, ok := PriceOnOrBefore(series, investmentDate)
	if !ok || price <= 0 {
		return nil, models.NewInsufficientDataError(instrumentID, investmentDate, windowEnd)
	}

	units := amount / price
	latest, _ := series.Latest()

	outcome := &Outcome{
		Result: models.SimulationResult{
			TotalContributed: amount,
			UnitsHeld:        units,
			ValuationPrice:   latest.Price,
			CurrentValue:     units * latest.Price,
		},
		Purchases: []CashFlow{{Date: investmentDate, Amount: -amount}},
	}
	outcome.Result.Trajectory = lumpSumTrajectory(series, units, amount, investmentDate, windowEnd)
	return outcome, nil
}

// SimulateSIP buys the per-month amount at each month's representative price
// from startDate to endDate inclusive. Months without an observation are
// skipped, not estimated; partial data never blocks the rest of the
// schedule. Zero executed purchases is a failure.
func SimulateSIP(series models.PriceSeries, amount float64, startDate, endDate time.Time, instrumentID string) (*Outcome, error) {
	monthly := MonthlyRepresentative(series)

	totalUnits := 0.0
	totalContributed := 0.0
	purchases := make([]CashFlow, 0)
	trajectory := make([]models.ValuePoint, 0)

	for month := MonthStart(startDate); !month.After(MonthStart(endDate)); month = month.AddDate(0, 1, 0) {
		price, ok := monthly[month]
		if !ok || price <= 0 {
			continue
		}
		totalUnits += amount / price
		totalContributed += amount
		purchases = append(purchases, CashFlow{Date: month, Amount: -amount})
		trajectory = append(trajectory, models.ValuePoint{
			Date:     month,
			Invested: totalContributed,
			Value:    totalUnits * price,
		})
	}

	if len(purchases) == 0 {
		return nil, models.NewInsufficientDataError(instrumentID, startDate, endDate)
	}

	latest, _ := series.Latest()
	return &Outcome{
		Result: models.SimulationResult{
			TotalContributed: totalContributed,
			UnitsHeld:        totalUnits,
			ValuationPrice:   latest.Price,
			CurrentValue:     totalUnits * latest.Price,
			Trajectory:       trajectory,
		},
		Purchases: purchases,
	}, nil
}

// lumpSumTrajectory marks the holding to each month's representative price
// across the investment window.
func lumpSumTrajectory(series models.PriceSeries, units, invested float64, from, to time.Time) []models.ValuePoint {
	monthly := MonthlyRepresentative(series)
	trajectory := make([]models.ValuePoint, 0)

	for month := MonthStart(from); !month.After(MonthStart(to)); month = month.AddDate(0, 1, 0) {
		price, ok := monthly[month]
		if !ok {
			continue
		}
		trajectory = append(trajectory, models.ValuePoint{
			Date:     month,
			Invested: invested,
			Value:    units * price,
		})
	}
	return trajectory
}
