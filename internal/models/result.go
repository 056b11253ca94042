package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ValuePoint is the running state of a simulated holding at the start of a
// calendar month.
type ValuePoint struct {
	Date     time.Time `json:"date"`
	Invested float64   `json:"invested"`
	Value    float64   `json:"value"`
}

// SimulationResult is the outcome of replaying an investment request against
// a price series.
type SimulationResult struct {
	TotalContributed float64      `json:"total_contributed"`
	UnitsHeld        float64      `json:"units_held"`
	ValuationPrice   float64      `json:"valuation_price"`
	CurrentValue     float64      `json:"current_value"`
	Trajectory       []ValuePoint `json:"trajectory,omitempty"`
}

// ReturnMetrics summarizes the performance of a simulated investment.
// AnnualizedReturnPct is nil when less than one period has elapsed.
// Approximate marks an annualized figure from a solver that hit its
// iteration cap rather than converging.
type ReturnMetrics struct {
	AbsoluteReturn      float64  `json:"absolute_return"`
	AbsoluteReturnPct   float64  `json:"absolute_return_pct"`
	AnnualizedReturnPct *float64 `json:"annualized_return_pct"`
	Approximate         bool     `json:"approximate,omitempty"`
}

// RiskLevel is a coarse banding of the aggregate risk score
type RiskLevel string

// Risk levels
const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
	RiskVeryHigh RiskLevel = "very_high"
)

// RiskMetrics holds the volatility-derived risk figures for a portfolio.
// SharpeRatio is nil when portfolio volatility is zero.
type RiskMetrics struct {
	RiskScore     float64   `json:"risk_score"`
	RiskLevel     RiskLevel `json:"risk_level"`
	VolatilityPct float64   `json:"volatility_pct"`
	SharpeRatio   *float64  `json:"sharpe_ratio"`
}

// ScenarioOutcome is one leg of a comparison
type ScenarioOutcome struct {
	InstrumentID        string   `json:"instrument_id"`
	Invested            float64  `json:"invested"`
	CurrentValue        float64  `json:"current_value"`
	Units               float64  `json:"units"`
	ReturnPct           float64  `json:"return_pct"`
	AnnualizedReturnPct *float64 `json:"annualized_return_pct"`
	Approximate         bool     `json:"approximate,omitempty"`
}

// Comparison participants
const (
	ParticipantCurrent    = "current"
	ParticipantComparison = "comparison"
	ParticipantBenchmark  = "benchmark"
)

// ChartPoint carries the running value of every participant at one period
// of the overlapping window.
type ChartPoint struct {
	Date            time.Time `json:"date"`
	CurrentValue    float64   `json:"current_value"`
	ComparisonValue float64   `json:"comparison_value"`
	BenchmarkValue  *float64  `json:"benchmark_value,omitempty"`
}

// ComparisonResult reconciles up to three parallel scenarios over a shared
// window. Benchmark is nil when no benchmark was requested or its data could
// not be fetched.
type ComparisonResult struct {
	ID                   uuid.UUID        `json:"id"`
	Current              ScenarioOutcome  `json:"current"`
	Comparison           ScenarioOutcome  `json:"comparison"`
	Benchmark            *ScenarioOutcome `json:"benchmark"`
	Difference           float64          `json:"difference"`
	PercentageDifference float64          `json:"percentage_difference"`
	BestPerformer        string           `json:"best_performer"`
	ChartData            []ChartPoint     `json:"chart_data"`
	Risk                 *RiskMetrics     `json:"risk,omitempty"`
	GeneratedAt          time.Time        `json:"generated_at"`
}

// ToJSON exports the comparison result to JSON
func (c ComparisonResult) ToJSON() string {
	data, _ := json.Marshal(c)
	return string(data)
}
