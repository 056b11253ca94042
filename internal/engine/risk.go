package engine

import (
	"fmt"
	"math"

	"github.com/yourusername/fund-compare/internal/models"
)

// Benchmark index keys used as volatility/return proxies per category
const (
	BroadMarketIndex = "NIFTY50"
	MidCapIndex      = "NIFTYMIDCAP150"
	SmallCapIndex    = "NIFTYSMALLCAP250"
)

// categoryBenchmarks maps instrument categories to their proxy index. Pure
// debt has no proxy and gets a fixed low score instead of a computed one.
var categoryBenchmarks = map[models.Category]string{
	models.CategoryLargeCap: BroadMarketIndex,
	models.CategoryMidCap:   MidCapIndex,
	models.CategorySmallCap: SmallCapIndex,
	models.CategorySectoral: BroadMarketIndex,
	models.CategoryHybrid:   BroadMarketIndex,
}

// categoryAdjustments shifts the banded score for concentration or blending
var categoryAdjustments = map[models.Category]float64{
	models.CategorySmallCap: 2,
	models.CategorySectoral: 2,
	models.CategoryHybrid:   -1,
}

const debtRiskScore = 1.0

// CategoryBenchmark returns the proxy index key for a category. The boolean
// is false for categories scored without a benchmark.
func CategoryBenchmark(category models.Category) (string, bool) {
	key, ok := categoryBenchmarks[category]
	return key, ok
}

// ScoreFromVolatility converts annualized volatility (%) into a 1-10 score
// via piecewise-linear banding: <10% maps into 1-2, 10-20% into 2-4,
// 20-30% into 4-6 and anything above into 6-10, capped at 10.
func ScoreFromVolatility(volatilityPct float64) float64 {
	v := volatilityPct
	if v < 0 {
		v = 0
	}
	switch {
	case v < 10:
		return 1 + v/10
	case v < 20:
		return 2 + (v-10)/10*2
	case v < 30:
		return 4 + (v-20)/10*2
	default:
		return math.Min(10, 6+(v-30)/10*4)
	}
}

// InstrumentRiskScore scores a single instrument from its category and the
// proxy benchmark's volatility, clamped to [1,10].
func InstrumentRiskScore(category models.Category, volatilityPct float64) float64 {
	if _, ok := categoryBenchmarks[category]; !ok {
		return debtRiskScore
	}
	score := ScoreFromVolatility(volatilityPct) + categoryAdjustments[category]
	return clampScore(score)
}

// LevelFromScore bands an aggregate score into a coarse risk level
func LevelFromScore(score float64) models.RiskLevel {
	switch {
	case score <= 2:
		return models.RiskLow
	case score <= 4:
		return models.RiskModerate
	case score <= 6:
		return models.RiskHigh
	default:
		return models.RiskVeryHigh
	}
}

// InstrumentRisk is one instrument's contribution to portfolio risk. For
// unmapped (debt) categories VolatilityPct should be 0.
type InstrumentRisk struct {
	InstrumentID  string
	Category      models.Category
	VolatilityPct float64
	Contributed   float64
}

// PortfolioRisk aggregates per-instrument risk into portfolio metrics.
// The aggregate score is the capital-weighted average of instrument scores;
// portfolio volatility is the capital-weighted RMS combination of instrument
// volatilities, treating instruments as uncorrelated. Sharpe is nil when the
// combined volatility is zero.
func PortfolioRisk(holdings []InstrumentRisk, annualizedReturnPct, riskFreeRatePct float64) (*models.RiskMetrics, error) {
	if len(holdings) == 0 {
		return nil, fmt.Errorf("portfolio risk: no holdings: %w", models.ErrRiskUnavailable)
	}

	totalContributed := 0.0
	for _, h := range holdings {
		totalContributed += h.Contributed
	}
	if totalContributed <= 0 {
		return nil, fmt.Errorf("portfolio risk: no contributed capital: %w", models.ErrRiskUnavailable)
	}

	score := 0.0
	variance := 0.0
	for _, h := range holdings {
		weight := h.Contributed / totalContributed
		score += weight * InstrumentRiskScore(h.Category, h.VolatilityPct)
		variance += weight * weight * h.VolatilityPct * h.VolatilityPct
	}
	volatility := math.Sqrt(variance)

	metrics := &models.RiskMetrics{
		RiskScore:     clampScore(score),
		RiskLevel:     LevelFromScore(score),
		VolatilityPct: volatility,
	}
	if volatility > 0 {
		sharpe := (annualizedReturnPct - riskFreeRatePct) / volatility
		metrics.SharpeRatio = &sharpe
	}
	return metrics, nil
}

func clampScore(score float64) float64 {
	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}
