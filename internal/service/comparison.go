// Package service orchestrates comparisons and NAV synchronization on top
// of the calculation engine, the data providers and the persistence layer.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/yourusername/fund-compare/internal/config"
	"github.com/yourusername/fund-compare/internal/engine"
	"github.com/yourusername/fund-compare/internal/logger"
	"github.com/yourusername/fund-compare/internal/metrics"
	"github.com/yourusername/fund-compare/internal/models"
	"github.com/yourusername/fund-compare/internal/provider"
)

// ComparisonService runs three-way investment comparisons
type ComparisonService struct {
	provider provider.Provider
	cfg      *config.Config
	log      *logger.ComparisonLogger
	now      func() time.Time
}

// CompareInput describes one comparison run
type CompareInput struct {
	Current    models.Instrument
	Comparison models.Instrument
	Request    models.InvestmentRequest

	// BenchmarkIndex overrides the benchmark resolved from the current
	// instrument's category. Empty means resolve automatically.
	BenchmarkIndex string

	// IncludeRisk requests portfolio risk metrics on the result. When
	// risk data cannot be obtained the whole comparison fails rather
	// than returning fabricated figures.
	IncludeRisk bool
}

// NewComparisonService creates a new comparison service
func NewComparisonService(p provider.Provider, cfg *config.Config, log *logger.ComparisonLogger) *ComparisonService {
	return &ComparisonService{
		provider: p,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// WithClock overrides the wall clock, for tests
func (s *ComparisonService) WithClock(now func() time.Time) *ComparisonService {
	s.now = now
	return s
}

type seriesResult struct {
	leg    string
	series models.PriceSeries
	err    error
}

// Compare fetches all price histories, runs the engine and optionally
// attaches risk metrics. Both primary legs must resolve; the benchmark leg
// degrades to a two-way comparison when its data is unavailable.
func (s *ComparisonService) Compare(ctx context.Context, input CompareInput) (*models.ComparisonResult, error) {
	start := s.now()

	if err := input.Request.Validate(); err != nil {
		return nil, err
	}
	if input.Current.ID == input.Comparison.ID {
		return nil, models.NewInvalidRequestError("comparison", "comparison instrument must differ from current")
	}

	benchmarkKey := s.resolveBenchmark(input)

	results := make(chan seriesResult, 3)
	go s.fetchSeries(ctx, models.ParticipantCurrent, input.Current.ID, results)
	go s.fetchSeries(ctx, models.ParticipantComparison, input.Comparison.ID, results)
	legs := 2
	if benchmarkKey != "" {
		legs = 3
		go s.fetchBenchmarkSeries(ctx, benchmarkKey, results)
	}

	var currentSeries, comparisonSeries, benchmarkSeries models.PriceSeries
	var benchmarkErr error
	for i := 0; i < legs; i++ {
		r := <-results
		switch r.leg {
		case models.ParticipantCurrent:
			if r.err != nil {
				return nil, s.failComparison(input.Current.ID, r.err, start)
			}
			currentSeries = r.series
		case models.ParticipantComparison:
			if r.err != nil {
				return nil, s.failComparison(input.Comparison.ID, r.err, start)
			}
			comparisonSeries = r.series
		case models.ParticipantBenchmark:
			benchmarkSeries, benchmarkErr = r.series, r.err
		}
	}

	var benchmark *engine.Scenario
	if benchmarkKey != "" {
		if benchmarkErr != nil {
			metrics.RecordBenchmarkDegradation()
			s.log.LogBenchmarkDegradation(benchmarkKey, benchmarkErr)
		} else {
			benchmark = &engine.Scenario{InstrumentID: benchmarkKey, Series: benchmarkSeries}
		}
	}

	now := s.now()
	result, err := engine.Compare(
		&input.Request,
		engine.Scenario{InstrumentID: input.Current.ID, Series: currentSeries},
		engine.Scenario{InstrumentID: input.Comparison.ID, Series: comparisonSeries},
		benchmark,
		now,
	)
	if err != nil {
		metrics.RecordComparison("error", s.now().Sub(start).Seconds())
		return nil, err
	}

	metrics.RecordSimulation(string(input.Request.Mode))

	if input.IncludeRisk {
		risk, err := s.portfolioRisk(ctx, input, result)
		if err != nil {
			metrics.RecordComparison("error", s.now().Sub(start).Seconds())
			return nil, err
		}
		result.Risk = risk
	}

	elapsed := s.now().Sub(start)
	metrics.RecordComparison("success", elapsed.Seconds())
	s.log.LogComparison(
		result.ID.String(),
		input.Current.ID,
		input.Comparison.ID,
		string(input.Request.Mode),
		result.BestPerformer,
		result.Benchmark != nil,
		float64(elapsed.Milliseconds()),
	)

	return result, nil
}

func (s *ComparisonService) resolveBenchmark(input CompareInput) string {
	if input.BenchmarkIndex != "" {
		return input.BenchmarkIndex
	}
	if key, ok := engine.CategoryBenchmark(input.Current.Category); ok {
		return key
	}
	return s.cfg.Comparison.DefaultBenchmark
}

func (s *ComparisonService) fetchSeries(ctx context.Context, leg, instrumentID string, out chan<- seriesResult) {
	series, err := s.provider.GetSeries(ctx, instrumentID)
	out <- seriesResult{leg: leg, series: series, err: err}
}

func (s *ComparisonService) fetchBenchmarkSeries(ctx context.Context, indexKey string, out chan<- seriesResult) {
	series, err := s.provider.GetBenchmarkSeries(ctx, indexKey)
	out <- seriesResult{leg: models.ParticipantBenchmark, series: series, err: err}
}

func (s *ComparisonService) failComparison(instrumentID string, cause error, start time.Time) error {
	s.log.LogProviderFailure(instrumentID, cause)
	metrics.RecordComparison("error", s.now().Sub(start).Seconds())
	return fmt.Errorf("fetching series for %q: %w", instrumentID, cause)
}

// portfolioRisk derives per-instrument volatility from each instrument's
// category benchmark and aggregates both legs into portfolio metrics.
func (s *ComparisonService) portfolioRisk(ctx context.Context, input CompareInput, result *models.ComparisonResult) (*models.RiskMetrics, error) {
	holdings := make([]engine.InstrumentRisk, 0, 2)

	legVolatility := func(inst models.Instrument, contributed float64) error {
		vol := 0.0
		if key, ok := engine.CategoryBenchmark(inst.Category); ok {
			stats, err := s.provider.GetBenchmarkStats(ctx, key, s.cfg.Risk.BenchmarkPeriod)
			if err != nil {
				return fmt.Errorf("benchmark stats for %q: %w: %w", key, models.ErrRiskUnavailable, err)
			}
			vol = stats.AnnualizedVolatilityPct
		}
		holdings = append(holdings, engine.InstrumentRisk{
			InstrumentID:  inst.ID,
			Category:      inst.Category,
			VolatilityPct: vol,
			Contributed:   contributed,
		})
		return nil
	}

	if err := legVolatility(input.Current, result.Current.Invested); err != nil {
		return nil, err
	}
	if err := legVolatility(input.Comparison, result.Comparison.Invested); err != nil {
		return nil, err
	}

	riskFree, err := s.provider.GetRiskFreeRate(ctx)
	if err != nil {
		return nil, fmt.Errorf("risk-free rate: %w: %w", models.ErrRiskUnavailable, err)
	}
	metrics.UpdateRiskFreeRate(riskFree)

	return engine.PortfolioRisk(holdings, portfolioReturn(result), riskFree)
}

// portfolioReturn is the capital-weighted average of the legs' annualized
// returns, skipping legs whose annualized figure is unavailable.
func portfolioReturn(result *models.ComparisonResult) float64 {
	var weighted, capital float64
	for _, leg := range []models.ScenarioOutcome{result.Current, result.Comparison} {
		if leg.AnnualizedReturnPct == nil || leg.Invested <= 0 {
			continue
		}
		weighted += *leg.AnnualizedReturnPct * leg.Invested
		capital += leg.Invested
	}
	if capital == 0 {
		return 0
	}
	return weighted / capital
}
