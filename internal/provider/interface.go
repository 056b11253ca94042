// Package provider defines the data capabilities the calculation engine
// consumes: price series, benchmark statistics and the risk-free rate. The
// engine never fetches anything itself; every implementation here owns its
// own I/O, caching and failure classification.
package provider

import (
	"context"

	"github.com/yourusername/fund-compare/internal/models"
)

// SeriesProvider fetches an instrument's historical per-unit price series
type SeriesProvider interface {
	// GetSeries retrieves the full NAV history for an instrument, sorted
	// ascending by date. Unknown instruments fail with models.ErrNotFound.
	GetSeries(ctx context.Context, instrumentID string) (models.PriceSeries, error)
}

// BenchmarkStats holds the derived trailing figures for an index
type BenchmarkStats struct {
	IndexKey                string  `json:"index_key"`
	Period                  string  `json:"period"`
	AnnualizedVolatilityPct float64 `json:"annualized_volatility_pct"`
	AnnualizedReturnPct     float64 `json:"annualized_return_pct"`
}

// BenchmarkProvider fetches index histories and their derived statistics
type BenchmarkProvider interface {
	// GetBenchmarkSeries retrieves the price history for a benchmark index
	GetBenchmarkSeries(ctx context.Context, indexKey string) (models.PriceSeries, error)

	// GetBenchmarkStats retrieves trailing annualized volatility and return
	// for a benchmark index over the given period (e.g. "1y", "3y")
	GetBenchmarkStats(ctx context.Context, indexKey, period string) (*BenchmarkStats, error)
}

// RiskFreeRateProvider supplies the proxy risk-free rate as a percentage
type RiskFreeRateProvider interface {
	GetRiskFreeRate(ctx context.Context) (float64, error)
}

// Provider bundles the three capabilities a comparison needs
type Provider interface {
	SeriesProvider
	BenchmarkProvider
	RiskFreeRateProvider
}
