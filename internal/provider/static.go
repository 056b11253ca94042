package provider

import (
	"context"
	"fmt"

	"github.com/yourusername/fund-compare/internal/models"
)

// StaticProvider serves fixed in-memory data. It is the injectable stand-in
// for live providers in tests and offline runs; there is exactly one engine
// and the "static mode" is just this implementation behind the same
// interface.
type StaticProvider struct {
	Series       map[string]models.PriceSeries
	Benchmarks   map[string]models.PriceSeries
	Stats        map[string]BenchmarkStats
	RiskFreeRate float64
}

// NewStaticProvider creates an empty static provider
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{
		Series:     make(map[string]models.PriceSeries),
		Benchmarks: make(map[string]models.PriceSeries),
		Stats:      make(map[string]BenchmarkStats),
	}
}

// WithSeries registers an instrument series and returns the provider
func (p *StaticProvider) WithSeries(instrumentID string, series models.PriceSeries) *StaticProvider {
	p.Series[instrumentID] = series
	return p
}

// WithBenchmark registers a benchmark series and its stats
func (p *StaticProvider) WithBenchmark(indexKey string, series models.PriceSeries, stats BenchmarkStats) *StaticProvider {
	p.Benchmarks[indexKey] = series
	p.Stats[indexKey] = stats
	return p
}

// GetSeries returns the registered series for an instrument
func (p *StaticProvider) GetSeries(ctx context.Context, instrumentID string) (models.PriceSeries, error) {
	series, ok := p.Series[instrumentID]
	if !ok {
		return nil, fmt.Errorf("static: %q: %w", instrumentID, models.ErrNotFound)
	}
	return series, nil
}

// GetBenchmarkSeries returns the registered series for an index
func (p *StaticProvider) GetBenchmarkSeries(ctx context.Context, indexKey string) (models.PriceSeries, error) {
	series, ok := p.Benchmarks[indexKey]
	if !ok {
		return nil, fmt.Errorf("static: %q: %w", indexKey, models.ErrNotFound)
	}
	return series, nil
}

// GetBenchmarkStats returns the registered stats for an index
func (p *StaticProvider) GetBenchmarkStats(ctx context.Context, indexKey, period string) (*BenchmarkStats, error) {
	stats, ok := p.Stats[indexKey]
	if !ok {
		return nil, fmt.Errorf("static: %q: %w", indexKey, models.ErrNotFound)
	}
	stats.Period = period
	return &stats, nil
}

// GetRiskFreeRate returns the configured rate
func (p *StaticProvider) GetRiskFreeRate(ctx context.Context) (float64, error) {
	return p.RiskFreeRate, nil
}
