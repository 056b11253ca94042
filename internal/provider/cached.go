package provider

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/fund-compare/internal/models"
)

// CachedProvider decorates another Provider with TTL caching. Upstream
// failures are never cached; a missing entry always results in one fresh
// fetch surfaced as-is.
type CachedProvider struct {
	upstream Provider
	cache    *DataCache
	logger   *logrus.Logger
}

// NewCachedProvider creates a caching decorator around a provider
func NewCachedProvider(upstream Provider, ttl time.Duration, logger *logrus.Logger) *CachedProvider {
	return &CachedProvider{
		upstream: upstream,
		cache:    NewDataCache(ttl),
		logger:   logger,
	}
}

// GetSeries retrieves an instrument series with caching
func (p *CachedProvider) GetSeries(ctx context.Context, instrumentID string) (models.PriceSeries, error) {
	key := CacheKey{Kind: keyKindSeries, Key: instrumentID}
	if series, ok := p.cache.GetSeries(key); ok {
		p.logger.WithField("cache_key", key.String()).Debug("Cache hit for series")
		return series, nil
	}

	series, err := p.upstream.GetSeries(ctx, instrumentID)
	if err != nil {
		return nil, err
	}
	p.cache.Set(key, series)
	return series, nil
}

// GetBenchmarkSeries retrieves a benchmark series with caching
func (p *CachedProvider) GetBenchmarkSeries(ctx context.Context, indexKey string) (models.PriceSeries, error) {
	key := CacheKey{Kind: keyKindBenchSrs, Key: indexKey}
	if series, ok := p.cache.GetSeries(key); ok {
		p.logger.WithField("cache_key", key.String()).Debug("Cache hit for benchmark series")
		return series, nil
	}

	series, err := p.upstream.GetBenchmarkSeries(ctx, indexKey)
	if err != nil {
		return nil, err
	}
	p.cache.Set(key, series)
	return series, nil
}

// GetBenchmarkStats retrieves benchmark statistics with caching
func (p *CachedProvider) GetBenchmarkStats(ctx context.Context, indexKey, period string) (*BenchmarkStats, error) {
	key := CacheKey{Kind: keyKindStats, Key: indexKey + ":" + period}
	if stats, ok := p.cache.GetStats(key); ok {
		return stats, nil
	}

	stats, err := p.upstream.GetBenchmarkStats(ctx, indexKey, period)
	if err != nil {
		return nil, err
	}
	p.cache.Set(key, stats)
	return stats, nil
}

// GetRiskFreeRate retrieves the risk-free rate with caching
func (p *CachedProvider) GetRiskFreeRate(ctx context.Context) (float64, error) {
	key := CacheKey{Kind: keyKindRiskFree, Key: "current"}
	if rate, ok := p.cache.GetRate(key); ok {
		return rate, nil
	}

	rate, err := p.upstream.GetRiskFreeRate(ctx)
	if err != nil {
		return 0, err
	}
	p.cache.Set(key, rate)
	return rate, nil
}

// Cache exposes the underlying cache for stats and warmup jobs
func (p *CachedProvider) Cache() *DataCache {
	return p.cache
}
