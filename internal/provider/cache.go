package provider

import (
	"fmt"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/fund-compare/internal/metrics"
	"github.com/yourusername/fund-compare/internal/models"
)

// Cache key kinds
const (
	keyKindSeries   = "series"
	keyKindBenchSrs = "benchmark_series"
	keyKindStats    = "benchmark_stats"
	keyKindRiskFree = "risk_free_rate"
)

// CacheKey identifies one cached provider response
type CacheKey struct {
	Kind string
	Key  string
}

// String returns string representation of the cache key
func (k CacheKey) String() string {
	return fmt.Sprintf("%s:%s", k.Kind, k.Key)
}

// DataCache provides TTL-bound in-memory caching for provider responses.
// It is an implementation detail of the provider layer; the engine itself
// holds no state between calls.
type DataCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	mu        sync.RWMutex
	hitCount  uint64
	missCount uint64
}

// NewDataCache creates a new provider data cache
func NewDataCache(ttl time.Duration) *DataCache {
	return &DataCache{
		cache: cache.New(ttl, ttl*2),
		ttl:   ttl,
	}
}

// GetSeries retrieves a cached price series
func (dc *DataCache) GetSeries(key CacheKey) (models.PriceSeries, bool) {
	value, found := dc.lookup(key)
	if !found {
		return nil, false
	}
	series, ok := value.(models.PriceSeries)
	return series, ok
}

// GetStats retrieves cached benchmark statistics
func (dc *DataCache) GetStats(key CacheKey) (*BenchmarkStats, bool) {
	value, found := dc.lookup(key)
	if !found {
		return nil, false
	}
	stats, ok := value.(*BenchmarkStats)
	return stats, ok
}

// GetRate retrieves a cached rate value
func (dc *DataCache) GetRate(key CacheKey) (float64, bool) {
	value, found := dc.lookup(key)
	if !found {
		return 0, false
	}
	rate, ok := value.(float64)
	return rate, ok
}

// Set stores a provider response under the key for the configured TTL
func (dc *DataCache) Set(key CacheKey, value interface{}) {
	dc.cache.Set(key.String(), value, dc.ttl)
}

// Clear flushes the entire cache
func (dc *DataCache) Clear() {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	dc.cache.Flush()
	dc.hitCount = 0
	dc.missCount = 0
}

// ItemCount returns the number of cached entries
func (dc *DataCache) ItemCount() int {
	return dc.cache.ItemCount()
}

// Stats returns cache hit/miss statistics
func (dc *DataCache) Stats() (hits, misses uint64, ratio float64) {
	dc.mu.RLock()
	defer dc.mu.RUnlock()

	hits = dc.hitCount
	misses = dc.missCount
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

func (dc *DataCache) lookup(key CacheKey) (interface{}, bool) {
	value, found := dc.cache.Get(key.String())

	dc.mu.Lock()
	if found {
		dc.hitCount++
	} else {
		dc.missCount++
	}
	dc.mu.Unlock()

	_, _, ratio := dc.Stats()
	metrics.ProviderCacheHitRatio.Set(ratio)
	return value, found
}
