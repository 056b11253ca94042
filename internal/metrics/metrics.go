// Package metrics provides the centralized Prometheus registry for the
// fund comparison service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	ComparisonsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fund_compare",
		Name:      "comparisons_total",
		Help:      "Total number of comparison requests by outcome",
	}, []string{"outcome"})
	SimulationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fund_compare",
		Name:      "simulations_total",
		Help:      "Total number of investment simulations by mode",
	}, []string{"mode"})
	ProviderRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fund_compare",
		Name:      "provider_requests_total",
		Help:      "Total number of upstream provider requests by provider and result",
	}, []string{"provider", "result"})
	BenchmarkDegradationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fund_compare",
		Name:      "benchmark_degradations_total",
		Help:      "Comparisons that degraded to two-way after a benchmark failure",
	})
	NAVSyncRowsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fund_compare",
		Name:      "nav_sync_rows_total",
		Help:      "Total NAV observations upserted by the sync job",
	})
)

// Gauge metrics
var (
	ProviderCacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fund_compare",
		Name:      "provider_cache_hit_ratio",
		Help:      "Hit ratio of the provider response cache",
	})
	RiskFreeRatePct = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fund_compare",
		Name:      "risk_free_rate_pct",
		Help:      "Last observed risk-free rate in percent",
	})
)

// Histogram metrics
var (
	ComparisonDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "fund_compare",
		Name:      "comparison_duration_seconds",
		Help:      "End-to-end duration of comparison requests in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	NAVSyncDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "fund_compare",
		Name:      "nav_sync_duration_seconds",
		Help:      "Duration of NAV sync runs in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(ComparisonsTotal)
		registry.MustRegister(SimulationsTotal)
		registry.MustRegister(ProviderRequestsTotal)
		registry.MustRegister(BenchmarkDegradationsTotal)
		registry.MustRegister(NAVSyncRowsTotal)

		registry.MustRegister(ProviderCacheHitRatio)
		registry.MustRegister(RiskFreeRatePct)

		registry.MustRegister(ComparisonDuration)
		registry.MustRegister(NAVSyncDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordComparison records a comparison outcome and duration.
func RecordComparison(outcome string, durationSeconds float64) {
	ComparisonsTotal.WithLabelValues(outcome).Inc()
	ComparisonDuration.Observe(durationSeconds)
}

// RecordSimulation records one simulated leg by investment mode.
func RecordSimulation(mode string) {
	SimulationsTotal.WithLabelValues(mode).Inc()
}

// RecordBenchmarkDegradation records a comparison that lost its benchmark leg.
func RecordBenchmarkDegradation() {
	BenchmarkDegradationsTotal.Inc()
}

// UpdateRiskFreeRate updates the risk-free rate gauge.
func UpdateRiskFreeRate(pct float64) {
	RiskFreeRatePct.Set(pct)
}
