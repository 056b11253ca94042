// Package logger provides comparison-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// ComparisonLogger provides dedicated logging for comparison operations.
type ComparisonLogger struct {
	*logrus.Entry
}

// NewComparisonLogger creates a new comparison logger.
func NewComparisonLogger(baseLogger *logrus.Logger) *ComparisonLogger {
	return &ComparisonLogger{
		Entry: baseLogger.WithField("component", "comparison"),
	}
}

// LogComparison logs a completed comparison run.
func (cl *ComparisonLogger) LogComparison(comparisonID, currentID, comparisonInstrumentID, mode, bestPerformer string, benchmarkPresent bool, durationMs float64) {
	cl.WithFields(logrus.Fields{
		"comparison_id":     comparisonID,
		"current":           currentID,
		"comparison":        comparisonInstrumentID,
		"mode":              mode,
		"best_performer":    bestPerformer,
		"benchmark_present": benchmarkPresent,
		"duration_ms":       durationMs,
	}).Info("Comparison completed")
}

// LogBenchmarkDegradation logs a comparison that lost its benchmark leg.
func (cl *ComparisonLogger) LogBenchmarkDegradation(indexKey string, cause error) {
	cl.WithFields(logrus.Fields{
		"index_key": indexKey,
		"error":     cause,
	}).Warn("Benchmark unavailable, degrading to two-way comparison")
}

// LogProviderFailure logs an upstream provider failure.
func (cl *ComparisonLogger) LogProviderFailure(instrumentID string, cause error) {
	cl.WithFields(logrus.Fields{
		"instrument_id": instrumentID,
		"error":         cause,
	}).Error("Provider fetch failed")
}
