package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/fund-compare/internal/metrics"
	"github.com/yourusername/fund-compare/internal/models"
	"github.com/yourusername/fund-compare/internal/provider"
	"github.com/yourusername/fund-compare/internal/repository"
)

// NAVSyncService mirrors upstream NAV histories into local storage so
// comparisons can run against the database instead of the provider.
type NAVSyncService struct {
	provider provider.SeriesProvider
	repo     repository.NAVHistoryRepository
	log      *logrus.Entry
}

// SyncReport summarizes one sync run
type SyncReport struct {
	Instruments int
	RowsWritten int64
	Failures    int
	Duration    time.Duration
}

// NewNAVSyncService creates a new NAV sync service
func NewNAVSyncService(p provider.SeriesProvider, repo repository.NAVHistoryRepository, baseLogger *logrus.Logger) *NAVSyncService {
	return &NAVSyncService{
		provider: p,
		repo:     repo,
		log:      baseLogger.WithField("component", "navsync"),
	}
}

// SyncInstrument fetches the upstream history for one instrument and
// upserts it. Observations already stored are refreshed rather than
// duplicated.
func (s *NAVSyncService) SyncInstrument(ctx context.Context, instrumentID string) (int64, error) {
	series, err := s.provider.GetSeries(ctx, instrumentID)
	if err != nil {
		return 0, fmt.Errorf("fetching nav history for %q: %w", instrumentID, err)
	}

	written, err := s.repo.UpsertBatch(ctx, instrumentID, series)
	if err != nil {
		return written, fmt.Errorf("storing nav history for %q: %w", instrumentID, err)
	}

	metrics.NAVSyncRowsTotal.Add(float64(written))
	s.log.WithFields(logrus.Fields{
		"instrument_id": instrumentID,
		"observations":  len(series),
		"rows_written":  written,
	}).Info("NAV history synced")

	return written, nil
}

// SyncAll syncs every configured instrument, continuing past individual
// failures. The returned error is non-nil only when every instrument
// failed.
func (s *NAVSyncService) SyncAll(ctx context.Context, instrumentIDs []string) (*SyncReport, error) {
	start := time.Now()
	report := &SyncReport{Instruments: len(instrumentIDs)}

	var lastErr error
	for _, id := range instrumentIDs {
		written, err := s.SyncInstrument(ctx, id)
		if err != nil {
			report.Failures++
			lastErr = err
			level := logrus.ErrorLevel
			if errors.Is(err, models.ErrNotFound) {
				level = logrus.WarnLevel
			}
			s.log.WithFields(logrus.Fields{
				"instrument_id": id,
				"error":         err,
			}).Log(level, "NAV sync failed for instrument")
			continue
		}
		report.RowsWritten += written
	}

	report.Duration = time.Since(start)
	metrics.NAVSyncDuration.Observe(report.Duration.Seconds())

	if report.Failures == len(instrumentIDs) && len(instrumentIDs) > 0 {
		return report, fmt.Errorf("all %d instruments failed to sync: %w", len(instrumentIDs), lastErr)
	}

	return report, nil
}
