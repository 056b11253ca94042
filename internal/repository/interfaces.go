package repository

import (
	"context"
	"time"

	"github.com/yourusername/fund-compare/internal/models"
)

// NAVHistoryRepository defines the interface for persisted NAV observations
type NAVHistoryRepository interface {
	// UpsertBatch writes a batch of observations for an instrument,
	// replacing any existing value for the same date. Returns the number
	// of rows written.
	UpsertBatch(ctx context.Context, instrumentID string, points []models.PricePoint) (int64, error)

	// GetSeries retrieves the full stored series for an instrument sorted
	// ascending by date. Instruments with no stored rows fail with
	// models.ErrNotFound.
	GetSeries(ctx context.Context, instrumentID string) (models.PriceSeries, error)

	// GetSeriesRange retrieves stored observations within [start, end]
	GetSeriesRange(ctx context.Context, instrumentID string, start, end time.Time) (models.PriceSeries, error)

	// LatestObservation returns the date of the newest stored observation
	// for an instrument, or models.ErrNotFound when none exist
	LatestObservation(ctx context.Context, instrumentID string) (time.Time, error)

	// ListInstruments returns the distinct instrument IDs with stored rows
	ListInstruments(ctx context.Context) ([]string, error)
}
