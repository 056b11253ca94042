package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/fund-compare/internal/database"
	"github.com/yourusername/fund-compare/internal/models"
)

const errScanObservation = "failed to scan nav observation: %w"

// PostgresNAVHistoryRepository implements NAVHistoryRepository for PostgreSQL
type PostgresNAVHistoryRepository struct {
	db *database.DB
}

// NewPostgresNAVHistoryRepository creates a new NAV history repository
func NewPostgresNAVHistoryRepository(db *database.DB) NAVHistoryRepository {
	return &PostgresNAVHistoryRepository{db: db}
}

// UpsertBatch writes a batch of observations inside a single transaction
func (r *PostgresNAVHistoryRepository) UpsertBatch(ctx context.Context, instrumentID string, points []models.PricePoint) (int64, error) {
	if len(points) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO nav_history (instrument_id, observed_on, nav, synced_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (instrument_id, observed_on)
		DO UPDATE SET nav = EXCLUDED.nav, synced_at = EXCLUDED.synced_at
	`

	batch := &pgx.Batch{}
	for _, p := range points {
		batch.Queue(query, instrumentID, p.Date, p.Price)
	}

	results := r.db.GetPool().SendBatch(ctx, batch)
	defer results.Close()

	var written int64
	for range points {
		tag, err := results.Exec()
		if err != nil {
			return written, fmt.Errorf("failed to upsert nav observations: %w", err)
		}
		written += tag.RowsAffected()
	}

	return written, nil
}

// GetSeries retrieves the full stored series for an instrument
func (r *PostgresNAVHistoryRepository) GetSeries(ctx context.Context, instrumentID string) (models.PriceSeries, error) {
	query := `
		SELECT observed_on, nav
		FROM nav_history
		WHERE instrument_id = $1
		ORDER BY observed_on ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, instrumentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query nav history: %w", err)
	}
	defer rows.Close()

	series, err := scanSeries(rows)
	if err != nil {
		return nil, err
	}
	if series.IsEmpty() {
		return nil, fmt.Errorf("no nav history for %q: %w", instrumentID, models.ErrNotFound)
	}

	return series, nil
}

// GetSeriesRange retrieves stored observations within [start, end]
func (r *PostgresNAVHistoryRepository) GetSeriesRange(ctx context.Context, instrumentID string, start, end time.Time) (models.PriceSeries, error) {
	query := `
		SELECT observed_on, nav
		FROM nav_history
		WHERE instrument_id = $1 AND observed_on >= $2 AND observed_on <= $3
		ORDER BY observed_on ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, instrumentID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query nav history range: %w", err)
	}
	defer rows.Close()

	return scanSeries(rows)
}

// LatestObservation returns the newest stored observation date
func (r *PostgresNAVHistoryRepository) LatestObservation(ctx context.Context, instrumentID string) (time.Time, error) {
	query := `
		SELECT observed_on
		FROM nav_history
		WHERE instrument_id = $1
		ORDER BY observed_on DESC
		LIMIT 1
	`

	var observed time.Time
	err := r.db.GetPool().QueryRow(ctx, query, instrumentID).Scan(&observed)
	if err == pgx.ErrNoRows {
		return time.Time{}, models.ErrNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get latest nav observation: %w", err)
	}

	return observed, nil
}

// ListInstruments returns the distinct instrument IDs with stored rows
func (r *PostgresNAVHistoryRepository) ListInstruments(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT instrument_id FROM nav_history ORDER BY instrument_id`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list instruments: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan instrument id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate instruments: %w", err)
	}

	return ids, nil
}

func scanSeries(rows pgx.Rows) (models.PriceSeries, error) {
	var series models.PriceSeries
	for rows.Next() {
		var point models.PricePoint
		if err := rows.Scan(&point.Date, &point.Price); err != nil {
			return nil, fmt.Errorf(errScanObservation, err)
		}
		series = append(series, point)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate nav history: %w", err)
	}
	return series, nil
}
