package database

import (
	"context"
	"fmt"

	"github.com/yourusername/fund-compare/internal/config"
)

const navHistorySchema = `
CREATE TABLE IF NOT EXISTS nav_history (
	instrument_id TEXT        NOT NULL,
	observed_on   DATE        NOT NULL,
	nav           NUMERIC(18,6) NOT NULL CHECK (nav > 0),
	synced_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (instrument_id, observed_on)
);
CREATE INDEX IF NOT EXISTS idx_nav_history_instrument
	ON nav_history (instrument_id, observed_on DESC);
`

// Initialize creates a database connection pool and ensures the NAV history
// schema exists.
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if _, err := db.pool.Exec(ctx, navHistorySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure nav_history schema: %w", err)
	}

	return db, nil
}
