package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS listings (
		id BIGSERIAL PRIMARY KEY,
		external_id TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		price BIGINT NOT NULL CHECK (price >= 0),
		area DOUBLE PRECISION NOT NULL DEFAULT 0,
		rooms INT,
		floor INT,
		street TEXT NOT NULL DEFAULT '',
		district TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		is_owner BOOLEAN NOT NULL DEFAULT FALSE,
		url TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_active ON listings (is_active)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_district ON listings (district)`,
	`CREATE TABLE IF NOT EXISTS price_observations (
		id BIGSERIAL PRIMARY KEY,
		listing_id BIGINT NOT NULL REFERENCES listings (id),
		external_id TEXT NOT NULL,
		price BIGINT NOT NULL,
		recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_price_observations_external_id ON price_observations (external_id)`,
	`CREATE TABLE IF NOT EXISTS street_district_map (
		street TEXT PRIMARY KEY,
		district TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS crawl_state (
		id INT PRIMARY KEY,
		status TEXT NOT NULL DEFAULT 'idle',
		last_page INT NOT NULL DEFAULT 0,
		last_page_url TEXT NOT NULL DEFAULT '',
		last_external_id TEXT NOT NULL DEFAULT '',
		total_processed BIGINT NOT NULL DEFAULT 0,
		last_run_at TIMESTAMPTZ
	)`,
	`INSERT INTO crawl_state (id, status) VALUES (1, 'idle') ON CONFLICT (id) DO NOTHING`,
	`CREATE TABLE IF NOT EXISTS activity_log (
		id BIGSERIAL PRIMARY KEY,
		message TEXT NOT NULL,
		event_type TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// EnsureSchema creates all tables on first startup and guarantees the
// singleton crawl-state row exists.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
