package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/property-monitor/internal/entity"
	"github.com/user/property-monitor/internal/repository"
)

// crawlStateID pins the singleton row; the record is only ever reached
// through this repository.
const crawlStateID = 1

// CrawlStateRepoImpl provides a concrete implementation for the CrawlStateRepository interface using PostgreSQL.
type CrawlStateRepoImpl struct {
	db *pgxpool.Pool
}

// NewCrawlStateRepo creates a new instance of CrawlStateRepoImpl.
func NewCrawlStateRepo(db *pgxpool.Pool) *CrawlStateRepoImpl {
	return &CrawlStateRepoImpl{db: db}
}

// Load returns the current crawl state.
func (r *CrawlStateRepoImpl) Load(ctx context.Context) (*entity.CrawlState, error) {
	var s entity.CrawlState
	err := r.db.QueryRow(ctx,
		`SELECT status, last_page, last_page_url, last_external_id, total_processed, last_run_at
		 FROM crawl_state WHERE id = $1`, crawlStateID,
	).Scan(&s.Status, &s.LastPage, &s.LastPageURL, &s.LastExternalID, &s.TotalProcessed, &s.LastRunAt)
	if err != nil {
		return nil, fmt.Errorf("%w: load crawl state: %w", repository.ErrStorage, err)
	}
	return &s, nil
}

// TransitionToRunning performs the idle/stopped/error -> running transition as
// a single compare-and-set. The cursor fields are untouched by the update, so
// the returned state carries the preserved resume position. Fails with
// ErrAlreadyRunning when the guard does not match.
func (r *CrawlStateRepoImpl) TransitionToRunning(ctx context.Context) (*entity.CrawlState, error) {
	var s entity.CrawlState
	err := r.db.QueryRow(ctx,
		`UPDATE crawl_state SET status = $2
		 WHERE id = $1 AND status <> $2
		 RETURNING status, last_page, last_page_url, last_external_id, total_processed, last_run_at`,
		crawlStateID, entity.CrawlStatusRunning,
	).Scan(&s.Status, &s.LastPage, &s.LastPageURL, &s.LastExternalID, &s.TotalProcessed, &s.LastRunAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrAlreadyRunning
	}
	if err != nil {
		return nil, fmt.Errorf("%w: transition crawl state to running: %w", repository.ErrStorage, err)
	}
	return &s, nil
}

// SetStatus writes a new status, leaving the cursor untouched.
func (r *CrawlStateRepoImpl) SetStatus(ctx context.Context, status entity.CrawlStatus) error {
	_, err := r.db.Exec(ctx,
		`UPDATE crawl_state SET status = $2 WHERE id = $1`, crawlStateID, status)
	if err != nil {
		return fmt.Errorf("%w: set crawl status %s: %w", repository.ErrStorage, status, err)
	}
	return nil
}

// Advance writes the cursor fields and stamps the last-run time.
func (r *CrawlStateRepoImpl) Advance(ctx context.Context, cur repository.CrawlCursor) error {
	_, err := r.db.Exec(ctx,
		`UPDATE crawl_state SET
			last_page = $2, last_page_url = $3, last_external_id = $4,
			total_processed = $5, last_run_at = NOW()
		 WHERE id = $1`,
		crawlStateID, cur.Page, cur.PageURL, cur.LastExternalID, cur.TotalProcessed)
	if err != nil {
		return fmt.Errorf("%w: advance crawl cursor: %w", repository.ErrStorage, err)
	}
	return nil
}
