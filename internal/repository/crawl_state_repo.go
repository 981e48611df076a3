package repository

import (
	"context"

	"github.com/user/property-monitor/internal/entity"
)

// CrawlCursor is the resumable position written after each processed page.
type CrawlCursor struct {
	Page           int
	PageURL        string
	LastExternalID string
	TotalProcessed int64
}

// CrawlStateRepository owns the singleton crawl-state record. The record is
// a dumb cursor; transition legality beyond TransitionToRunning is enforced
// by the orchestrator, its sole writer.
type CrawlStateRepository interface {
	// Load returns the current state. The record always exists.
	Load(ctx context.Context) (*entity.CrawlState, error)
	// TransitionToRunning atomically moves the state to running and returns
	// the state as it was before the transition, so the caller can resume
	// from the preserved cursor. Fails with ErrAlreadyRunning when the state
	// is already running.
	TransitionToRunning(ctx context.Context) (*entity.CrawlState, error)
	// SetStatus writes a new status without touching the cursor.
	SetStatus(ctx context.Context, status entity.CrawlStatus) error
	// Advance writes the cursor fields and stamps the last-run time.
	Advance(ctx context.Context, cur CrawlCursor) error
}
