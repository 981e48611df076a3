package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/user/property-monitor/internal/entity"
	"github.com/user/property-monitor/internal/notifier"
	"github.com/user/property-monitor/internal/repository"
	"github.com/user/property-monitor/pkg/metrics"
)

// OrchestratorConfig carries the crawl pacing knobs.
type OrchestratorConfig struct {
	// FetchTimeout bounds a single page fetch.
	FetchTimeout time.Duration
	// PageDelay spaces consecutive page fetches.
	PageDelay time.Duration
	// MaxPagesPerCycle caps one cycle; 0 means unlimited. A capped cycle
	// parks as idle with the cursor kept, so the next start resumes.
	MaxPagesPerCycle int
}

// Orchestrator drives crawl cycles over the external listing source.
type Orchestrator interface {
	// Start begins a background crawl cycle resuming from the persisted
	// cursor. Fails with ErrAlreadyRunning while a cycle is in flight.
	Start(ctx context.Context) error
	// Stop requests a cooperative stop. The running cycle parks as stopped
	// at the next page boundary, preserving the cursor. Calling Stop with no
	// cycle running is a no-op.
	Stop(ctx context.Context) error
	// Status returns the persisted crawl state.
	Status(ctx context.Context) (*entity.CrawlState, error)
	// RecoverStale repairs a status left at running by a crashed process, so
	// a restart can start a new cycle. Call once at startup, before Start.
	RecoverStale(ctx context.Context) error
}

type ingestOrchestrator struct {
	property  PropertyStore
	stateRepo repository.CrawlStateRepository
	fetcher   repository.Fetcher
	seenRepo  repository.SeenRepository
	activity  ActivityLog
	hub       *notifier.Hub
	cfg       OrchestratorConfig

	running       atomic.Bool
	stopRequested atomic.Bool
}

// NewOrchestrator creates the ingestion orchestrator use case.
func NewOrchestrator(
	property PropertyStore,
	stateRepo repository.CrawlStateRepository,
	fetcher repository.Fetcher,
	seenRepo repository.SeenRepository,
	activity ActivityLog,
	hub *notifier.Hub,
	cfg OrchestratorConfig,
) Orchestrator {
	return &ingestOrchestrator{
		property:  property,
		stateRepo: stateRepo,
		fetcher:   fetcher,
		seenRepo:  seenRepo,
		activity:  activity,
		hub:       hub,
		cfg:       cfg,
	}
}

func (o *ingestOrchestrator) Start(ctx context.Context) error {
	state, err := o.stateRepo.TransitionToRunning(ctx)
	if err != nil {
		return err
	}
	o.stopRequested.Store(false)
	o.running.Store(true)

	o.activity.Record(ctx, fmt.Sprintf("Crawl started, resuming after page %d", state.LastPage), "crawl")
	o.broadcastStatus(entity.CrawlStatusRunning)

	// The cycle outlives the request that started it.
	go o.runCycle(context.Background(), state)
	return nil
}

func (o *ingestOrchestrator) Stop(ctx context.Context) error {
	if !o.running.Load() {
		return nil
	}
	o.stopRequested.Store(true)
	o.activity.Record(ctx, "Crawl stop requested", "crawl")
	return nil
}

func (o *ingestOrchestrator) Status(ctx context.Context) (*entity.CrawlState, error) {
	return o.stateRepo.Load(ctx)
}

func (o *ingestOrchestrator) RecoverStale(ctx context.Context) error {
	state, err := o.stateRepo.Load(ctx)
	if err != nil {
		return err
	}
	if state.Status != entity.CrawlStatusRunning {
		return nil
	}
	// A persisted running status with no live cycle means the previous
	// process died mid-crawl. Park as error; the cursor is still good.
	if err := o.stateRepo.SetStatus(ctx, entity.CrawlStatusError); err != nil {
		return err
	}
	o.activity.Record(ctx, "Recovered interrupted crawl, cursor preserved", "crawl")
	return nil
}

func (o *ingestOrchestrator) runCycle(ctx context.Context, state *entity.CrawlState) {
	defer o.running.Store(false)

	startedAt := time.Now()
	defer func() {
		if metrics.CrawlCycleDuration != nil {
			metrics.CrawlCycleDuration.Observe(time.Since(startedAt).Seconds())
		}
	}()

	cycleID := uuid.NewString()
	firstPage := state.LastPage + 1
	page := firstPage
	total := state.TotalProcessed
	lastID := state.LastExternalID
	var newCount, changedCount int64

	for {
		if o.stopRequested.Load() {
			o.finish(ctx, entity.CrawlStatusStopped,
				fmt.Sprintf("Crawl stopped at page %d, %d listings processed this cycle", page-1, total-state.TotalProcessed))
			return
		}

		fetchCtx, cancel := context.WithTimeout(ctx, o.cfg.FetchTimeout)
		pg, err := o.fetcher.FetchPage(fetchCtx, page)
		cancel()
		if err != nil {
			countPage("failure")
			slog.Error("Fetch failed, ending crawl cycle", "page", page, "error", err)
			o.finish(ctx, entity.CrawlStatusError, fmt.Sprintf("Crawl failed on page %d: %v", page, err))
			return
		}
		countPage("success")

		for _, raw := range pg.Listings {
			outcome, err := o.property.Upsert(ctx, raw)
			if err != nil {
				// One broken listing must not sink the page.
				slog.Error("Upsert failed, skipping listing", "external_id", raw.ExternalID, "error", err)
				continue
			}
			total++
			lastID = raw.ExternalID
			if err := o.seenRepo.MarkSeen(ctx, cycleID, raw.ExternalID); err != nil {
				slog.Warn("Failed to mark listing as seen", "external_id", raw.ExternalID, "error", err)
			}
			if outcome.PriceChanged {
				changedCount++
				o.emitPriceChange(ctx, outcome)
			} else if outcome.Listing.CreatedAt.Equal(outcome.Listing.UpdatedAt) {
				newCount++
			}
		}

		if err := o.stateRepo.Advance(ctx, repository.CrawlCursor{
			Page:           page,
			PageURL:        pg.URL,
			LastExternalID: lastID,
			TotalProcessed: total,
		}); err != nil {
			slog.Error("Failed to advance crawl cursor, ending cycle", "page", page, "error", err)
			o.finish(ctx, entity.CrawlStatusError, fmt.Sprintf("Crawl aborted on page %d: cursor write failed", page))
			return
		}

		slog.Info("Page processed", "page", page, "listings", len(pg.Listings), "price_changes", changedCount)

		if pg.NextPage == nil {
			o.completeCycle(ctx, cycleID, firstPage, page, lastID, total, newCount, changedCount)
			return
		}
		if o.cfg.MaxPagesPerCycle > 0 && page-firstPage+1 >= o.cfg.MaxPagesPerCycle {
			o.finish(ctx, entity.CrawlStatusIdle,
				fmt.Sprintf("Crawl parked after %d pages, cursor at page %d", o.cfg.MaxPagesPerCycle, page))
			return
		}
		page = *pg.NextPage

		if o.cfg.PageDelay > 0 {
			time.Sleep(o.cfg.PageDelay)
		}
	}
}

// completeCycle handles natural exhaustion of pages: the staleness policy runs
// only when the cycle covered the whole source from the first page, then the
// cursor is reset so the next run starts fresh.
func (o *ingestOrchestrator) completeCycle(ctx context.Context, cycleID string, firstPage, lastPage int, lastID string, total, newCount, changedCount int64) {
	if firstPage == 1 {
		seenIDs, err := o.seenRepo.SeenIDs(ctx, cycleID)
		if err != nil {
			slog.Warn("Failed to read seen set, skipping deactivation", "error", err)
		} else if len(seenIDs) > 0 {
			gone, err := o.property.DeactivateMissing(ctx, seenIDs)
			if err != nil {
				slog.Warn("Failed to deactivate missing listings", "error", err)
			} else if gone > 0 {
				o.activity.Record(ctx, fmt.Sprintf("%d listings disappeared from the source and were deactivated", gone), "crawl")
			}
		}
	}
	if err := o.seenRepo.Clear(ctx, cycleID); err != nil {
		slog.Warn("Failed to clear seen set", "cycle_id", cycleID, "error", err)
	}

	if err := o.stateRepo.Advance(ctx, repository.CrawlCursor{
		Page:           0,
		PageURL:        "",
		LastExternalID: lastID,
		TotalProcessed: total,
	}); err != nil {
		slog.Error("Failed to reset crawl cursor", "error", err)
	}
	o.finish(ctx, entity.CrawlStatusIdle,
		fmt.Sprintf("Crawl cycle %s completed: pages %d-%d, %d new, %d price changes",
			cycleID, firstPage, lastPage, newCount, changedCount))
}

func (o *ingestOrchestrator) finish(ctx context.Context, status entity.CrawlStatus, message string) {
	if err := o.stateRepo.SetStatus(ctx, status); err != nil {
		slog.Error("Failed to persist crawl status", "status", status, "error", err)
	}
	o.activity.Record(ctx, message, "crawl")
	o.broadcastStatus(status)
}

func (o *ingestOrchestrator) emitPriceChange(ctx context.Context, outcome *repository.UpsertOutcome) {
	l := outcome.Listing
	o.activity.Record(ctx,
		fmt.Sprintf("Price change for %s (%s): %d -> %d", l.ExternalID, l.Title, outcome.PreviousPrice, l.Price),
		"price_change")
	o.hub.Broadcast(notifier.NewEvent("price_change", map[string]any{
		"external_id": l.ExternalID,
		"title":       l.Title,
		"district":    l.District,
		"old_price":   outcome.PreviousPrice,
		"new_price":   l.Price,
		"url":         l.URL,
	}))
}

func (o *ingestOrchestrator) broadcastStatus(status entity.CrawlStatus) {
	o.hub.Broadcast(notifier.NewEvent("crawl_status", map[string]any{"status": string(status)}))
}

func countPage(status string) {
	if metrics.CrawlPagesTotal != nil {
		metrics.CrawlPagesTotal.WithLabelValues(status).Inc()
	}
}
