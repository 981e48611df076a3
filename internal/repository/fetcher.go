package repository

import (
	"context"

	"github.com/user/property-monitor/internal/entity"
)

// Fetcher is the boundary to the external listing source. Implementations
// return errors wrapping ErrTransport on any fetch or parse failure; the
// orchestrator treats a timeout the same as any other failure and does not
// retry within a cycle.
type Fetcher interface {
	FetchPage(ctx context.Context, page int) (*entity.ListingPage, error)
}
