package repository

import "context"

// SeenRepository tracks which external ids were observed during one crawl
// cycle, keyed by cycle id. The set backs the deactivation policy: after a
// full crawl completes, active listings missing from the set are deactivated.
type SeenRepository interface {
	// MarkSeen records an external id for a cycle.
	MarkSeen(ctx context.Context, cycleID, externalID string) error
	// SeenIDs returns every external id recorded for a cycle.
	SeenIDs(ctx context.Context, cycleID string) ([]string, error)
	// Clear drops a cycle's set once it has been consumed.
	Clear(ctx context.Context, cycleID string) error
}
