package repository

import (
	"context"

	"github.com/user/property-monitor/internal/entity"
)

// ActivityRepository owns the append-only audit trail.
type ActivityRepository interface {
	// Append inserts one event.
	Append(ctx context.Context, message, eventType string) error
	// Recent returns up to limit events, newest first.
	Recent(ctx context.Context, limit int) ([]*entity.ActivityEvent, error)
}
