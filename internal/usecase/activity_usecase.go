package usecase

import (
	"context"
	"log/slog"

	"github.com/user/property-monitor/internal/entity"
	"github.com/user/property-monitor/internal/repository"
)

// ActivityLog records pipeline actions for the UI and debugging. Recording is
// fire-and-forget: a logging failure must never abort the operation that
// triggered it.
type ActivityLog interface {
	Record(ctx context.Context, message, eventType string)
	Recent(ctx context.Context, limit int) ([]*entity.ActivityEvent, error)
}

type activityLog struct {
	activityRepo repository.ActivityRepository
}

// NewActivityLog creates a new activity log use case.
func NewActivityLog(activityRepo repository.ActivityRepository) ActivityLog {
	return &activityLog{activityRepo: activityRepo}
}

// Record appends one event. Failures are surfaced on the diagnostic log only.
func (a *activityLog) Record(ctx context.Context, message, eventType string) {
	if err := a.activityRepo.Append(ctx, message, eventType); err != nil {
		slog.Warn("Failed to record activity event", "type", eventType, "message", message, "error", err)
	}
}

func (a *activityLog) Recent(ctx context.Context, limit int) ([]*entity.ActivityEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	return a.activityRepo.Recent(ctx, limit)
}
