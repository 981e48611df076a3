package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/property-monitor/internal/entity"
	"github.com/user/property-monitor/internal/repository"
)

// ActivityRepoImpl provides a concrete implementation for the ActivityRepository interface using PostgreSQL.
type ActivityRepoImpl struct {
	db *pgxpool.Pool
}

// NewActivityRepo creates a new instance of ActivityRepoImpl.
func NewActivityRepo(db *pgxpool.Pool) *ActivityRepoImpl {
	return &ActivityRepoImpl{db: db}
}

// Append inserts one event into the audit trail.
func (r *ActivityRepoImpl) Append(ctx context.Context, message, eventType string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO activity_log (message, event_type) VALUES ($1, $2)`, message, eventType)
	if err != nil {
		return fmt.Errorf("%w: append activity event: %w", repository.ErrStorage, err)
	}
	return nil
}

// Recent returns up to limit events, newest first.
func (r *ActivityRepoImpl) Recent(ctx context.Context, limit int) ([]*entity.ActivityEvent, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, message, event_type, created_at FROM activity_log
		 ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: query activity log: %w", repository.ErrStorage, err)
	}
	defer rows.Close()

	var events []*entity.ActivityEvent
	for rows.Next() {
		var e entity.ActivityEvent
		if err := rows.Scan(&e.ID, &e.Message, &e.Type, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan activity event: %w", repository.ErrStorage, err)
		}
		events = append(events, &e)
	}
	return events, rows.Err()
}
