package entity

import "time"

// ActivityEvent is one timestamped entry in the pipeline's audit trail.
type ActivityEvent struct {
	ID        int64
	Message   string
	Type      string
	CreatedAt time.Time
}
