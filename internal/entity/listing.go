package entity

import "time"

// Listing mirrors the `listings` PostgreSQL table schema. A listing is never
// hard-deleted: when it disappears from the source it is deactivated instead,
// so its price history stays intact.
type Listing struct {
	ID          int64
	ExternalID  string
	Title       string
	Price       int64
	Area        float64
	Rooms       *int
	Floor       *int
	Street      string
	District    string
	Description string
	IsOwner     bool
	URL         string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PriceObservation is one historical price value for one listing. Rows are
// append-only: exactly one per distinct price the listing has been seen at.
// The external id is denormalized so the audit trail survives without a join.
type PriceObservation struct {
	ID         int64
	ListingID  int64
	ExternalID string
	Price      int64
	RecordedAt time.Time
}
