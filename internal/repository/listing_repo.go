package repository

import (
	"context"

	"github.com/user/property-monitor/internal/entity"
)

// ListingUpsert carries the resolved fields for one upsert call. District is
// already resolved by the caller; the repository never guesses one.
type ListingUpsert struct {
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
}

// UpsertOutcome reports what an upsert did. PreviousPrice is only meaningful
// when PriceChanged is true.
type UpsertOutcome struct {
	Listing       *entity.Listing
	PriceChanged  bool
	PreviousPrice int64
}

// ListingRepository owns listing and price-observation persistence.
type ListingRepository interface {
	// Upsert inserts a new listing or updates the existing one with the same
	// external id, inside a single transaction. A price observation is written
	// on first sighting and on every price change, never on a no-op upsert.
	Upsert(ctx context.Context, u ListingUpsert) (*UpsertOutcome, error)
	// FindActive returns active listings, newest created first.
	FindActive(ctx context.Context) ([]*entity.Listing, error)
	// FindByExternalID returns the listing with the given external id, or
	// ErrNotFound.
	FindByExternalID(ctx context.Context, externalID string) (*entity.Listing, error)
	// Deactivate clears the active flag. History is kept.
	Deactivate(ctx context.Context, externalID string) error
	// DeactivateMissing deactivates every active listing whose external id is
	// not in seenIDs and returns how many were affected.
	DeactivateMissing(ctx context.Context, seenIDs []string) (int64, error)
	// PriceHistory returns all observations for an external id, oldest first.
	PriceHistory(ctx context.Context, externalID string) ([]*entity.PriceObservation, error)
	// Stats summarizes the active inventory.
	Stats(ctx context.Context) (*entity.Stats, error)
	// StatsByDistrict returns the per-district rollup ordered by count
	// descending, ties broken by district name ascending.
	StatsByDistrict(ctx context.Context) ([]*entity.DistrictStats, error)
}
