package repository

import (
	"context"

	"github.com/user/property-monitor/internal/entity"
)

// DistrictRepository owns the street-to-district mapping facts.
type DistrictRepository interface {
	// Find returns the district mapped to a street, or ErrNotFound.
	Find(ctx context.Context, street string) (string, error)
	// Add inserts a new mapping. It succeeds idempotently when the identical
	// pair already exists and fails with ErrConflict when the street is
	// mapped to a different district.
	Add(ctx context.Context, street, district string) error
	// List returns all mappings; callers must not assume any order.
	List(ctx context.Context) ([]entity.StreetMapping, error)
}
