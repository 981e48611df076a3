package usecase

import (
	"context"
	"fmt"

	"github.com/user/property-monitor/internal/entity"
	"github.com/user/property-monitor/internal/repository"
	"github.com/user/property-monitor/pkg/metrics"
)

// PropertyStore is the canonical listing catalog: upsert-by-external-id with
// district resolution and price-change tracking, plus the read side consumed
// by the API and the analytics service.
type PropertyStore interface {
	// Upsert resolves the district for the raw record and inserts or updates
	// the listing. The returned outcome reports whether the price changed.
	Upsert(ctx context.Context, raw entity.RawListing) (*repository.UpsertOutcome, error)
	// GetActive returns active listings, newest created first.
	GetActive(ctx context.Context) ([]*entity.Listing, error)
	// GetByExternalID returns one listing or ErrNotFound.
	GetByExternalID(ctx context.Context, externalID string) (*entity.Listing, error)
	// Deactivate clears a listing's active flag, keeping its history.
	Deactivate(ctx context.Context, externalID string) error
	// DeactivateMissing deactivates active listings absent from seenIDs.
	DeactivateMissing(ctx context.Context, seenIDs []string) (int64, error)
	// PriceHistory returns all price observations for a listing, oldest first.
	PriceHistory(ctx context.Context, externalID string) ([]*entity.PriceObservation, error)
	Stats(ctx context.Context) (*entity.Stats, error)
	StatsByDistrict(ctx context.Context) ([]*entity.DistrictStats, error)
}

type propertyStore struct {
	listingRepo repository.ListingRepository
	resolver    DistrictResolver
}

// NewPropertyStore creates a new property store use case.
func NewPropertyStore(listingRepo repository.ListingRepository, resolver DistrictResolver) PropertyStore {
	return &propertyStore{
		listingRepo: listingRepo,
		resolver:    resolver,
	}
}

func (s *propertyStore) Upsert(ctx context.Context, raw entity.RawListing) (*repository.UpsertOutcome, error) {
	if raw.ExternalID == "" {
		return nil, fmt.Errorf("upsert: external id is required")
	}
	if raw.Price < 0 {
		return nil, fmt.Errorf("upsert %s: price must be non-negative", raw.ExternalID)
	}

	district, err := s.resolver.Resolve(ctx, raw.Street)
	if err != nil {
		// The sentinel district is still usable; resolution failure must not
		// drop the listing.
		district = UnknownDistrict
	}

	outcome, err := s.listingRepo.Upsert(ctx, repository.ListingUpsert{
		ExternalID:  raw.ExternalID,
		Title:       raw.Title,
		Price:       raw.Price,
		Area:        raw.Area,
		Rooms:       raw.Rooms,
		Floor:       raw.Floor,
		Street:      raw.Street,
		District:    district,
		Description: raw.Description,
		IsOwner:     raw.IsOwner,
		URL:         raw.URL,
	})
	if err != nil {
		countUpsert("error")
		return nil, fmt.Errorf("upsert listing %s: %w", raw.ExternalID, err)
	}

	switch {
	case outcome.Listing.CreatedAt.Equal(outcome.Listing.UpdatedAt):
		countUpsert("created")
	case outcome.PriceChanged:
		countUpsert("updated")
		if metrics.PriceChangesTotal != nil {
			metrics.PriceChangesTotal.Inc()
		}
	default:
		countUpsert("unchanged")
	}
	return outcome, nil
}

func countUpsert(result string) {
	if metrics.ListingsUpsertedTotal != nil {
		metrics.ListingsUpsertedTotal.WithLabelValues(result).Inc()
	}
}

func (s *propertyStore) GetActive(ctx context.Context) ([]*entity.Listing, error) {
	return s.listingRepo.FindActive(ctx)
}

func (s *propertyStore) GetByExternalID(ctx context.Context, externalID string) (*entity.Listing, error) {
	return s.listingRepo.FindByExternalID(ctx, externalID)
}

func (s *propertyStore) Deactivate(ctx context.Context, externalID string) error {
	return s.listingRepo.Deactivate(ctx, externalID)
}

func (s *propertyStore) DeactivateMissing(ctx context.Context, seenIDs []string) (int64, error) {
	return s.listingRepo.DeactivateMissing(ctx, seenIDs)
}

func (s *propertyStore) PriceHistory(ctx context.Context, externalID string) ([]*entity.PriceObservation, error) {
	return s.listingRepo.PriceHistory(ctx, externalID)
}

func (s *propertyStore) Stats(ctx context.Context) (*entity.Stats, error) {
	return s.listingRepo.Stats(ctx)
}

func (s *propertyStore) StatsByDistrict(ctx context.Context) ([]*entity.DistrictStats, error) {
	return s.listingRepo.StatsByDistrict(ctx)
}
