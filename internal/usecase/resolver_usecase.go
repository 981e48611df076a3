package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/user/property-monitor/internal/entity"
	"github.com/user/property-monitor/internal/repository"
)

// UnknownDistrict is the sentinel returned when a street is absent or has no
// mapping. It is never persisted as a mapping fact.
const UnknownDistrict = "Невідомий"

// DistrictResolver maps street names to districts.
type DistrictResolver interface {
	// Resolve returns the district for a street. Absent or unmapped streets
	// resolve to UnknownDistrict; nothing is ever auto-inserted.
	Resolve(ctx context.Context, street string) (string, error)
	// AddMapping records a new street fact. It is idempotent for an identical
	// pair and fails with ErrConflict when the street is already mapped to a
	// different district.
	AddMapping(ctx context.Context, street, district string) error
	// ListMappings returns all mappings ordered by district, then street.
	ListMappings(ctx context.Context) ([]entity.StreetMapping, error)
	// SeedDefaults loads the base mapping set, keeping any existing facts.
	SeedDefaults(ctx context.Context) error
}

type districtResolver struct {
	districtRepo repository.DistrictRepository
}

// NewDistrictResolver creates a new resolver use case.
func NewDistrictResolver(districtRepo repository.DistrictRepository) DistrictResolver {
	return &districtResolver{districtRepo: districtRepo}
}

func (r *districtResolver) Resolve(ctx context.Context, street string) (string, error) {
	if street == "" {
		return UnknownDistrict, nil
	}

	district, err := r.districtRepo.Find(ctx, street)
	if errors.Is(err, repository.ErrNotFound) {
		return UnknownDistrict, nil
	}
	if err != nil {
		return UnknownDistrict, fmt.Errorf("resolve street %q: %w", street, err)
	}
	return district, nil
}

func (r *districtResolver) AddMapping(ctx context.Context, street, district string) error {
	if street == "" || district == "" {
		return fmt.Errorf("%w: street and district must be non-empty", repository.ErrConflict)
	}
	return r.districtRepo.Add(ctx, street, district)
}

func (r *districtResolver) ListMappings(ctx context.Context) ([]entity.StreetMapping, error) {
	mappings, err := r.districtRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(mappings, func(i, j int) bool {
		if mappings[i].District == mappings[j].District {
			return mappings[i].Street < mappings[j].Street
		}
		return mappings[i].District < mappings[j].District
	})
	return mappings, nil
}

func (r *districtResolver) SeedDefaults(ctx context.Context) error {
	for street, district := range defaultStreetDistricts {
		err := r.districtRepo.Add(ctx, street, district)
		if errors.Is(err, repository.ErrConflict) {
			// An operator already remapped this street; their fact wins.
			slog.Warn("Skipping seed mapping for remapped street", "street", street, "seed_district", district)
			continue
		}
		if err != nil {
			return fmt.Errorf("seed street mappings: %w", err)
		}
	}
	return nil
}
