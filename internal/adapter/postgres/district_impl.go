package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/property-monitor/internal/entity"
	"github.com/user/property-monitor/internal/repository"
)

// DistrictRepoImpl provides a concrete implementation for the DistrictRepository interface using PostgreSQL.
type DistrictRepoImpl struct {
	db *pgxpool.Pool
}

// NewDistrictRepo creates a new instance of DistrictRepoImpl.
func NewDistrictRepo(db *pgxpool.Pool) *DistrictRepoImpl {
	return &DistrictRepoImpl{db: db}
}

// Find returns the district mapped to a street, or ErrNotFound.
func (r *DistrictRepoImpl) Find(ctx context.Context, street string) (string, error) {
	var district string
	err := r.db.QueryRow(ctx,
		`SELECT district FROM street_district_map WHERE street = $1`, street,
	).Scan(&district)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: find street %q: %w", repository.ErrStorage, street, err)
	}
	return district, nil
}

// Add inserts a mapping. The insert and the conflict check run in the same
// statement pass so concurrent Add calls for the same street cannot both
// succeed with different districts.
func (r *DistrictRepoImpl) Add(ctx context.Context, street, district string) error {
	tag, err := r.db.Exec(ctx,
		`INSERT INTO street_district_map (street, district) VALUES ($1, $2)
		 ON CONFLICT (street) DO NOTHING`, street, district)
	if err != nil {
		return fmt.Errorf("%w: add street mapping %q: %w", repository.ErrStorage, street, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	existing, err := r.Find(ctx, street)
	if err != nil {
		return err
	}
	if existing != district {
		return fmt.Errorf("%w: street %q is already mapped to %q", repository.ErrConflict, street, existing)
	}
	return nil
}

// List returns all mappings in no particular order.
func (r *DistrictRepoImpl) List(ctx context.Context) ([]entity.StreetMapping, error) {
	rows, err := r.db.Query(ctx, `SELECT street, district FROM street_district_map`)
	if err != nil {
		return nil, fmt.Errorf("%w: list street mappings: %w", repository.ErrStorage, err)
	}
	defer rows.Close()

	var mappings []entity.StreetMapping
	for rows.Next() {
		var m entity.StreetMapping
		if err := rows.Scan(&m.Street, &m.District); err != nil {
			return nil, fmt.Errorf("%w: scan street mapping: %w", repository.ErrStorage, err)
		}
		mappings = append(mappings, m)
	}
	return mappings, rows.Err()
}
