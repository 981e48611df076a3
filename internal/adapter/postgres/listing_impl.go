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

const listingColumns = `id, external_id, title, price, area, rooms, floor, street, district,
	description, is_owner, url, is_active, created_at, updated_at`

// ListingRepoImpl provides a concrete implementation for the ListingRepository interface using PostgreSQL.
type ListingRepoImpl struct {
	db *pgxpool.Pool
}

// NewListingRepo creates a new instance of ListingRepoImpl.
func NewListingRepo(db *pgxpool.Pool) *ListingRepoImpl {
	return &ListingRepoImpl{db: db}
}

// Upsert inserts or updates the listing with the given external id inside one
// transaction. The insert-vs-update branch is explicit: a replace-style upsert
// would reset the creation timestamp and detach price history, so the existing
// row is locked and compared instead.
func (r *ListingRepoImpl) Upsert(ctx context.Context, u repository.ListingUpsert) (*repository.UpsertOutcome, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: begin upsert: %w", repository.ErrStorage, err)
	}
	defer tx.Rollback(ctx)

	outcome, err := r.upsertInTx(ctx, tx, u)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%w: commit upsert: %w", repository.ErrStorage, err)
	}
	return outcome, nil
}

func (r *ListingRepoImpl) upsertInTx(ctx context.Context, tx pgx.Tx, u repository.ListingUpsert) (*repository.UpsertOutcome, error) {
	// First branch: brand-new external id. ON CONFLICT DO NOTHING keeps the
	// insert race-safe; a concurrent insert simply pushes us to the update
	// branch below.
	var inserted entity.Listing
	err := tx.QueryRow(ctx,
		`INSERT INTO listings (external_id, title, price, area, rooms, floor, street, district, description, is_owner, url, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, TRUE)
		 ON CONFLICT (external_id) DO NOTHING
		 RETURNING `+listingColumns,
		u.ExternalID, u.Title, u.Price, u.Area, u.Rooms, u.Floor, u.Street, u.District, u.Description, u.IsOwner, u.URL,
	).Scan(scanTargets(&inserted)...)

	switch {
	case err == nil:
		if err := insertObservation(ctx, tx, inserted.ID, u.ExternalID, u.Price); err != nil {
			return nil, err
		}
		return &repository.UpsertOutcome{Listing: &inserted, PriceChanged: false}, nil
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, fmt.Errorf("%w: insert listing %s: %w", repository.ErrStorage, u.ExternalID, err)
	}

	// Second branch: the external id exists. Lock the row so concurrent
	// upserts for the same id serialize on the price comparison.
	var current entity.Listing
	err = tx.QueryRow(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE external_id = $1 FOR UPDATE`,
		u.ExternalID,
	).Scan(scanTargets(&current)...)
	if err != nil {
		return nil, fmt.Errorf("%w: lock listing %s: %w", repository.ErrStorage, u.ExternalID, err)
	}

	previousPrice := current.Price
	priceChanged := previousPrice != u.Price

	var updated entity.Listing
	err = tx.QueryRow(ctx,
		`UPDATE listings SET
			title = $2, price = $3, area = $4, rooms = $5, floor = $6, street = $7,
			district = $8, description = $9, is_owner = $10, url = $11,
			is_active = TRUE, updated_at = NOW()
		 WHERE external_id = $1
		 RETURNING `+listingColumns,
		u.ExternalID, u.Title, u.Price, u.Area, u.Rooms, u.Floor, u.Street, u.District, u.Description, u.IsOwner, u.URL,
	).Scan(scanTargets(&updated)...)
	if err != nil {
		return nil, fmt.Errorf("%w: update listing %s: %w", repository.ErrStorage, u.ExternalID, err)
	}

	if priceChanged {
		if err := insertObservation(ctx, tx, updated.ID, u.ExternalID, u.Price); err != nil {
			return nil, err
		}
	}

	return &repository.UpsertOutcome{
		Listing:       &updated,
		PriceChanged:  priceChanged,
		PreviousPrice: previousPrice,
	}, nil
}

func insertObservation(ctx context.Context, tx pgx.Tx, listingID int64, externalID string, price int64) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO price_observations (listing_id, external_id, price) VALUES ($1, $2, $3)`,
		listingID, externalID, price,
	)
	if err != nil {
		return fmt.Errorf("%w: insert price observation for %s: %w", repository.ErrStorage, externalID, err)
	}
	return nil
}

// FindActive returns active listings, newest created first.
func (r *ListingRepoImpl) FindActive(ctx context.Context) ([]*entity.Listing, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE is_active ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("%w: query active listings: %w", repository.ErrStorage, err)
	}
	defer rows.Close()

	var listings []*entity.Listing
	for rows.Next() {
		var l entity.Listing
		if err := rows.Scan(scanTargets(&l)...); err != nil {
			return nil, fmt.Errorf("%w: scan listing: %w", repository.ErrStorage, err)
		}
		listings = append(listings, &l)
	}
	return listings, rows.Err()
}

// FindByExternalID retrieves a listing by its external id.
func (r *ListingRepoImpl) FindByExternalID(ctx context.Context, externalID string) (*entity.Listing, error) {
	var l entity.Listing
	err := r.db.QueryRow(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE external_id = $1`, externalID,
	).Scan(scanTargets(&l)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: find listing %s: %w", repository.ErrStorage, externalID, err)
	}
	return &l, nil
}

// Deactivate clears the active flag without touching price history.
func (r *ListingRepoImpl) Deactivate(ctx context.Context, externalID string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE listings SET is_active = FALSE, updated_at = NOW() WHERE external_id = $1`, externalID)
	if err != nil {
		return fmt.Errorf("%w: deactivate listing %s: %w", repository.ErrStorage, externalID, err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeactivateMissing deactivates active listings not present in seenIDs.
func (r *ListingRepoImpl) DeactivateMissing(ctx context.Context, seenIDs []string) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE listings SET is_active = FALSE, updated_at = NOW()
		 WHERE is_active AND NOT (external_id = ANY($1))`, seenIDs)
	if err != nil {
		return 0, fmt.Errorf("%w: deactivate missing listings: %w", repository.ErrStorage, err)
	}
	return tag.RowsAffected(), nil
}

// PriceHistory returns all observations for an external id, oldest first.
func (r *ListingRepoImpl) PriceHistory(ctx context.Context, externalID string) ([]*entity.PriceObservation, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, listing_id, external_id, price, recorded_at
		 FROM price_observations WHERE external_id = $1 ORDER BY recorded_at ASC, id ASC`, externalID)
	if err != nil {
		return nil, fmt.Errorf("%w: query price history for %s: %w", repository.ErrStorage, externalID, err)
	}
	defer rows.Close()

	var observations []*entity.PriceObservation
	for rows.Next() {
		var o entity.PriceObservation
		if err := rows.Scan(&o.ID, &o.ListingID, &o.ExternalID, &o.Price, &o.RecordedAt); err != nil {
			return nil, fmt.Errorf("%w: scan price observation: %w", repository.ErrStorage, err)
		}
		observations = append(observations, &o)
	}
	return observations, rows.Err()
}

// Stats summarizes the active inventory.
func (r *ListingRepoImpl) Stats(ctx context.Context) (*entity.Stats, error) {
	var s entity.Stats
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE is_owner),
		        COUNT(*) FILTER (WHERE NOT is_owner),
		        COALESCE(AVG(price), 0),
		        MAX(updated_at)
		 FROM listings WHERE is_active`,
	).Scan(&s.Count, &s.OwnerCount, &s.AgencyCount, &s.AveragePrice, &s.LastUpdateAt)
	if err != nil {
		return nil, fmt.Errorf("%w: query stats: %w", repository.ErrStorage, err)
	}
	return &s, nil
}

// StatsByDistrict returns the per-district rollup ordered by count descending,
// ties broken by district name ascending.
func (r *ListingRepoImpl) StatsByDistrict(ctx context.Context) ([]*entity.DistrictStats, error) {
	rows, err := r.db.Query(ctx,
		`SELECT district, COUNT(*), COALESCE(AVG(price), 0), COALESCE(AVG(area), 0)
		 FROM listings WHERE is_active
		 GROUP BY district
		 ORDER BY COUNT(*) DESC, district ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: query district stats: %w", repository.ErrStorage, err)
	}
	defer rows.Close()

	var stats []*entity.DistrictStats
	for rows.Next() {
		var d entity.DistrictStats
		if err := rows.Scan(&d.District, &d.Count, &d.AveragePrice, &d.AverageArea); err != nil {
			return nil, fmt.Errorf("%w: scan district stats: %w", repository.ErrStorage, err)
		}
		stats = append(stats, &d)
	}
	return stats, rows.Err()
}

func scanTargets(l *entity.Listing) []any {
	return []any{
		&l.ID, &l.ExternalID, &l.Title, &l.Price, &l.Area, &l.Rooms, &l.Floor,
		&l.Street, &l.District, &l.Description, &l.IsOwner, &l.URL, &l.IsActive,
		&l.CreatedAt, &l.UpdatedAt,
	}
}
