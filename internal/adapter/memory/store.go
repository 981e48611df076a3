// Package memory implements the repository interfaces on in-process maps.
// It backs tests and the "memory" storage driver; semantics match the
// postgres adapters, with a mutex standing in for transactions.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/user/property-monitor/internal/entity"
	"github.com/user/property-monitor/internal/repository"
)

// ListingStore is an in-memory ListingRepository.
type ListingStore struct {
	mu           sync.Mutex
	nextID       int64
	nextObsID    int64
	listings     map[string]*entity.Listing // keyed by external id
	observations []*entity.PriceObservation
}

func NewListingStore() *ListingStore {
	return &ListingStore{listings: make(map[string]*entity.Listing)}
}

func (s *ListingStore) Upsert(ctx context.Context, u repository.ListingUpsert) (*repository.UpsertOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if existing, ok := s.listings[u.ExternalID]; ok {
		previous := existing.Price
		changed := previous != u.Price

		existing.Title = u.Title
		existing.Price = u.Price
		existing.Area = u.Area
		existing.Rooms = u.Rooms
		existing.Floor = u.Floor
		existing.Street = u.Street
		existing.District = u.District
		existing.Description = u.Description
		existing.IsOwner = u.IsOwner
		existing.URL = u.URL
		existing.IsActive = true
		existing.UpdatedAt = now

		if changed {
			s.appendObservation(existing, now)
		}
		cp := *existing
		return &repository.UpsertOutcome{Listing: &cp, PriceChanged: changed, PreviousPrice: previous}, nil
	}

	s.nextID++
	l := &entity.Listing{
		ID:          s.nextID,
		ExternalID:  u.ExternalID,
		Title:       u.Title,
		Price:       u.Price,
		Area:        u.Area,
		Rooms:       u.Rooms,
		Floor:       u.Floor,
		Street:      u.Street,
		District:    u.District,
		Description: u.Description,
		IsOwner:     u.IsOwner,
		URL:         u.URL,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.listings[u.ExternalID] = l
	s.appendObservation(l, now)

	cp := *l
	return &repository.UpsertOutcome{Listing: &cp, PriceChanged: false}, nil
}

func (s *ListingStore) appendObservation(l *entity.Listing, at time.Time) {
	s.nextObsID++
	s.observations = append(s.observations, &entity.PriceObservation{
		ID:         s.nextObsID,
		ListingID:  l.ID,
		ExternalID: l.ExternalID,
		Price:      l.Price,
		RecordedAt: at,
	})
}

func (s *ListingStore) FindActive(ctx context.Context) ([]*entity.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var listings []*entity.Listing
	for _, l := range s.listings {
		if l.IsActive {
			cp := *l
			listings = append(listings, &cp)
		}
	}
	sort.Slice(listings, func(i, j int) bool {
		if listings[i].CreatedAt.Equal(listings[j].CreatedAt) {
			return listings[i].ID > listings[j].ID
		}
		return listings[i].CreatedAt.After(listings[j].CreatedAt)
	})
	return listings, nil
}

func (s *ListingStore) FindByExternalID(ctx context.Context, externalID string) (*entity.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.listings[externalID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (s *ListingStore) Deactivate(ctx context.Context, externalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.listings[externalID]
	if !ok {
		return repository.ErrNotFound
	}
	l.IsActive = false
	l.UpdatedAt = time.Now()
	return nil
}

func (s *ListingStore) DeactivateMissing(ctx context.Context, seenIDs []string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(seenIDs))
	for _, id := range seenIDs {
		seen[id] = struct{}{}
	}

	var affected int64
	now := time.Now()
	for id, l := range s.listings {
		if _, ok := seen[id]; !ok && l.IsActive {
			l.IsActive = false
			l.UpdatedAt = now
			affected++
		}
	}
	return affected, nil
}

func (s *ListingStore) PriceHistory(ctx context.Context, externalID string) ([]*entity.PriceObservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var history []*entity.PriceObservation
	for _, o := range s.observations {
		if o.ExternalID == externalID {
			cp := *o
			history = append(history, &cp)
		}
	}
	return history, nil
}

func (s *ListingStore) Stats(ctx context.Context) (*entity.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stats entity.Stats
	var priceSum int64
	for _, l := range s.listings {
		if !l.IsActive {
			continue
		}
		stats.Count++
		if l.IsOwner {
			stats.OwnerCount++
		} else {
			stats.AgencyCount++
		}
		priceSum += l.Price
		if stats.LastUpdateAt == nil || l.UpdatedAt.After(*stats.LastUpdateAt) {
			t := l.UpdatedAt
			stats.LastUpdateAt = &t
		}
	}
	if stats.Count > 0 {
		stats.AveragePrice = float64(priceSum) / float64(stats.Count)
	}
	return &stats, nil
}

func (s *ListingStore) StatsByDistrict(ctx context.Context) ([]*entity.DistrictStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	type acc struct {
		count    int64
		priceSum int64
		areaSum  float64
	}
	byDistrict := make(map[string]*acc)
	for _, l := range s.listings {
		if !l.IsActive {
			continue
		}
		a, ok := byDistrict[l.District]
		if !ok {
			a = &acc{}
			byDistrict[l.District] = a
		}
		a.count++
		a.priceSum += l.Price
		a.areaSum += l.Area
	}

	var stats []*entity.DistrictStats
	for district, a := range byDistrict {
		stats = append(stats, &entity.DistrictStats{
			District:     district,
			Count:        a.count,
			AveragePrice: float64(a.priceSum) / float64(a.count),
			AverageArea:  a.areaSum / float64(a.count),
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count == stats[j].Count {
			return stats[i].District < stats[j].District
		}
		return stats[i].Count > stats[j].Count
	})
	return stats, nil
}

// DistrictStore is an in-memory DistrictRepository.
type DistrictStore struct {
	mu       sync.Mutex
	mappings map[string]string
}

func NewDistrictStore() *DistrictStore {
	return &DistrictStore{mappings: make(map[string]string)}
}

func (s *DistrictStore) Find(ctx context.Context, street string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	district, ok := s.mappings[street]
	if !ok {
		return "", repository.ErrNotFound
	}
	return district, nil
}

func (s *DistrictStore) Add(ctx context.Context, street, district string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.mappings[street]; ok {
		if existing != district {
			return fmt.Errorf("%w: street %q is already mapped to %q", repository.ErrConflict, street, existing)
		}
		return nil
	}
	s.mappings[street] = district
	return nil
}

func (s *DistrictStore) List(ctx context.Context) ([]entity.StreetMapping, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mappings := make([]entity.StreetMapping, 0, len(s.mappings))
	for street, district := range s.mappings {
		mappings = append(mappings, entity.StreetMapping{Street: street, District: district})
	}
	return mappings, nil
}

// CrawlStateStore is an in-memory CrawlStateRepository.
type CrawlStateStore struct {
	mu    sync.Mutex
	state entity.CrawlState
}

func NewCrawlStateStore() *CrawlStateStore {
	return &CrawlStateStore{state: entity.CrawlState{Status: entity.CrawlStatusIdle}}
}

func (s *CrawlStateStore) Load(ctx context.Context) (*entity.CrawlState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := s.state
	return &cp, nil
}

func (s *CrawlStateStore) TransitionToRunning(ctx context.Context) (*entity.CrawlState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Status == entity.CrawlStatusRunning {
		return nil, repository.ErrAlreadyRunning
	}
	s.state.Status = entity.CrawlStatusRunning
	cp := s.state
	return &cp, nil
}

func (s *CrawlStateStore) SetStatus(ctx context.Context, status entity.CrawlStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Status = status
	return nil
}

func (s *CrawlStateStore) Advance(ctx context.Context, cur repository.CrawlCursor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.state.LastPage = cur.Page
	s.state.LastPageURL = cur.PageURL
	s.state.LastExternalID = cur.LastExternalID
	s.state.TotalProcessed = cur.TotalProcessed
	s.state.LastRunAt = &now
	return nil
}

// ActivityStore is an in-memory ActivityRepository.
type ActivityStore struct {
	mu     sync.Mutex
	nextID int64
	events []*entity.ActivityEvent
}

func NewActivityStore() *ActivityStore {
	return &ActivityStore{}
}

func (s *ActivityStore) Append(ctx context.Context, message, eventType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	s.events = append(s.events, &entity.ActivityEvent{
		ID:        s.nextID,
		Message:   message,
		Type:      eventType,
		CreatedAt: time.Now(),
	})
	return nil
}

func (s *ActivityStore) Recent(ctx context.Context, limit int) ([]*entity.ActivityEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var events []*entity.ActivityEvent
	for i := len(s.events) - 1; i >= 0 && len(events) < limit; i-- {
		cp := *s.events[i]
		events = append(events, &cp)
	}
	return events, nil
}

// SeenStore is an in-memory SeenRepository.
type SeenStore struct {
	mu     sync.Mutex
	cycles map[string]map[string]struct{}
}

func NewSeenStore() *SeenStore {
	return &SeenStore{cycles: make(map[string]map[string]struct{})}
}

func (s *SeenStore) MarkSeen(ctx context.Context, cycleID, externalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.cycles[cycleID]
	if !ok {
		set = make(map[string]struct{})
		s.cycles[cycleID] = set
	}
	set[externalID] = struct{}{}
	return nil
}

func (s *SeenStore) SeenIDs(ctx context.Context, cycleID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []string
	for id := range s.cycles[cycleID] {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *SeenStore) Clear(ctx context.Context, cycleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.cycles, cycleID)
	return nil
}
