package response

import (
	"time"

	"github.com/user/property-monitor/internal/entity"
)

// ListingResponse is the API shape of one listing.
type ListingResponse struct {
	ExternalID  string    `json:"external_id"`
	Title       string    `json:"title"`
	Price       int64     `json:"price"`
	Area        float64   `json:"area,omitempty"`
	Rooms       *int      `json:"rooms,omitempty"`
	Floor       *int      `json:"floor,omitempty"`
	Street      string    `json:"street,omitempty"`
	District    string    `json:"district"`
	Description string    `json:"description,omitempty"`
	IsOwner     bool      `json:"is_owner"`
	URL         string    `json:"url"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FromListing maps a listing entity to its API shape.
func FromListing(l *entity.Listing) ListingResponse {
	return ListingResponse{
		ExternalID:  l.ExternalID,
		Title:       l.Title,
		Price:       l.Price,
		Area:        l.Area,
		Rooms:       l.Rooms,
		Floor:       l.Floor,
		Street:      l.Street,
		District:    l.District,
		Description: l.Description,
		IsOwner:     l.IsOwner,
		URL:         l.URL,
		IsActive:    l.IsActive,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

// PriceObservationResponse is one historical price point.
type PriceObservationResponse struct {
	Price      int64     `json:"price"`
	RecordedAt time.Time `json:"recorded_at"`
}

// CrawlStateResponse mirrors entity.CrawlState.
type CrawlStateResponse struct {
	Status         string     `json:"status"`
	LastPage       int        `json:"last_page"`
	LastPageURL    string     `json:"last_page_url,omitempty"`
	LastExternalID string     `json:"last_external_id,omitempty"`
	TotalProcessed int64      `json:"total_processed"`
	LastRunAt      *time.Time `json:"last_run_at,omitempty"`
}

// StatsResponse summarizes the active inventory.
type StatsResponse struct {
	Count        int64      `json:"count"`
	OwnerCount   int64      `json:"owner_count"`
	AgencyCount  int64      `json:"agency_count"`
	AveragePrice float64    `json:"average_price"`
	LastUpdateAt *time.Time `json:"last_update_at,omitempty"`
}

// DistrictStatsResponse is one per-district rollup row.
type DistrictStatsResponse struct {
	District     string  `json:"district"`
	Count        int64   `json:"count"`
	AveragePrice float64 `json:"average_price"`
	AverageArea  float64 `json:"average_area"`
}

// StreetMappingResponse is one street-to-district fact.
type StreetMappingResponse struct {
	Street   string `json:"street"`
	District string `json:"district"`
}

// ActivityEventResponse is one audit trail entry.
type ActivityEventResponse struct {
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}
