package entity

// RawListing carries the fields a fetched source record exposes, before any
// district resolution or dedup against stored listings.
type RawListing struct {
	ExternalID  string
	Title       string
	Price       int64
	Area        float64
	Rooms       *int
	Floor       *int
	Street      string
	Description string
	IsOwner     bool
	URL         string
}

// ListingPage is one page of results from the external source. NextPage is
// nil when the source reports no further pages.
type ListingPage struct {
	Page     int
	URL      string
	Listings []RawListing
	NextPage *int
}
