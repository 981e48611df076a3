package entity

import "time"

// Stats summarizes the active listing inventory.
type Stats struct {
	Count        int64
	OwnerCount   int64
	AgencyCount  int64
	AveragePrice float64
	LastUpdateAt *time.Time
}

// DistrictStats is one row of the per-district rollup.
type DistrictStats struct {
	District     string
	Count        int64
	AveragePrice float64
	AverageArea  float64
}
