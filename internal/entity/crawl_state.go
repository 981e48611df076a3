package entity

import "time"

type CrawlStatus string

const (
	CrawlStatusIdle    CrawlStatus = "idle"
	CrawlStatusRunning CrawlStatus = "running"
	CrawlStatusStopped CrawlStatus = "stopped"
	CrawlStatusError   CrawlStatus = "error"
)

// CrawlState is the singleton ingestion cursor. LastPage is the last fully
// processed page index (0 means none), so a restarted crawl resumes at
// LastPage+1. TotalProcessed is cumulative across runs.
type CrawlState struct {
	Status         CrawlStatus
	LastPage       int
	LastPageURL    string
	LastExternalID string
	TotalProcessed int64
	LastRunAt      *time.Time
}
