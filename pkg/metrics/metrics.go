package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	ListingsUpsertedTotal *prometheus.CounterVec
	PriceChangesTotal     prometheus.Counter
	CrawlPagesTotal       *prometheus.CounterVec
	CrawlCycleDuration    prometheus.Histogram
	LiveSubscribers       prometheus.Gauge
)

func Init() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	ListingsUpsertedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listings_upserted_total",
			Help: "Total number of listing upserts.",
		},
		[]string{"result"}, // created, updated, unchanged, error
	)

	PriceChangesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "price_changes_total",
			Help: "Total number of detected price changes.",
		},
	)

	CrawlPagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawl_pages_total",
			Help: "Total number of processed source pages.",
		},
		[]string{"status"}, // success, failure
	)

	CrawlCycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "crawl_cycle_duration_seconds",
			Help:    "Duration of full crawl cycles.",
			Buckets: []float64{5, 15, 30, 60, 120, 300, 600},
		},
	)

	LiveSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "live_subscribers",
			Help: "Current number of live event subscribers.",
		},
	)
}
