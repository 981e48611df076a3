package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/user/property-monitor/internal/delivery/http/handler"
	"github.com/user/property-monitor/internal/delivery/http/middleware"
	"github.com/user/property-monitor/internal/delivery/ws"
)

func New(h *handler.Handler, wsHandler *ws.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.HandleHealthCheck)

		r.Post("/crawl/start", h.HandleStartCrawl)
		r.Post("/crawl/stop", h.HandleStopCrawl)
		r.Get("/crawl/status", h.HandleCrawlStatus)

		r.Get("/listings", h.HandleListListings)
		r.Get("/listings/{externalID}", h.HandleGetListing)
		r.Get("/listings/{externalID}/prices", h.HandlePriceHistory)

		r.Get("/stats", h.HandleStats)
		r.Get("/stats/districts", h.HandleDistrictStats)

		r.Get("/streets", h.HandleListStreets)
		r.Post("/streets", h.HandleAddStreet)

		r.Get("/activity", h.HandleActivity)
	})

	r.Get("/ws", wsHandler.ServeWS)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
