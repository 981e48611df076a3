package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/user/property-monitor/internal/delivery/http/request"
	"github.com/user/property-monitor/internal/delivery/http/response"
	"github.com/user/property-monitor/internal/repository"
	"github.com/user/property-monitor/internal/usecase"
)

type Handler struct {
	property     usecase.PropertyStore
	resolver     usecase.DistrictResolver
	activity     usecase.ActivityLog
	orchestrator usecase.Orchestrator
}

func NewHandler(
	property usecase.PropertyStore,
	resolver usecase.DistrictResolver,
	activity usecase.ActivityLog,
	orchestrator usecase.Orchestrator,
) *Handler {
	return &Handler{
		property:     property,
		resolver:     resolver,
		activity:     activity,
		orchestrator: orchestrator,
	}
}

func (h *Handler) HandleStartCrawl(w http.ResponseWriter, r *http.Request) {
	if err := h.orchestrator.Start(r.Context()); err != nil {
		if errors.Is(err, repository.ErrAlreadyRunning) {
			h.writeJSONError(w, "A crawl is already running", http.StatusConflict)
			return
		}
		slog.Error("Failed to start crawl", "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusAccepted, map[string]string{"status": "running"})
}

func (h *Handler) HandleStopCrawl(w http.ResponseWriter, r *http.Request) {
	if err := h.orchestrator.Stop(r.Context()); err != nil {
		slog.Error("Failed to stop crawl", "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusAccepted, map[string]string{"status": "stopping"})
}

func (h *Handler) HandleCrawlStatus(w http.ResponseWriter, r *http.Request) {
	state, err := h.orchestrator.Status(r.Context())
	if err != nil {
		slog.Error("Failed to load crawl status", "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, response.CrawlStateResponse{
		Status:         string(state.Status),
		LastPage:       state.LastPage,
		LastPageURL:    state.LastPageURL,
		LastExternalID: state.LastExternalID,
		TotalProcessed: state.TotalProcessed,
		LastRunAt:      state.LastRunAt,
	})
}

func (h *Handler) HandleListListings(w http.ResponseWriter, r *http.Request) {
	listings, err := h.property.GetActive(r.Context())
	if err != nil {
		slog.Error("Failed to list listings", "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	resp := make([]response.ListingResponse, 0, len(listings))
	for _, l := range listings {
		resp = append(resp, response.FromListing(l))
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleGetListing(w http.ResponseWriter, r *http.Request) {
	externalID := chi.URLParam(r, "externalID")
	listing, err := h.property.GetByExternalID(r.Context(), externalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.writeJSONError(w, "Listing not found", http.StatusNotFound)
			return
		}
		slog.Error("Failed to get listing", "external_id", externalID, "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, response.FromListing(listing))
}

func (h *Handler) HandlePriceHistory(w http.ResponseWriter, r *http.Request) {
	externalID := chi.URLParam(r, "externalID")
	history, err := h.property.PriceHistory(r.Context(), externalID)
	if err != nil {
		slog.Error("Failed to get price history", "external_id", externalID, "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	resp := make([]response.PriceObservationResponse, 0, len(history))
	for _, o := range history {
		resp = append(resp, response.PriceObservationResponse{Price: o.Price, RecordedAt: o.RecordedAt})
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.property.Stats(r.Context())
	if err != nil {
		slog.Error("Failed to get stats", "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, response.StatsResponse{
		Count:        stats.Count,
		OwnerCount:   stats.OwnerCount,
		AgencyCount:  stats.AgencyCount,
		AveragePrice: stats.AveragePrice,
		LastUpdateAt: stats.LastUpdateAt,
	})
}

func (h *Handler) HandleDistrictStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.property.StatsByDistrict(r.Context())
	if err != nil {
		slog.Error("Failed to get district stats", "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	resp := make([]response.DistrictStatsResponse, 0, len(stats))
	for _, d := range stats {
		resp = append(resp, response.DistrictStatsResponse{
			District:     d.District,
			Count:        d.Count,
			AveragePrice: d.AveragePrice,
			AverageArea:  d.AverageArea,
		})
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleListStreets(w http.ResponseWriter, r *http.Request) {
	mappings, err := h.resolver.ListMappings(r.Context())
	if err != nil {
		slog.Error("Failed to list street mappings", "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	resp := make([]response.StreetMappingResponse, 0, len(mappings))
	for _, m := range mappings {
		resp = append(resp, response.StreetMappingResponse{Street: m.Street, District: m.District})
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleAddStreet(w http.ResponseWriter, r *http.Request) {
	var req request.AddStreetMappingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Street == "" || req.District == "" {
		h.writeJSONError(w, "Both street and district are required", http.StatusBadRequest)
		return
	}

	if err := h.resolver.AddMapping(r.Context(), req.Street, req.District); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			h.writeJSONError(w, err.Error(), http.StatusConflict)
			return
		}
		slog.Error("Failed to add street mapping", "street", req.Street, "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.activity.Record(r.Context(), "Added mapping: "+req.Street+" -> "+req.District, "streets")
	h.writeJSON(w, http.StatusCreated, response.StreetMappingResponse{Street: req.Street, District: req.District})
}

func (h *Handler) HandleActivity(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			h.writeJSONError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = v
	}

	events, err := h.activity.Recent(r.Context(), limit)
	if err != nil {
		slog.Error("Failed to read activity log", "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	resp := make([]response.ActivityEventResponse, 0, len(events))
	for _, e := range events {
		resp = append(resp, response.ActivityEventResponse{Message: e.Message, Type: e.Type, CreatedAt: e.CreatedAt})
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
