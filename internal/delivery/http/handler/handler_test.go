package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/user/property-monitor/internal/adapter/memory"
	"github.com/user/property-monitor/internal/delivery/http/handler"
	"github.com/user/property-monitor/internal/delivery/http/router"
	"github.com/user/property-monitor/internal/delivery/ws"
	"github.com/user/property-monitor/internal/entity"
	"github.com/user/property-monitor/internal/notifier"
	"github.com/user/property-monitor/internal/repository"
	"github.com/user/property-monitor/internal/usecase"
)

type fakeOrchestrator struct {
	startErr error
	state    entity.CrawlState
	stopped  bool
}

func (f *fakeOrchestrator) Start(ctx context.Context) error { return f.startErr }
func (f *fakeOrchestrator) Stop(ctx context.Context) error  { f.stopped = true; return nil }
func (f *fakeOrchestrator) Status(ctx context.Context) (*entity.CrawlState, error) {
	cp := f.state
	return &cp, nil
}
func (f *fakeOrchestrator) RecoverStale(ctx context.Context) error { return nil }

type fixture struct {
	router       http.Handler
	property     usecase.PropertyStore
	orchestrator *fakeOrchestrator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	resolver := usecase.NewDistrictResolver(memory.NewDistrictStore())
	if err := resolver.SeedDefaults(context.Background()); err != nil {
		t.Fatalf("SeedDefaults: %v", err)
	}
	property := usecase.NewPropertyStore(memory.NewListingStore(), resolver)
	activity := usecase.NewActivityLog(memory.NewActivityStore())
	orchestrator := &fakeOrchestrator{state: entity.CrawlState{Status: entity.CrawlStatusIdle}}

	hub := notifier.NewHub(0)
	t.Cleanup(hub.Close)

	h := handler.NewHandler(property, resolver, activity, orchestrator)
	return &fixture{
		router:       router.New(h, ws.NewHandler(hub)),
		property:     property,
		orchestrator: orchestrator,
	}
}

func (f *fixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	fx := newFixture(t)

	rec := fx.do(t, http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type: got %q", ct)
	}
}

func TestStartCrawl(t *testing.T) {
	fx := newFixture(t)

	rec := fx.do(t, http.MethodPost, "/api/crawl/start", "")
	if rec.Code != http.StatusAccepted {
		t.Errorf("status: got %d, want 202", rec.Code)
	}

	fx.orchestrator.startErr = repository.ErrAlreadyRunning
	rec = fx.do(t, http.MethodPost, "/api/crawl/start", "")
	if rec.Code != http.StatusConflict {
		t.Errorf("status while running: got %d, want 409", rec.Code)
	}
}

func TestStopCrawl(t *testing.T) {
	fx := newFixture(t)

	rec := fx.do(t, http.MethodPost, "/api/crawl/stop", "")
	if rec.Code != http.StatusAccepted {
		t.Errorf("status: got %d, want 202", rec.Code)
	}
	if !fx.orchestrator.stopped {
		t.Error("stop was not forwarded to the orchestrator")
	}
}

func TestCrawlStatus(t *testing.T) {
	fx := newFixture(t)
	now := time.Now()
	fx.orchestrator.state = entity.CrawlState{
		Status:         entity.CrawlStatusError,
		LastPage:       4,
		TotalProcessed: 120,
		LastRunAt:      &now,
	}

	rec := fx.do(t, http.MethodGet, "/api/crawl/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	body := decode[map[string]any](t, rec)
	if body["status"] != "error" {
		t.Errorf("status field: got %v, want error", body["status"])
	}
	if body["last_page"] != float64(4) {
		t.Errorf("last_page: got %v, want 4", body["last_page"])
	}
}

func TestListingsEndpoints(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	rec := fx.do(t, http.MethodGet, "/api/listings", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("empty catalog: got %q, want []", rec.Body.String())
	}

	raw := entity.RawListing{
		ExternalID: "OLX-1",
		Title:      "Квартира",
		Price:      50000,
		Street:     "Галицька",
		URL:        "https://example.com/OLX-1",
	}
	if _, err := fx.property.Upsert(ctx, raw); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	raw.Price = 48000
	if _, err := fx.property.Upsert(ctx, raw); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	rec = fx.do(t, http.MethodGet, "/api/listings", "")
	listings := decode[[]map[string]any](t, rec)
	if len(listings) != 1 {
		t.Fatalf("listings: got %d, want 1", len(listings))
	}
	if listings[0]["district"] != "Центр" {
		t.Errorf("district: got %v, want Центр", listings[0]["district"])
	}

	rec = fx.do(t, http.MethodGet, "/api/listings/OLX-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get listing: got %d, want 200", rec.Code)
	}
	listing := decode[map[string]any](t, rec)
	if listing["price"] != float64(48000) {
		t.Errorf("price: got %v, want 48000", listing["price"])
	}

	rec = fx.do(t, http.MethodGet, "/api/listings/OLX-1/prices", "")
	history := decode[[]map[string]any](t, rec)
	if len(history) != 2 {
		t.Errorf("price history: got %d points, want 2", len(history))
	}

	rec = fx.do(t, http.MethodGet, "/api/listings/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing listing: got %d, want 404", rec.Code)
	}
}

func TestStreets(t *testing.T) {
	fx := newFixture(t)

	rec := fx.do(t, http.MethodPost, "/api/streets", `{"street":"Нова","district":"Центр"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add street: got %d, want 201", rec.Code)
	}

	rec = fx.do(t, http.MethodPost, "/api/streets", `{"street":"Нова","district":"Пасічна"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("remap attempt: got %d, want 409", rec.Code)
	}

	rec = fx.do(t, http.MethodPost, "/api/streets", `{"street":"Нова"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing district: got %d, want 400", rec.Code)
	}

	rec = fx.do(t, http.MethodPost, "/api/streets", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body: got %d, want 400", rec.Code)
	}

	rec = fx.do(t, http.MethodGet, "/api/streets", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list streets: got %d, want 200", rec.Code)
	}
	mappings := decode[[]map[string]any](t, rec)
	found := false
	for _, m := range mappings {
		if m["street"] == "Нова" && m["district"] == "Центр" {
			found = true
		}
	}
	if !found {
		t.Error("added mapping not present in listing")
	}
}

func TestActivityLimitValidation(t *testing.T) {
	fx := newFixture(t)

	rec := fx.do(t, http.MethodGet, "/api/activity?limit=abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad limit: got %d, want 400", rec.Code)
	}
	rec = fx.do(t, http.MethodGet, "/api/activity?limit=-1", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("negative limit: got %d, want 400", rec.Code)
	}
	rec = fx.do(t, http.MethodGet, "/api/activity", "")
	if rec.Code != http.StatusOK {
		t.Errorf("default limit: got %d, want 200", rec.Code)
	}
}

func TestStatsEndpoints(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	for _, raw := range []entity.RawListing{
		{ExternalID: "OLX-1", Title: "A", Price: 40000, Street: "Галицька", URL: "u1", IsOwner: true},
		{ExternalID: "OLX-2", Title: "B", Price: 60000, Street: "Галицька", URL: "u2"},
	} {
		if _, err := fx.property.Upsert(ctx, raw); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}

	rec := fx.do(t, http.MethodGet, "/api/stats", "")
	stats := decode[map[string]any](t, rec)
	if stats["count"] != float64(2) || stats["average_price"] != float64(50000) {
		t.Errorf("stats: got %v", stats)
	}

	rec = fx.do(t, http.MethodGet, "/api/stats/districts", "")
	districts := decode[[]map[string]any](t, rec)
	if len(districts) != 1 || districts[0]["district"] != "Центр" {
		t.Errorf("district stats: got %v", districts)
	}
}
