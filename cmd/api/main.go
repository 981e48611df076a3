package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/user/property-monitor/internal/adapter/memory"
	"github.com/user/property-monitor/internal/adapter/olx"
	pg_adapter "github.com/user/property-monitor/internal/adapter/postgres"
	redis_adapter "github.com/user/property-monitor/internal/adapter/redis"
	"github.com/user/property-monitor/internal/delivery/http/handler"
	"github.com/user/property-monitor/internal/delivery/http/router"
	"github.com/user/property-monitor/internal/delivery/ws"
	"github.com/user/property-monitor/internal/notifier"
	"github.com/user/property-monitor/internal/repository"
	"github.com/user/property-monitor/internal/usecase"
	"github.com/user/property-monitor/pkg/config"
	"github.com/user/property-monitor/pkg/logger"
	"github.com/user/property-monitor/pkg/metrics"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Unable to load configuration", "error", err)
		os.Exit(1)
	}

	// --- Logger ---
	logger.Init(os.Stdout, cfg.LogLevel)
	slog.Info("Logger initialized", "level", cfg.LogLevel)

	// --- Metrics ---
	metrics.Init()
	slog.Info("Metrics initialized")

	ctx := context.Background()

	// --- Repositories ---
	var (
		listingRepo  repository.ListingRepository
		districtRepo repository.DistrictRepository
		stateRepo    repository.CrawlStateRepository
		activityRepo repository.ActivityRepository
		seenRepo     repository.SeenRepository
	)

	switch cfg.StorageDriver {
	case "memory":
		listingRepo = memory.NewListingStore()
		districtRepo = memory.NewDistrictStore()
		stateRepo = memory.NewCrawlStateStore()
		activityRepo = memory.NewActivityStore()
		seenRepo = memory.NewSeenStore()
		slog.Info("Using in-memory storage")
	default:
		dbpool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			slog.Error("Unable to connect to database", "error", err)
			os.Exit(1)
		}
		defer dbpool.Close()
		if err := pg_adapter.EnsureSchema(ctx, dbpool); err != nil {
			slog.Error("Unable to ensure database schema", "error", err)
			os.Exit(1)
		}
		slog.Info("PostgreSQL connection pool established")

		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			slog.Error("Unable to connect to Redis", "error", err)
			os.Exit(1)
		}
		slog.Info("Redis connection established")

		listingRepo = pg_adapter.NewListingRepo(dbpool)
		districtRepo = pg_adapter.NewDistrictRepo(dbpool)
		stateRepo = pg_adapter.NewCrawlStateRepo(dbpool)
		activityRepo = pg_adapter.NewActivityRepo(dbpool)
		seenRepo = redis_adapter.NewSeenRepo(rdb)
	}

	// --- Use Cases ---
	resolver := usecase.NewDistrictResolver(districtRepo)
	if err := resolver.SeedDefaults(ctx); err != nil {
		slog.Error("Unable to seed street mappings", "error", err)
		os.Exit(1)
	}
	property := usecase.NewPropertyStore(listingRepo, resolver)
	activity := usecase.NewActivityLog(activityRepo)

	hub := notifier.NewHub(time.Duration(cfg.HeartbeatSeconds) * time.Second)
	defer hub.Close()

	fetcher := olx.NewFetcher(cfg.SourceBaseURL, time.Duration(cfg.FetchTimeout)*time.Second, 1)

	orchestrator := usecase.NewOrchestrator(property, stateRepo, fetcher, seenRepo, activity, hub, usecase.OrchestratorConfig{
		FetchTimeout:     time.Duration(cfg.FetchTimeout) * time.Second,
		PageDelay:        time.Duration(cfg.PageDelayMS) * time.Millisecond,
		MaxPagesPerCycle: cfg.MaxPages,
	})
	if err := orchestrator.RecoverStale(ctx); err != nil {
		slog.Error("Unable to recover crawl state", "error", err)
		os.Exit(1)
	}

	// --- HTTP Server ---
	apiHandler := handler.NewHandler(property, resolver, activity, orchestrator)
	wsHandler := ws.NewHandler(hub)
	httpRouter := router.New(apiHandler, wsHandler)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      httpRouter,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	slog.Info("Starting server", "port", cfg.ServerPort)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Could not listen on port", "port", cfg.ServerPort, "error", err)
		os.Exit(1)
	}
}
