package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sanjux-xx/pricescout/internal/adapters/http/handlers"
	appmiddleware "github.com/sanjux-xx/pricescout/internal/adapters/http/middleware"
	memorystorage "github.com/sanjux-xx/pricescout/internal/adapters/storage/memory"
	redisstorage "github.com/sanjux-xx/pricescout/internal/adapters/storage/redis"
	"github.com/sanjux-xx/pricescout/internal/adapters/telemetry"
	"github.com/sanjux-xx/pricescout/internal/adapters/upstream/serpapi"
	"github.com/sanjux-xx/pricescout/internal/catalog"
	"github.com/sanjux-xx/pricescout/internal/config"
	"github.com/sanjux-xx/pricescout/internal/core/ports"
	"github.com/sanjux-xx/pricescout/internal/core/services"
	"github.com/sanjux-xx/pricescout/internal/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, cache, closeFn, err := initStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to init storage", zap.Error(err))
	}
	defer closeFn()

	limiter, err := services.NewRateLimiterService(storage, cfg.Protection.RateLimit, logger)
	if err != nil {
		logger.Fatal("failed to create rate limiter", zap.Error(err))
	}

	throttle, err := services.NewAbuseThrottleService(storage, cfg.Protection.Abuse, logger)
	if err != nil {
		logger.Fatal("failed to create abuse throttle", zap.Error(err))
	}

	fetcher, err := serpapi.New(serpapi.Config{
		APIKey:   cfg.Upstream.APIKey,
		BaseURL:  cfg.Upstream.BaseURL,
		Location: cfg.Upstream.Location,
		Language: cfg.Upstream.Language,
		Country:  cfg.Upstream.Country,
		Timeout:  cfg.Upstream.Timeout,
	})
	if err != nil {
		logger.Fatal("failed to create upstream client", zap.Error(err))
	}

	mtr := metrics.New(prometheus.DefaultRegisterer)
	reporter := telemetry.New(cfg.Telemetry.Endpoint, logger)

	searcher, err := services.NewSearchService(limiter, throttle, cache, fetcher, reporter, mtr, logger)
	if err != nil {
		logger.Fatal("failed to create search service", zap.Error(err))
	}
	searcher.SetFetchTimeout(cfg.Upstream.Timeout)

	searchHandler := handlers.NewSearchHandler(searcher, logger)
	foodHandler := handlers.NewFoodHandler(catalog.New(), logger)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(appmiddleware.ClientIdentity)
	r.Use(appmiddleware.RequestLogger(logger))

	r.Get("/healthz", handlers.HealthHandler)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/search", searchHandler.Search)
	r.Get("/category/{category}", searchHandler.SearchCategory)
	r.Get("/food", foodHandler.ListBrands)
	r.Get("/food/{brand}", foodHandler.BrandMenu)
	r.Get("/food/{brand}/{item}", foodHandler.ItemPrices)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}
}

// initStores builds the storage and result cache for the configured backend.
// Memory is the default; Redis exists for deployments that need the
// protection state shared across instances.
func initStores(ctx context.Context, cfg config.Config, logger *zap.Logger) (ports.Storage, ports.ResultCache, func(), error) {
	switch cfg.Storage.Type {
	case "memory":
		storage := memorystorage.New()
		cache := memorystorage.NewResultCache(cfg.Protection.CacheTTL)
		if interval := cfg.Protection.SweepInterval; interval > 0 {
			// The abuse window is the longest-lived state; sweeping at its
			// age bound keeps idle keys from accumulating.
			storage.StartJanitor(ctx, interval, cfg.Protection.Abuse.Window)
			cache.StartJanitor(ctx, interval)
		}
		return storage, cache, func() {}, nil
	case "redis":
		client, err := redisstorage.NewClient(redisstorage.Config{
			Addr:     fmt.Sprintf("%s:%d", cfg.Storage.Redis.Host, cfg.Storage.Redis.Port),
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		closeFn := func() {
			if err := client.Close(); err != nil {
				logger.Warn("failed to close redis client", zap.Error(err))
			}
		}
		return redisstorage.NewStorage(client), redisstorage.NewResultCache(client, cfg.Protection.CacheTTL), closeFn, nil
	default:
		return nil, nil, nil, fmt.Errorf("unsupported storage type: %s", cfg.Storage.Type)
	}
}
