package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tablerio/tablerio-backend/api/routes"
	"github.com/tablerio/tablerio-backend/internal/catalog"
	"github.com/tablerio/tablerio-backend/internal/pricing"
	"github.com/tablerio/tablerio-backend/internal/quotes"
	"github.com/tablerio/tablerio-backend/pkg/cache"
	"github.com/tablerio/tablerio-backend/pkg/config"
	"github.com/tablerio/tablerio-backend/pkg/db"
	"github.com/tablerio/tablerio-backend/pkg/logger"
	"github.com/tablerio/tablerio-backend/pkg/metrics"
	"github.com/tablerio/tablerio-backend/pkg/migrate"
	"github.com/tablerio/tablerio-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "tablerio-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "tablerio-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	// A missing cache is a degraded start, not a fatal one: every cached
	// read degrades to recomputation.
	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "cache unavailable, starting uncached", err)
		redisClient = nil
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	}

	registry := prometheus.NewRegistry()
	cacheMetrics := metrics.NewCacheMetrics(registry)
	quoteMetrics := metrics.NewQuoteMetrics(registry)

	var store cache.Store
	if redisClient != nil {
		store = redisClient
	}
	facade := cache.New(store, cache.TTLs{
		Rules:  cfg.Cache.RuleTTL,
		Quotes: cfg.Cache.QuoteTTL,
	}, logg, cacheMetrics)

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()), facade)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	pricingService, err := pricing.NewService(pricing.NewRepository(dbClient.DB()), facade)
	if err != nil {
		logg.Error(context.Background(), "failed to create pricing service", err)
		os.Exit(1)
	}

	quoteService, err := quotes.NewService(pricingService, catalogService, facade, quoteMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create quote service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	var redisPinger redis.Pinger
	if redisClient != nil {
		redisPinger = redisClient
	}

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg, logg, dbClient, redisPinger, registry,
			catalogService, pricingService, quoteService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
