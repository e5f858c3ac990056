package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/pawfectfind/pawfectfind-backend/api/routes"
	"github.com/pawfectfind/pawfectfind-backend/internal/breeds"
	"github.com/pawfectfind/pawfectfind-backend/internal/bundles"
	"github.com/pawfectfind/pawfectfind-backend/internal/dogs"
	"github.com/pawfectfind/pawfectfind-backend/internal/favorites"
	"github.com/pawfectfind/pawfectfind-backend/internal/matching"
	"github.com/pawfectfind/pawfectfind-backend/internal/products"
	"github.com/pawfectfind/pawfectfind-backend/pkg/config"
	"github.com/pawfectfind/pawfectfind-backend/pkg/db"
	"github.com/pawfectfind/pawfectfind-backend/pkg/logger"
	"github.com/pawfectfind/pawfectfind-backend/pkg/metrics"
	"github.com/pawfectfind/pawfectfind-backend/pkg/migrate"
	"github.com/pawfectfind/pawfectfind-backend/pkg/redis"
	"github.com/pawfectfind/pawfectfind-backend/pkg/retry"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	services, err := buildServices(cfg, logg, dbClient, redisClient, registry)
	if err != nil {
		logg.Error(context.Background(), "failed to build services", err)
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

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, routes.Observability{
			Gatherer:    registry,
			HTTPMetrics: metrics.NewHTTPMetrics(registry),
		}, services),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-sigCtx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}

func buildServices(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client, reg prometheus.Registerer) (routes.Services, error) {
	var out routes.Services
	policy := retry.FromConfig(cfg.Retry)
	matchingMetrics := metrics.NewMatchingMetrics(reg)

	breedRepo := breeds.NewRepository(dbClient.DB())
	productRepo := products.NewRepository(dbClient.DB())

	breedSvc, err := breeds.NewService(breedRepo, dbClient)
	if err != nil {
		return out, err
	}
	productSvc, err := products.NewService(productRepo)
	if err != nil {
		return out, err
	}
	matcher, err := matching.NewService(matching.ServiceParams{
		Breeds:   breedRepo,
		Catalog:  productRepo,
		Cache:    redisClient,
		CacheTTL: cfg.Matching.CacheTTL,
		Retry:    policy,
		Metrics:  matchingMetrics,
		Logger:   logg,
	})
	if err != nil {
		return out, err
	}
	bundleSvc, err := bundles.NewService(bundles.ServiceParams{
		Repo:    bundles.NewRepository(dbClient.DB()),
		Prices:  productRepo,
		DB:      dbClient,
		Metrics: matchingMetrics,
	})
	if err != nil {
		return out, err
	}
	dogSvc, err := dogs.NewService(dogs.ServiceParams{
		Repo:     dogs.NewRepository(dbClient.DB()),
		Guests:   redisClient,
		GuestTTL: cfg.Guest.TTL,
		Matcher:  matcher,
		Breeds:   breedRepo,
		Retry:    policy,
		Logger:   logg,
	})
	if err != nil {
		return out, err
	}
	favoriteSvc, err := favorites.NewService(favorites.NewRepository(dbClient.DB()), productSvc)
	if err != nil {
		return out, err
	}

	return routes.Services{
		Breeds:    breedSvc,
		Products:  productSvc,
		Matching:  matcher,
		Bundles:   bundleSvc,
		Dogs:      dogSvc,
		Favorites: favoriteSvc,
	}, nil
}
