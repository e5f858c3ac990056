package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pawfectfind/pawfectfind-backend/internal/breeds"
	"github.com/pawfectfind/pawfectfind-backend/internal/bundles"
	"github.com/pawfectfind/pawfectfind-backend/internal/cron"
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

const serviceName = "catalog-worker"

func main() {
	once := flag.Bool("once", false, "run the selected jobs a single time and exit")
	jobList := flag.String("jobs", "", "comma separated job names for -once (default: all)")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: serviceName})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = serviceName

	logg = logger.New(logger.Options{
		ServiceName: serviceName,
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

	reg := prometheus.NewRegistry()
	breedRepo := breeds.NewRepository(dbClient.DB())
	productRepo := products.NewRepository(dbClient.DB())

	matcher, err := matching.NewService(matching.ServiceParams{
		Breeds:   breedRepo,
		Catalog:  productRepo,
		Cache:    redisClient,
		CacheTTL: cfg.Matching.CacheTTL,
		Retry:    retry.FromConfig(cfg.Retry),
		Metrics:  metrics.NewMatchingMetrics(reg),
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create matching service", err)
		os.Exit(1)
	}

	warmJob, err := cron.NewMatchCacheWarmJob(cron.MatchCacheWarmJobParams{
		Logger:     logg,
		Matcher:    matcher,
		Categories: cfg.Cron.WarmCategories,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create match cache warm job", err)
		os.Exit(1)
	}
	auditJob, err := cron.NewBundlePriceAuditJob(cron.BundlePriceAuditJobParams{
		Logger:     logg,
		Repository: bundles.NewRepository(dbClient.DB()),
		BatchSize:  cfg.Cron.AuditBatchSize,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create bundle price audit job", err)
		os.Exit(1)
	}

	registry, err := cron.NewRegistry(warmJob, auditJob)
	if err != nil {
		logg.Error(context.Background(), "failed to register catalog jobs", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey(serviceName), cfg.Cron.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(reg),
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})

	if *once {
		if err := service.RunOnce(ctx, splitJobs(*jobList)...); err != nil {
			logg.Error(ctx, "catalog worker run failed", err)
			os.Exit(1)
		}
		logg.Info(ctx, "catalog worker run complete")
		return
	}

	metricsServer := serveMetrics(ctx, logg, cfg.App.Port, reg)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	logg.Info(ctx, "starting catalog worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "catalog worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "catalog worker shutting down gracefully")
}

// serveMetrics exposes the job metrics for scraping on the app port.
func serveMetrics(ctx context.Context, logg *logger.Logger, port string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: ":" + port, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "metrics server stopped", err)
		}
	}()
	return server
}

func splitJobs(raw string) []string {
	var names []string
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}
