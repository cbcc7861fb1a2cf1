// Package main is the entry point for the country-pulse-service API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"country-pulse-service/internal/app/service"
	"country-pulse-service/internal/bootstrap"
	"country-pulse-service/internal/config"
	"country-pulse-service/internal/domain"
	rediscache "country-pulse-service/internal/infra/redis"
	"country-pulse-service/internal/infra/snapshot"
	"country-pulse-service/internal/job"
	"country-pulse-service/internal/logger"
	"country-pulse-service/internal/transport/httpserver"
	"country-pulse-service/internal/transport/httpserver/middleware"
	"country-pulse-service/internal/validator"
	"country-pulse-service/pkg/locker"
)

func main() {
	cfg, err := config.Load(os.Getenv("APP_CONFIG_FILE"))
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(
		cfg.App.Name,
		logger.Config{
			Level:  cfg.Logger.Level,
			Format: cfg.Logger.Format,
			Output: cfg.Logger.Output,
		},
		logger.SentryConfig{
			Enabled:     cfg.Sentry.Enabled,
			DSN:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			Release:     cfg.Sentry.Release,
			SampleRate:  cfg.Sentry.SampleRate,
		},
	)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting country-pulse-service",
		zap.String("env", cfg.App.Env),
		zap.Int("port", cfg.App.Port),
		zap.String("snapshot_source", cfg.Snapshot.Source),
	)

	store, err := bootstrap.NewSnapshotStore(cfg.Snapshot, log.Logger)
	if err != nil {
		log.Fatal("failed to create snapshot store", zap.Error(err))
	}
	checks := []middleware.ReadinessCheck{{Name: "snapshots", Pinger: store}}

	loader := snapshot.NewLoader(store, log.Logger)
	normalizer := snapshot.NewNormalizer()

	var (
		cache       domain.Cache
		countryOpts []service.CountryOption
		distLocker  locker.DistributedLocker
	)

	if cfg.Cache.Enabled {
		redisClient, err := bootstrap.NewRedisClient(context.Background(), cfg.Redis)
		if err != nil {
			log.Fatal("failed to connect to Redis", zap.Error(err))
		}
		defer func() { _ = redisClient.Close() }()
		log.Info("connected to Redis",
			zap.String("host", cfg.Redis.Host),
			zap.Int("port", cfg.Redis.Port),
		)

		redisCache := rediscache.NewCache(redisClient, log.Logger, cfg.Cache.KeyPrefix)
		cache = redisCache
		countryOpts = append(countryOpts, service.WithCache(redisCache, cfg.Cache.TTL))
		checks = append(checks, middleware.ReadinessCheck{Name: "redis", Pinger: redisCache})
		distLocker = locker.NewRedisLocker(redisClient, log.Logger, locker.WithKeyPrefix(cfg.Cache.KeyPrefix))

		log.Info("cache enabled",
			zap.Duration("ttl", cfg.Cache.TTL),
			zap.String("key_prefix", cfg.Cache.KeyPrefix),
		)
	} else {
		log.Info("cache disabled, view models are built per request")
	}

	countrySvc := service.NewCountryService(loader, normalizer, log.Logger, countryOpts...)

	// Warm-up only pays off when its results are cached.
	var (
		warmupSvc *service.WarmupService
		scheduler *job.WarmupScheduler
	)
	if cache != nil {
		warmupSvc = service.NewWarmupService(countrySvc, cfg.Warmup.Concurrency, log.Logger)
		if cfg.Warmup.Enabled {
			scheduler = job.NewWarmupScheduler(
				warmupSvc,
				job.WarmupConfig{
					Interval:  cfg.Warmup.Interval,
					Timeout:   cfg.Warmup.Timeout,
					OnStartup: cfg.Warmup.OnStartup,
				},
				log.Logger,
				distLocker,
			)
		}
	}

	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Port:           cfg.App.Port,
			BodyLimit:      cfg.App.BodyLimit,
			Debug:          cfg.App.Debug,
			MetricsEnabled: cfg.Metrics.Enabled,
			MetricsPath:    cfg.Metrics.Path,
		},
		httpserver.Dependencies{
			CountryService: countrySvc,
			WarmupService:  warmupSvc,
			Cache:          cache,
			Checks:         checks,
			Validator:      validator.New(),
		},
		log.Logger,
	)

	if scheduler != nil {
		scheduler.Start(cfg.Warmup.OnStartup)
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutdown signal received")

		if scheduler != nil {
			scheduler.Stop()
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()

		if err := server.App.ShutdownWithContext(ctx); err != nil {
			log.Error("server shutdown error", zap.Error(err))
		}
	}()

	if err := server.Start(cfg.App.Port); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
