// Package job provides background job schedulers.
package job

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"country-pulse-service/internal/app/service"
	"country-pulse-service/pkg/locker"
)

// warmupLockKey guards warm-up runs across instances.
const warmupLockKey = "warmup:scheduler:lock"

// Warmer builds and caches view models for every country.
type Warmer interface {
	WarmAll(ctx context.Context) []service.WarmupResult
}

// WarmupScheduler runs periodic cache warm-ups. A distributed lock ensures
// only one instance warms per interval.
type WarmupScheduler struct {
	warmer   Warmer
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger
	locker   locker.DistributedLocker

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// WarmupConfig holds warm-up scheduler configuration.
type WarmupConfig struct {
	Interval  time.Duration
	Timeout   time.Duration
	OnStartup bool
}

// NewWarmupScheduler creates a new WarmupScheduler.
func NewWarmupScheduler(warmer Warmer, cfg WarmupConfig, logger *zap.Logger, locker locker.DistributedLocker) *WarmupScheduler {
	return &WarmupScheduler{
		warmer:   warmer,
		interval: cfg.Interval,
		timeout:  cfg.Timeout,
		logger:   logger,
		locker:   locker,
	}
}

// Start begins the background warm-up loop.
func (s *WarmupScheduler) Start(runOnStartup bool) {
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.logger.Info("starting warm-up scheduler",
		zap.Duration("interval", s.interval),
		zap.Bool("run_on_startup", runOnStartup),
	)

	s.wg.Add(1)
	go s.run(runOnStartup)
}

// Stop cancels a running warm-up and waits for the loop to exit.
func (s *WarmupScheduler) Stop() {
	s.logger.Info("stopping warm-up scheduler")
	s.cancel()
	s.wg.Wait()
	s.logger.Info("warm-up scheduler stopped")
}

func (s *WarmupScheduler) run(runOnStartup bool) {
	defer s.wg.Done()

	if runOnStartup {
		s.executeWarmup()
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.executeWarmup()
		}
	}
}

// executeWarmup runs one warm-up under the distributed lock.
//
// The lock TTL is the interval (cooldown model): on success it is left to
// expire so no other instance repeats the work this interval; on any failure
// it is released so another instance can retry right away.
func (s *WarmupScheduler) executeWarmup() {
	acquired, err := s.locker.Acquire(s.ctx, warmupLockKey, s.interval)
	if err != nil {
		s.logger.Error("failed to acquire distributed lock", zap.Error(err))

		return
	}
	if !acquired {
		s.logger.Debug("another instance is warming the cache, skipping execution")

		return
	}

	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	results := s.warmer.WarmAll(ctx)

	warmed, failed := 0, 0
	for _, r := range results {
		if r.Error != nil {
			failed++
			continue
		}
		if !r.NoData {
			warmed++
		}
	}

	if failed > 0 {
		// Use a fresh context: s.ctx may already be cancelled during shutdown.
		releaseCtx, releaseCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer releaseCancel()

		if err := s.locker.Release(releaseCtx, warmupLockKey); err != nil {
			s.logger.Error("failed to release lock after warm-up error", zap.Error(err))
		}
		s.logger.Info("warm-up completed with errors, lock released for retry",
			zap.Int("warmed", warmed),
			zap.Int("failed", failed),
		)

		return
	}

	s.logger.Info("warm-up completed, lock held for cooldown",
		zap.Int("warmed", warmed),
		zap.Duration("cooldown", s.interval),
	)
}
