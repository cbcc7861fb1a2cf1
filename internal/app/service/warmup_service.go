package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"country-pulse-service/internal/domain"
	"country-pulse-service/internal/metrics"
)

// defaultWarmupConcurrency bounds concurrent country builds when none is configured.
const defaultWarmupConcurrency = 4

// WarmupService pre-builds the All view model of every country so the first
// request after a snapshot drop is served from cache.
type WarmupService struct {
	countries   *CountryService
	concurrency int
	logger      *zap.Logger
}

// NewWarmupService creates a new WarmupService.
func NewWarmupService(countries *CountryService, concurrency int, logger *zap.Logger) *WarmupService {
	if concurrency <= 0 {
		concurrency = defaultWarmupConcurrency
	}

	return &WarmupService{
		countries:   countries,
		concurrency: concurrency,
		logger:      logger,
	}
}

// WarmupResult holds the result of warming one country.
type WarmupResult struct {
	Country  string
	Items    int
	NoData   bool
	Duration time.Duration
	Error    error
}

// WarmAll builds every country concurrently. Countries without data are
// reported with NoData set, not as errors. Partial failures are allowed.
func (s *WarmupService) WarmAll(ctx context.Context) []WarmupResult {
	countries := domain.Countries()
	results := make([]WarmupResult, len(countries))
	semaphore := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup

	s.logger.Info("starting cache warm-up",
		zap.Int("country_count", len(countries)),
		zap.Int("concurrency", s.concurrency),
	)

	for i, country := range countries {
		select {
		case <-ctx.Done():
			results[i] = WarmupResult{Country: country.Code, Error: ctx.Err()}
			continue
		case semaphore <- struct{}{}:
		}

		wg.Add(1)
		go func(idx int, code string) {
			defer wg.Done()
			defer func() { <-semaphore }()
			results[idx] = s.warmCountry(ctx, code)
		}(i, country.Code)
	}

	wg.Wait()

	warmed, empty, failed := 0, 0, 0
	for _, r := range results {
		switch {
		case r.Error != nil:
			failed++
		case r.NoData:
			empty++
		default:
			warmed++
		}
	}

	status := "ok"
	if failed > 0 {
		status = "partial"
	}
	metrics.WarmupRuns.WithLabelValues(status).Inc()

	s.logger.Info("cache warm-up completed",
		zap.Int("warmed", warmed),
		zap.Int("no_data", empty),
		zap.Int("failed", failed),
	)

	return results
}

// WarmCountry builds the All view model of a single country.
func (s *WarmupService) WarmCountry(ctx context.Context, code string) (*WarmupResult, error) {
	if !domain.IsKnownCountry(code) {
		return nil, domain.ErrUnknownCountry
	}

	result := s.warmCountry(ctx, code)
	return &result, result.Error
}

func (s *WarmupService) warmCountry(ctx context.Context, code string) WarmupResult {
	start := time.Now()
	result := WarmupResult{Country: code}

	data, err := s.countries.Get(ctx, code, domain.CategoryAll)
	result.Duration = time.Since(start)

	switch {
	case errors.Is(err, domain.ErrNoData):
		result.NoData = true
		s.logger.Debug("nothing to warm", zap.String("country", code))
	case err != nil:
		result.Error = err
		s.logger.Warn("country warm-up failed",
			zap.String("country", code),
			zap.Error(err),
		)
	default:
		result.Items = data.CategoryMetrics.TotalPosts
		s.logger.Debug("country warmed",
			zap.String("country", code),
			zap.Int("items", result.Items),
			zap.Duration("duration", result.Duration),
		)
	}

	return result
}
