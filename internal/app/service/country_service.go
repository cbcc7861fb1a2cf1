// Package service provides application use cases.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"country-pulse-service/internal/domain"
	"country-pulse-service/internal/metrics"
)

// CountryService assembles per-country view models from category snapshots.
type CountryService struct {
	loader     domain.CategoryLoader
	normalizer domain.Normalizer
	cache      domain.Cache
	cacheTTL   time.Duration
	rnd        domain.Randomizer
	now        func() time.Time
	logger     *zap.Logger
}

// CountryOption configures a CountryService.
type CountryOption func(*CountryService)

// WithCache stores assembled view models in cache for ttl.
func WithCache(cache domain.Cache, ttl time.Duration) CountryOption {
	return func(s *CountryService) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

// WithRandomizer replaces the source used for the sentiment trend and summary text.
func WithRandomizer(rnd domain.Randomizer) CountryOption {
	return func(s *CountryService) {
		s.rnd = rnd
	}
}

// WithClock replaces the clock used for lastUpdated in All mode.
func WithClock(now func() time.Time) CountryOption {
	return func(s *CountryService) {
		s.now = now
	}
}

// NewCountryService creates a new CountryService.
func NewCountryService(loader domain.CategoryLoader, normalizer domain.Normalizer, logger *zap.Logger, opts ...CountryOption) *CountryService {
	s := &CountryService{
		loader:     loader,
		normalizer: normalizer,
		rnd:        domain.SystemRandom(),
		now:        time.Now,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Countries returns the known country vocabulary.
func (s *CountryService) Countries() []domain.Country {
	return domain.Countries()
}

// GetBySlug resolves a URL slug to a country code and builds its view model.
func (s *CountryService) GetBySlug(ctx context.Context, slug string, category domain.Category) (*domain.CountryData, error) {
	code, err := domain.CodeFromSlug(slug)
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, code, category)
}

// Get builds the view model of a country for one category, or for every
// concrete category when category is domain.CategoryAll.
//
// Returns domain.ErrUnknownCountry before any snapshot is read, and
// domain.ErrNoData when nothing usable exists for the request.
func (s *CountryService) Get(ctx context.Context, code string, category domain.Category) (*domain.CountryData, error) {
	country, err := domain.LookupCountry(code)
	if err != nil {
		metrics.ViewModelBuilds.WithLabelValues(string(category), "unknown_country").Inc()
		return nil, err
	}

	key := s.cacheKey(ctx, country.Code, category)
	if data := s.fromCache(ctx, key); data != nil {
		return data, nil
	}

	start := time.Now()
	var data *domain.CountryData
	if category == domain.CategoryAll {
		data, err = s.buildAll(ctx, country)
	} else {
		data, err = s.buildCategory(ctx, country, category)
	}
	metrics.ViewModelBuildDuration.WithLabelValues(string(category)).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ViewModelBuilds.WithLabelValues(string(category), buildOutcome(err)).Inc()
		return nil, err
	}
	metrics.ViewModelBuilds.WithLabelValues(string(category), "ok").Inc()

	s.toCache(ctx, key, data)

	return data, nil
}

// buildCategory runs load, normalize, derive and package for a single category.
func (s *CountryService) buildCategory(ctx context.Context, country domain.Country, category domain.Category) (*domain.CountryData, error) {
	loaded, err := s.loader.Load(ctx, country.Code, category)
	if err != nil {
		var perr *domain.ParseError
		if errors.As(err, &perr) {
			s.logger.Warn("snapshot parse failed",
				zap.String("country", country.Code),
				zap.String("category", string(category)),
				zap.String("path", perr.Path),
				zap.Error(perr.Err),
			)

			return nil, fmt.Errorf("%w: %w", domain.ErrNoData, err)
		}

		return nil, err
	}

	items := s.normalizer.Normalize(loaded.Record)
	if len(items) == 0 {
		s.logger.Debug("category has no items",
			zap.String("country", country.Code),
			zap.String("category", string(category)),
		)

		return nil, domain.ErrNoData
	}

	m := domain.DeriveMetrics(items, s.trending(ctx, country.Code), s.rnd)
	summary := domain.MoodSummary(m.DominantMood, country.Name, category, s.rnd)

	data := domain.NewCountryData(country, category, m, summary, loaded.UpdatedAt())
	data.CategoryData = json.RawMessage(loaded.Raw)

	return data, nil
}

// categoryResult holds one category's contribution to an All view model.
type categoryResult struct {
	category domain.Category
	items    []*domain.ContentItem
	err      error
}

// buildAll loads every concrete category concurrently and derives metrics over
// the concatenated item pool. Failed categories contribute nothing.
func (s *CountryService) buildAll(ctx context.Context, country domain.Country) (*domain.CountryData, error) {
	results := make([]categoryResult, len(domain.ConcreteCategories))
	var trending []domain.TrendingTerm
	var wg sync.WaitGroup

	for i, category := range domain.ConcreteCategories {
		wg.Add(1)
		go func(idx int, c domain.Category) {
			defer wg.Done()
			results[idx] = s.loadItems(ctx, country.Code, c)
		}(i, category)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		trending = s.trending(ctx, country.Code)
	}()

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Concatenate in declaration order so the pool does not depend on completion order.
	var pool []*domain.ContentItem
	breakdown := make(map[domain.Category]domain.CategorySummary, len(results))
	for _, r := range results {
		if r.err != nil {
			continue
		}
		pool = append(pool, r.items...)
		breakdown[r.category] = domain.CategorySummary{
			Count:             len(r.items),
			DominantSentiment: domain.CountSentiments(r.items).Dominant(),
		}
	}

	s.logger.Debug("all categories loaded",
		zap.String("country", country.Code),
		zap.Int("categories", len(breakdown)),
		zap.Int("items", len(pool)),
	)

	if len(pool) == 0 {
		return nil, domain.ErrNoData
	}

	m := domain.DeriveMetrics(pool, trending, s.rnd)
	summary := domain.MoodSummary(m.DominantMood, country.Name, domain.CategoryAll, s.rnd)

	data := domain.NewCountryData(country, domain.CategoryAll, m, summary, s.now().UTC())
	data.CategoryBreakdown = breakdown

	return data, nil
}

// loadItems loads and normalizes one category. Errors are logged here and
// returned only so the caller can leave the category out of the breakdown.
func (s *CountryService) loadItems(ctx context.Context, code string, category domain.Category) categoryResult {
	result := categoryResult{category: category}

	loaded, err := s.loader.Load(ctx, code, category)
	if err != nil {
		result.err = err

		var perr *domain.ParseError
		switch {
		case errors.Is(err, domain.ErrNoData):
			s.logger.Debug("no data for category",
				zap.String("country", code),
				zap.String("category", string(category)),
			)
		case errors.As(err, &perr):
			s.logger.Warn("snapshot parse failed",
				zap.String("country", code),
				zap.String("category", string(category)),
				zap.String("path", perr.Path),
				zap.Error(perr.Err),
			)
		default:
			s.logger.Error("category load failed",
				zap.String("country", code),
				zap.String("category", string(category)),
				zap.Error(err),
			)
		}

		return result
	}

	result.items = s.normalizer.Normalize(loaded.Record)

	return result
}

// trending returns the country's external trending-search terms, or nil when
// no trends snapshot is usable.
func (s *CountryService) trending(ctx context.Context, code string) []domain.TrendingTerm {
	loaded, err := s.loader.Load(ctx, code, domain.CategoryTrends)
	if err != nil {
		s.logger.Debug("trending terms unavailable",
			zap.String("country", code),
			zap.Error(err),
		)

		return nil
	}

	source, ok := loaded.Record.(domain.TrendingSource)
	if !ok {
		return nil
	}

	return source.TrendingTerms()
}

// SnapshotStatus is the latest snapshot of one category, or nil when it has none.
type SnapshotStatus struct {
	Category domain.Category
	Snapshot *domain.SnapshotInfo
}

// Snapshots reports the snapshot each category of a country would be built
// from, trends included, in merge order.
func (s *CountryService) Snapshots(ctx context.Context, code string) ([]SnapshotStatus, error) {
	if _, err := domain.LookupCountry(code); err != nil {
		return nil, err
	}

	categories := append(domain.ConcreteCategories[:len(domain.ConcreteCategories):len(domain.ConcreteCategories)], domain.CategoryTrends)
	statuses := make([]SnapshotStatus, 0, len(categories))
	for _, c := range categories {
		info, err := s.loader.Stat(ctx, code, c)
		if err != nil && !errors.Is(err, domain.ErrNoData) {
			return nil, fmt.Errorf("stat %s snapshot: %w", c, err)
		}
		statuses = append(statuses, SnapshotStatus{Category: c, Snapshot: info})
	}

	return statuses, nil
}

// Fingerprint identifies the snapshots a view model of (code, category) would
// be built from. It changes whenever any of those snapshots is replaced.
func (s *CountryService) Fingerprint(ctx context.Context, code string, category domain.Category) (string, error) {
	categories := []domain.Category{category}
	if category == domain.CategoryAll {
		categories = domain.ConcreteCategories
	}
	categories = append(categories[:len(categories):len(categories)], domain.CategoryTrends)

	h := xxhash.New()
	for _, c := range categories {
		_, _ = h.WriteString(string(c))
		_, _ = h.WriteString("=")

		info, err := s.loader.Stat(ctx, code, c)
		switch {
		case err == nil:
			_, _ = h.WriteString(info.Path)
			_, _ = h.WriteString("@")
			_, _ = h.WriteString(strconv.FormatInt(info.Size, 10))
			_, _ = h.WriteString("@")
			_, _ = h.WriteString(strconv.FormatInt(info.ModTime.UnixNano(), 10))
		case errors.Is(err, domain.ErrNoData):
			_, _ = h.WriteString("-")
		default:
			return "", err
		}
		_, _ = h.WriteString(";")
	}

	return strconv.FormatUint(h.Sum64(), 16), nil
}

func (s *CountryService) cacheKey(ctx context.Context, code string, category domain.Category) string {
	if s.cache == nil {
		return ""
	}

	fp, err := s.Fingerprint(ctx, code, category)
	if err != nil {
		s.logger.Warn("snapshot fingerprint failed, bypassing cache",
			zap.String("country", code),
			zap.String("category", string(category)),
			zap.Error(err),
		)

		return ""
	}

	return viewKey(code, category, fp)
}

func (s *CountryService) fromCache(ctx context.Context, key string) *domain.CountryData {
	if key == "" {
		return nil
	}

	cached, err := s.cache.Get(ctx, key)
	if err != nil || cached == nil {
		return nil
	}

	var data domain.CountryData
	if err := json.Unmarshal(cached, &data); err != nil {
		s.logger.Warn("discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		_ = s.cache.Delete(ctx, key)

		return nil
	}

	return &data
}

func (s *CountryService) toCache(ctx context.Context, key string, data *domain.CountryData) {
	if key == "" {
		return
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		s.logger.Warn("encoding view model for cache failed", zap.Error(err))
		return
	}

	// Cache failures never fail the request.
	_ = s.cache.Set(ctx, key, encoded, s.cacheTTL)
}

// viewKey builds the cache key of a view model. A replaced snapshot changes the
// fingerprint and so the key, leaving the stale entry to expire.
func viewKey(code string, category domain.Category, fingerprint string) string {
	return strings.Join([]string{"view", code, strings.ToLower(string(category)), fingerprint}, ":")
}

func buildOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoData):
		return "no_data"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}
