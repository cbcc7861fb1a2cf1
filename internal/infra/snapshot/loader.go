package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"country-pulse-service/internal/domain"
	"country-pulse-service/internal/metrics"
)

// Loader implements domain.CategoryLoader on top of a snapshot store.
type Loader struct {
	store  domain.SnapshotStore
	logger *zap.Logger
}

// NewLoader creates a new category loader.
func NewLoader(store domain.SnapshotStore, logger *zap.Logger) *Loader {
	return &Loader{
		store:  store,
		logger: logger,
	}
}

// Stat returns the snapshot Load would read. Unknown countries are rejected
// before the store is touched.
func (l *Loader) Stat(ctx context.Context, country string, category domain.Category) (*domain.SnapshotInfo, error) {
	if !domain.IsKnownCountry(country) {
		return nil, domain.ErrUnknownCountry
	}

	return l.store.Latest(ctx, category, country)
}

// Load resolves the latest snapshot of the pair and decodes it into the category's record shape.
//
// Outcomes:
//   - domain.ErrUnknownCountry: country outside the vocabulary, no store access
//   - domain.ErrNoData: missing directory, no dated files, or only empty files
//   - *domain.ParseError: body is not JSON or does not match the category's shape
func (l *Loader) Load(ctx context.Context, country string, category domain.Category) (*domain.LoadedRecord, error) {
	info, err := l.Stat(ctx, country, category)
	if err != nil {
		metrics.SnapshotLoads.WithLabelValues(string(category), outcome(err)).Inc()
		return nil, err
	}

	body, err := l.store.Read(ctx, info)
	if err != nil {
		metrics.SnapshotLoads.WithLabelValues(string(category), outcome(err)).Inc()
		return nil, err
	}

	record, err := DecodeRecord(category, body)
	if err != nil {
		perr := &domain.ParseError{
			Category: category,
			Country:  country,
			Path:     info.Path,
			Err:      err,
		}
		metrics.SnapshotLoads.WithLabelValues(string(category), outcome(perr)).Inc()

		return nil, perr
	}

	metrics.SnapshotLoads.WithLabelValues(string(category), outcome(nil)).Inc()
	l.logger.Debug("snapshot loaded",
		zap.String("category", string(category)),
		zap.String("country", country),
		zap.String("path", info.Path),
		zap.Int("bytes", len(body)),
	)

	return &domain.LoadedRecord{
		Record:   record,
		Snapshot: *info,
		Raw:      body,
	}, nil
}

// DecodeRecord parses a snapshot body into the record shape of its category.
// snake_case keys are accepted alongside camelCase.
func DecodeRecord(category domain.Category, body []byte) (domain.CategoryRecord, error) {
	var generic any
	if err := json.Unmarshal(body, &generic); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	if _, ok := generic.(map[string]any); !ok {
		return nil, errors.New("snapshot body is not a JSON object")
	}

	normalized, err := json.Marshal(camelizeKeys(generic))
	if err != nil {
		return nil, fmt.Errorf("re-encoding snapshot: %w", err)
	}

	var record domain.CategoryRecord
	switch category {
	case domain.CategoryMemes, domain.CategoryNews, domain.CategorySports:
		record = &ItemRecord{category: category}
	case domain.CategoryPolitics:
		record = &PoliticsRecord{}
	case domain.CategoryEconomics:
		record = &EconomicsRecord{}
	case domain.CategoryTrends:
		record = &TrendsRecord{}
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownCategory, category)
	}

	if err := json.Unmarshal(normalized, record); err != nil {
		return nil, fmt.Errorf("unexpected %s shape: %w", category, err)
	}

	return record, nil
}

func outcome(err error) string {
	var perr *domain.ParseError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNoData):
		return "no_data"
	case errors.Is(err, domain.ErrUnknownCountry):
		return "unknown_country"
	case errors.As(err, &perr):
		return "parse_error"
	default:
		return "error"
	}
}
