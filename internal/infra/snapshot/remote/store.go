package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"country-pulse-service/internal/domain"
	"country-pulse-service/internal/infra/snapshot"
)

// IndexFile is the listing published next to the snapshots of every
// {category}/{country} directory.
const IndexFile = "index.json"

// Index is the body of an IndexFile.
type Index struct {
	Files []IndexEntry `json:"files"`
}

// IndexEntry describes one listed file. Size is optional; a listed size of
// zero marks an empty snapshot.
type IndexEntry struct {
	Name    string     `json:"name"`
	Size    *int64     `json:"size,omitempty"`
	ModTime *time.Time `json:"modTime,omitempty"`
}

// Store implements domain.SnapshotStore over HTTP.
type Store struct {
	client *resty.Client
	cb     *gobreaker.CircuitBreaker[*resty.Response]
	logger *zap.Logger
}

// New creates a remote snapshot store.
func New(cfg ClientConfig, logger *zap.Logger) *Store {
	return &Store{
		client: NewRestyClient(cfg),
		cb:     NewCircuitBreaker[*resty.Response]("snapshot_host", cfg.CB, logger),
		logger: logger,
	}
}

// Latest reads the directory index and returns the newest non-empty dated snapshot.
func (s *Store) Latest(ctx context.Context, category domain.Category, country string) (*domain.SnapshotInfo, error) {
	rel := path.Join(category.Dir(), country)

	resp, err := s.get(ctx, path.Join(rel, IndexFile))
	if err != nil {
		return nil, err
	}

	var idx Index
	if err := json.Unmarshal(resp.Body(), &idx); err != nil {
		return nil, fmt.Errorf("decoding %s index: %w", rel, err)
	}

	entries := make(map[string]IndexEntry, len(idx.Files))
	names := make([]string, 0, len(idx.Files))
	for _, e := range idx.Files {
		if e.Size != nil && *e.Size == 0 {
			continue
		}
		entries[e.Name] = e
		names = append(names, e.Name)
	}

	name := snapshot.SelectLatest(names)
	if name == "" {
		s.logger.Debug("no dated snapshots listed",
			zap.String("category", string(category)),
			zap.String("country", country),
		)

		return nil, domain.ErrNoData
	}

	date, err := snapshot.SnapshotDate(name)
	if err != nil {
		return nil, fmt.Errorf("parsing snapshot date of %s: %w", name, err)
	}

	info := &domain.SnapshotInfo{
		Category: category,
		Country:  country,
		Name:     name,
		Path:     path.Join(rel, name),
		Date:     date,
		Size:     -1,
	}
	if e := entries[name]; e.Size != nil {
		info.Size = *e.Size
	}
	if e := entries[name]; e.ModTime != nil {
		info.ModTime = e.ModTime.UTC()
	}

	return info, nil
}

// Read downloads a snapshot body. Empty bodies read as no data.
func (s *Store) Read(ctx context.Context, info *domain.SnapshotInfo) ([]byte, error) {
	resp, err := s.get(ctx, info.Path)
	if err != nil {
		return nil, err
	}

	body := resp.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, domain.ErrNoData
	}

	return body, nil
}

// Ping reports whether the snapshot host is reachable and the breaker is closed.
func (s *Store) Ping(ctx context.Context) error {
	if s.cb.State() == gobreaker.StateOpen {
		return gobreaker.ErrOpenState
	}

	resp, err := s.client.R().
		SetContext(ctx).
		Head("/")
	if err != nil {
		return err
	}
	if resp.StatusCode() >= http.StatusInternalServerError {
		return fmt.Errorf("snapshot host returned status %d", resp.StatusCode())
	}

	return nil
}

func (s *Store) get(ctx context.Context, p string) (*resty.Response, error) {
	resp, err := s.cb.Execute(func() (*resty.Response, error) {
		r, err := s.client.R().
			SetContext(ctx).
			Get("/" + p)
		if err != nil {
			return nil, err
		}
		if r.StatusCode() == http.StatusNotFound {
			return nil, domain.ErrNoData
		}
		if r.IsError() {
			return nil, fmt.Errorf("snapshot host returned status %d", r.StatusCode())
		}

		return r, nil
	})

	if err != nil {
		if errors.Is(err, domain.ErrNoData) {
			s.logger.Debug("snapshot not found", zap.String("path", p))

			return nil, err
		}

		s.logger.Warn("snapshot fetch failed",
			zap.String("path", p),
			zap.Error(err),
			zap.String("state", s.cb.State().String()),
		)

		return nil, fmt.Errorf("fetching %s: %w", p, err)
	}

	return resp, nil
}
