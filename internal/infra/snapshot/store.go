// Package snapshot reads dated category snapshots and turns them into content items.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"go.uber.org/zap"

	"country-pulse-service/internal/domain"
)

// DateLayout is the layout of snapshot file names, minus the extension.
const DateLayout = "2006-01-02"

var snapshotName = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}\.json$`)

// IsSnapshotName reports whether name follows the YYYY-MM-DD.json convention.
func IsSnapshotName(name string) bool {
	return snapshotName.MatchString(name)
}

// SnapshotDate parses the date encoded in a snapshot file name.
func SnapshotDate(name string) (time.Time, error) {
	return time.Parse(DateLayout, name[:len(DateLayout)])
}

// SelectLatest returns the lexicographically greatest snapshot name, or "" when none match.
// Zero-padded dates make lexicographic order chronological.
func SelectLatest(names []string) string {
	latest := ""
	for _, name := range names {
		if IsSnapshotName(name) && name > latest {
			latest = name
		}
	}
	return latest
}

// FileStore implements domain.SnapshotStore over a local directory tree.
// It never writes and never caches: each call re-reads the directory.
type FileStore struct {
	root   string
	logger *zap.Logger
}

// NewFileStore creates a store rooted at dir.
func NewFileStore(dir string, logger *zap.Logger) *FileStore {
	return &FileStore{
		root:   dir,
		logger: logger,
	}
}

// Root returns the store's root directory.
func (s *FileStore) Root() string {
	return s.root
}

// Ping reports whether the root directory is reachable.
func (s *FileStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fi, err := os.Stat(s.root)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return fmt.Errorf("snapshot root %s is not a directory", s.root)
	}
	return nil
}

// Latest returns the newest non-empty dated snapshot of the pair.
func (s *FileStore) Latest(ctx context.Context, category domain.Category, country string) (*domain.SnapshotInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rel := path.Join(category.Dir(), country)
	entries, err := os.ReadDir(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("snapshot directory missing",
				zap.String("category", string(category)),
				zap.String("country", country),
			)

			return nil, domain.ErrNoData
		}

		return nil, fmt.Errorf("listing %s: %w", rel, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && IsSnapshotName(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	// Newest first; empty files are skipped so "all files empty" reads as no data.
	for _, name := range names {
		fi, err := os.Stat(filepath.Join(s.root, filepath.FromSlash(rel), name))
		if err != nil {
			return nil, fmt.Errorf("stat %s/%s: %w", rel, name, err)
		}
		if fi.Size() == 0 {
			continue
		}

		date, err := SnapshotDate(name)
		if err != nil {
			continue
		}

		return &domain.SnapshotInfo{
			Category: category,
			Country:  country,
			Name:     name,
			Path:     path.Join(rel, name),
			Date:     date,
			ModTime:  fi.ModTime(),
			Size:     fi.Size(),
		}, nil
	}

	s.logger.Debug("no dated snapshots",
		zap.String("category", string(category)),
		zap.String("country", country),
	)

	return nil, domain.ErrNoData
}

// Read returns the body of a snapshot.
func (s *FileStore) Read(ctx context.Context, info *domain.SnapshotInfo) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(info.Path)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrNoData
		}

		return nil, fmt.Errorf("reading %s: %w", info.Path, err)
	}

	return data, nil
}
