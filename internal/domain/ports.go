package domain

import (
	"context"
	"time"
)

// SnapshotInfo describes one dated snapshot file without its body.
type SnapshotInfo struct {
	Category Category
	Country  string
	Name     string    // e.g. "2025-10-25.json"
	Path     string    // store-relative location
	Date     time.Time // parsed from Name
	ModTime  time.Time // zero when the store cannot tell
	Size     int64     // -1 when the store cannot tell
}

// SnapshotStore is the read-only snapshot tree laid out as {category}/{country}/{YYYY-MM-DD}.json.
// Implementations: internal/infra/snapshot (filesystem), internal/infra/snapshot/remote (HTTP)
type SnapshotStore interface {
	// Latest returns the most recent dated snapshot for the pair.
	// Returns ErrNoData when the directory is missing or holds no dated files.
	Latest(ctx context.Context, category Category, country string) (*SnapshotInfo, error)

	// Read returns the body of a snapshot previously returned by Latest.
	Read(ctx context.Context, info *SnapshotInfo) ([]byte, error)
}

// CategoryRecord is a raw, category-specific snapshot body.
// Concrete shapes live in internal/infra/snapshot.
type CategoryRecord interface {
	// Category returns the category this record was loaded for.
	Category() Category

	// Timestamp returns the ingest time recorded in the body, or zero.
	Timestamp() time.Time
}

// TrendingSource is implemented by records that carry external trending-search terms.
type TrendingSource interface {
	TrendingTerms() []TrendingTerm
}

// LoadedRecord is a parsed record plus the snapshot it came from.
type LoadedRecord struct {
	Record   CategoryRecord
	Snapshot SnapshotInfo
	Raw      []byte // snapshot body as read
}

// UpdatedAt returns the record's own timestamp, falling back to the snapshot date.
func (l *LoadedRecord) UpdatedAt() time.Time {
	if ts := l.Record.Timestamp(); !ts.IsZero() {
		return ts
	}
	return l.Snapshot.Date
}

// CategoryLoader resolves and parses the latest snapshot for a (country, category) pair.
// Implementations: internal/infra/snapshot/loader.go
type CategoryLoader interface {
	// Load returns ErrNoData when nothing usable exists and *ParseError for malformed bodies.
	Load(ctx context.Context, country string, category Category) (*LoadedRecord, error)

	// Stat returns the snapshot Load would read, without reading it.
	Stat(ctx context.Context, country string, category Category) (*SnapshotInfo, error)
}

// Normalizer converts a raw record into common content items.
// Implementations: internal/infra/snapshot/normalize.go
type Normalizer interface {
	Normalize(record CategoryRecord) []*ContentItem
}

// Cache defines the interface for caching operations.
// Implementations: internal/infra/redis/cache.go (optional)
type Cache interface {
	// Get retrieves a value by key. Returns nil if not found.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error

	// Clear removes all cached values.
	Clear(ctx context.Context) error
}
