package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"country-pulse-service/internal/domain"
)

// writeSnapshot writes body to root/{category dir}/{country}/{name}.
func writeSnapshot(t *testing.T, root string, category domain.Category, country, name, body string) {
	t.Helper()

	dir := filepath.Join(root, category.Dir(), country)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
}

func newTestStore(t *testing.T) (*FileStore, string) {
	t.Helper()

	root := t.TempDir()
	return NewFileStore(root, zap.NewNop()), root
}

func TestFileStore_Latest_PicksGreatestDate(t *testing.T) {
	store, root := newTestStore(t)
	writeSnapshot(t, root, domain.CategoryNews, "USA", "2025-10-24.json", `{"items":[]}`)
	writeSnapshot(t, root, domain.CategoryNews, "USA", "2025-10-26.json", `{"items":[]}`)
	writeSnapshot(t, root, domain.CategoryNews, "USA", "2025-10-25.json", `{"items":[]}`)

	info, err := store.Latest(context.Background(), domain.CategoryNews, "USA")

	require.NoError(t, err)
	assert.Equal(t, "2025-10-26.json", info.Name)
	assert.Equal(t, "news/USA/2025-10-26.json", info.Path)
	assert.Equal(t, time.Date(2025, 10, 26, 0, 0, 0, 0, time.UTC), info.Date)
	assert.False(t, info.ModTime.IsZero())
	assert.Equal(t, domain.CategoryNews, info.Category)
	assert.Equal(t, "USA", info.Country)
}

func TestFileStore_Latest_IgnoresNonDatedFiles(t *testing.T) {
	store, root := newTestStore(t)
	writeSnapshot(t, root, domain.CategoryMemes, "UK", "2025-10-20.json", `{"items":[]}`)
	writeSnapshot(t, root, domain.CategoryMemes, "UK", "latest.json", `{"items":[]}`)
	writeSnapshot(t, root, domain.CategoryMemes, "UK", "2025-10-21.json.bak", `{"items":[]}`)
	writeSnapshot(t, root, domain.CategoryMemes, "UK", "2025-13-40.json", `{"items":[]}`)

	info, err := store.Latest(context.Background(), domain.CategoryMemes, "UK")

	require.NoError(t, err)
	assert.Equal(t, "2025-10-20.json", info.Name)
}

func TestFileStore_Latest_SkipsEmptyFiles(t *testing.T) {
	store, root := newTestStore(t)
	writeSnapshot(t, root, domain.CategorySports, "India", "2025-10-20.json", `{"items":[]}`)
	writeSnapshot(t, root, domain.CategorySports, "India", "2025-10-21.json", ``)

	info, err := store.Latest(context.Background(), domain.CategorySports, "India")

	require.NoError(t, err)
	assert.Equal(t, "2025-10-20.json", info.Name)
}

func TestFileStore_Latest_NoData(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, root string)
	}{
		{
			name:  "missing category directory",
			setup: func(_ *testing.T, _ string) {},
		},
		{
			name: "missing country directory",
			setup: func(t *testing.T, root string) {
				writeSnapshot(t, root, domain.CategoryNews, "UK", "2025-10-25.json", `{}`)
			},
		},
		{
			name: "no dated files",
			setup: func(t *testing.T, root string) {
				writeSnapshot(t, root, domain.CategoryNews, "USA", "notes.txt", `hello`)
			},
		},
		{
			name: "all files empty",
			setup: func(t *testing.T, root string) {
				writeSnapshot(t, root, domain.CategoryNews, "USA", "2025-10-25.json", ``)
				writeSnapshot(t, root, domain.CategoryNews, "USA", "2025-10-24.json", ``)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, root := newTestStore(t)
			tt.setup(t, root)

			info, err := store.Latest(context.Background(), domain.CategoryNews, "USA")

			assert.ErrorIs(t, err, domain.ErrNoData)
			assert.Nil(t, info)
		})
	}
}

func TestFileStore_Read(t *testing.T) {
	store, root := newTestStore(t)
	writeSnapshot(t, root, domain.CategoryTrends, "Japan", "2025-10-25.json", `{"trending_searches":[]}`)

	info, err := store.Latest(context.Background(), domain.CategoryTrends, "Japan")
	require.NoError(t, err)
	assert.Equal(t, "google-trends/Japan/2025-10-25.json", info.Path)

	body, err := store.Read(context.Background(), info)
	require.NoError(t, err)
	assert.JSONEq(t, `{"trending_searches":[]}`, string(body))
}

func TestFileStore_ContextCancelled(t *testing.T) {
	store, _ := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Latest(ctx, domain.CategoryNews, "USA")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileStore_Ping(t *testing.T) {
	store, root := newTestStore(t)
	assert.NoError(t, store.Ping(context.Background()))

	missing := NewFileStore(filepath.Join(root, "missing"), zap.NewNop())
	assert.Error(t, missing.Ping(context.Background()))
}

func TestSelectLatest(t *testing.T) {
	tests := []struct {
		name     string
		names    []string
		expected string
	}{
		{"empty", nil, ""},
		{"single", []string{"2025-01-01.json"}, "2025-01-01.json"},
		{"unordered", []string{"2025-01-02.json", "2025-03-01.json", "2024-12-31.json"}, "2025-03-01.json"},
		{"ignores others", []string{"index.json", "2025-01-02.json", "zzz.json"}, "2025-01-02.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SelectLatest(tt.names))
		})
	}
}
