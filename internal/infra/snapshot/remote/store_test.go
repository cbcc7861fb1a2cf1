package remote

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"country-pulse-service/internal/domain"
	"country-pulse-service/internal/infra/snapshot"
)

const (
	testBaseURL   = "https://snapshots.example.com"
	newsIndexURL  = testBaseURL + "/news/USA/index.json"
	newsLatestURL = testBaseURL + "/news/USA/2025-10-26.json"
)

func newTestStore() *Store {
	cfg := ClientConfig{
		BaseURL: testBaseURL,
		Timeout: 5 * time.Second,
		Retry: RetryConfig{
			MaxAttempts: 2,
			WaitTime:    10 * time.Millisecond,
			MaxWaitTime: 50 * time.Millisecond,
		},
		CB: CBConfig{
			MaxRequests:  5,
			Interval:     60 * time.Second,
			Timeout:      15 * time.Second,
			FailureRatio: 0.6,
		},
	}
	store := New(cfg, zap.NewNop())

	httpmock.ActivateNonDefault(store.client.GetClient())

	return store
}

func size(n int64) *int64 { return &n }

func TestStore_Latest_PicksNewestListed(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	modTime := time.Date(2025, 10, 26, 6, 0, 0, 0, time.UTC)
	httpmock.RegisterResponder("GET", newsIndexURL,
		httpmock.NewJsonResponderOrPanic(200, Index{Files: []IndexEntry{
			{Name: "2025-10-24.json", Size: size(120)},
			{Name: "2025-10-26.json", Size: size(340), ModTime: &modTime},
			{Name: "2025-10-27.json", Size: size(0)},
			{Name: "index.json"},
			{Name: "2025-10-25.json"},
		}}))

	store := newTestStore()
	info, err := store.Latest(context.Background(), domain.CategoryNews, "USA")

	require.NoError(t, err)
	assert.Equal(t, "2025-10-26.json", info.Name)
	assert.Equal(t, "news/USA/2025-10-26.json", info.Path)
	assert.Equal(t, time.Date(2025, 10, 26, 0, 0, 0, 0, time.UTC), info.Date)
	assert.Equal(t, int64(340), info.Size)
	assert.Equal(t, modTime, info.ModTime)
}

func TestStore_Latest_UnknownSize(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", newsIndexURL,
		httpmock.NewStringResponder(200, `{"files":[{"name":"2025-10-26.json"}]}`))

	store := newTestStore()
	info, err := store.Latest(context.Background(), domain.CategoryNews, "USA")

	require.NoError(t, err)
	assert.Equal(t, int64(-1), info.Size)
	assert.True(t, info.ModTime.IsZero())
}

func TestStore_Latest_NoData(t *testing.T) {
	tests := []struct {
		name      string
		responder httpmock.Responder
	}{
		{"directory missing", httpmock.NewStringResponder(404, "Not Found")},
		{"empty listing", httpmock.NewStringResponder(200, `{"files":[]}`)},
		{"no dated files", httpmock.NewStringResponder(200, `{"files":[{"name":"README.md"}]}`)},
		{"only empty files", httpmock.NewStringResponder(200, `{"files":[{"name":"2025-10-26.json","size":0}]}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer httpmock.DeactivateAndReset()

			httpmock.RegisterResponder("GET", newsIndexURL, tt.responder)

			store := newTestStore()
			info, err := store.Latest(context.Background(), domain.CategoryNews, "USA")

			assert.ErrorIs(t, err, domain.ErrNoData)
			assert.Nil(t, info)
		})
	}
}

func TestStore_Latest_NotFoundIsNotRetried(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", newsIndexURL, httpmock.NewStringResponder(404, "Not Found"))

	store := newTestStore()
	_, err := store.Latest(context.Background(), domain.CategoryNews, "USA")

	require.ErrorIs(t, err, domain.ErrNoData)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestStore_Latest_InvalidIndex(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", newsIndexURL, httpmock.NewStringResponder(200, `<html>`))

	store := newTestStore()
	_, err := store.Latest(context.Background(), domain.CategoryNews, "USA")

	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNoData)
	assert.Contains(t, err.Error(), "decoding news/USA index")
}

func TestStore_Read(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", newsLatestURL,
		httpmock.NewStringResponder(200, `{"items":[{"id":"n1","title":"Hello"}]}`))

	store := newTestStore()
	body, err := store.Read(context.Background(), &domain.SnapshotInfo{Path: "news/USA/2025-10-26.json"})

	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[{"id":"n1","title":"Hello"}]}`, string(body))
}

func TestStore_Read_EmptyBody(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", newsLatestURL, httpmock.NewStringResponder(200, "  \n"))

	store := newTestStore()
	_, err := store.Read(context.Background(), &domain.SnapshotInfo{Path: "news/USA/2025-10-26.json"})

	assert.ErrorIs(t, err, domain.ErrNoData)
}

func TestStore_ServerError_RetriedThenFails(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", newsIndexURL, httpmock.NewStringResponder(503, "Unavailable"))

	store := newTestStore()
	_, err := store.Latest(context.Background(), domain.CategoryNews, "USA")

	require.Error(t, err)
	assert.Contains(t, err.Error(), fmt.Sprintf("status %d", 503))
	// 1 initial request + 2 retries
	assert.Equal(t, 3, httpmock.GetTotalCallCount())
}

func TestStore_Retry_RecoversFromServerError(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	callCount := 0
	httpmock.RegisterResponder("GET", newsIndexURL,
		func(_ *http.Request) (*http.Response, error) {
			callCount++
			if callCount < 2 {
				return httpmock.NewStringResponse(500, "Server Error"), nil
			}

			return httpmock.NewStringResponse(200, `{"files":[{"name":"2025-10-26.json"}]}`), nil
		})

	store := newTestStore()
	info, err := store.Latest(context.Background(), domain.CategoryNews, "USA")

	require.NoError(t, err)
	assert.Equal(t, "2025-10-26.json", info.Name)
	assert.Equal(t, 2, callCount)
}

func TestStore_CircuitBreaker_Opens(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", newsIndexURL, httpmock.NewStringResponder(500, "Internal Server Error"))

	store := newTestStore()
	for i := 0; i < 3; i++ {
		_, err := store.Latest(context.Background(), domain.CategoryNews, "USA")
		require.Error(t, err)
	}

	start := time.Now()
	_, err := store.Latest(context.Background(), domain.CategoryNews, "USA")
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker is open")
	assert.Less(t, elapsed.Milliseconds(), int64(100))
	assert.Error(t, store.Ping(context.Background()))
}

func TestStore_CircuitBreaker_IgnoresMissingSnapshots(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", newsIndexURL, httpmock.NewStringResponder(404, "Not Found"))

	store := newTestStore()
	for i := 0; i < 5; i++ {
		_, err := store.Latest(context.Background(), domain.CategoryNews, "USA")
		require.ErrorIs(t, err, domain.ErrNoData)
	}

	_, err := store.Latest(context.Background(), domain.CategoryNews, "USA")
	assert.ErrorIs(t, err, domain.ErrNoData, "missing snapshots must not trip the breaker")
}

func TestStore_ContextCancellation(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", newsIndexURL,
		func(_ *http.Request) (*http.Response, error) {
			time.Sleep(200 * time.Millisecond)

			return httpmock.NewStringResponse(200, `{"files":[]}`), nil
		})

	store := newTestStore()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := store.Latest(ctx, domain.CategoryNews, "USA")

	require.Error(t, err)
}

func TestStore_Ping(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("HEAD", testBaseURL+"/", httpmock.NewStringResponder(200, ""))

	store := newTestStore()
	assert.NoError(t, store.Ping(context.Background()))
}

func TestStore_WithLoader(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", newsIndexURL,
		httpmock.NewStringResponder(200, `{"files":[{"name":"2025-10-26.json","size":64}]}`))
	httpmock.RegisterResponder("GET", newsLatestURL,
		httpmock.NewStringResponder(200, `{"timestamp":"2025-10-26T09:00:00Z","items":[{"id":"n1","title":"Hello","source_platform":"news"}]}`))

	loader := snapshot.NewLoader(newTestStore(), zap.NewNop())
	loaded, err := loader.Load(context.Background(), "USA", domain.CategoryNews)

	require.NoError(t, err)
	items := snapshot.NewNormalizer().Normalize(loaded.Record)
	require.Len(t, items, 1)
	assert.Equal(t, "Hello", items[0].Title)
	assert.Equal(t, time.Date(2025, 10, 26, 9, 0, 0, 0, time.UTC), loaded.UpdatedAt())
}
