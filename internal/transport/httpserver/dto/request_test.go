package dto

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"country-pulse-service/internal/app/service"
	"country-pulse-service/internal/domain"
	"country-pulse-service/internal/validator"
)

func TestCountryRequest_ToCategory(t *testing.T) {
	tests := []struct {
		name     string
		category string
		want     domain.Category
		wantErr  error
	}{
		{name: "default is All", category: "", want: domain.CategoryAll},
		{name: "explicit All", category: "All", want: domain.CategoryAll},
		{name: "concrete", category: "politics", want: domain.CategoryPolitics},
		{name: "case-insensitive", category: "SPORTS", want: domain.CategorySports},
		{name: "unknown", category: "weather", wantErr: domain.ErrUnknownCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := CountryRequest{Category: tt.category}

			got, err := req.ToCategory()

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCountryRequest_Validation(t *testing.T) {
	v := validator.New()

	assert.NoError(t, v.Validate(&CountryRequest{}))
	assert.NoError(t, v.Validate(&CountryRequest{Category: "memes"}))
	assert.Error(t, v.Validate(&CountryRequest{Category: "trends"}))

	assert.NoError(t, v.Validate(&CountryPath{Code: "UK"}))
	assert.Error(t, v.Validate(&CountryPath{Code: "Narnia"}))
}

func TestFromCountries(t *testing.T) {
	resp := FromCountries([]domain.Country{
		{Code: "USA", Name: "United States", Flag: "🇺🇸"},
		{Code: "Japan", Name: "Japan", Flag: "🇯🇵"},
	})

	require.Len(t, resp.Countries, 2)
	assert.Equal(t, CountryResponse{Code: "USA", Name: "United States", Flag: "🇺🇸", Slug: "united-states"}, resp.Countries[0])
	assert.Equal(t, "japan", resp.Countries[1].Slug)
}

func TestFromWarmupResults(t *testing.T) {
	resp := FromWarmupResults([]service.WarmupResult{
		{Country: "USA", Items: 12, Duration: 2 * time.Millisecond},
		{Country: "UK", Items: 3},
		{Country: "Italy", NoData: true},
		{Country: "Japan", Error: errors.New("store unreachable")},
	})

	assert.Equal(t, WarmupSummary{TotalItems: 15, Warmed: 2, NoData: 1, Failed: 1}, resp.Summary)
	require.Len(t, resp.Results, 4)
	assert.Equal(t, "2ms", resp.Results[0].Duration)
	assert.True(t, resp.Results[2].NoData)
	assert.Equal(t, "store unreachable", resp.Results[3].Error)
}

func TestFromSnapshotStatuses(t *testing.T) {
	modTime := time.Date(2025, 10, 25, 6, 30, 0, 0, time.FixedZone("CET", 3600))
	resp := FromSnapshotStatuses("USA", []service.SnapshotStatus{
		{Category: domain.CategoryMemes},
		{Category: domain.CategoryNews, Snapshot: &domain.SnapshotInfo{
			Name:    "2025-10-25.json",
			Path:    "news/USA/2025-10-25.json",
			Date:    time.Date(2025, 10, 25, 0, 0, 0, 0, time.UTC),
			ModTime: modTime,
			Size:    2048,
		}},
		{Category: domain.CategoryTrends, Snapshot: &domain.SnapshotInfo{
			Name: "2025-10-24.json",
			Date: time.Date(2025, 10, 24, 0, 0, 0, 0, time.UTC),
			Size: -1,
		}},
	})

	assert.Equal(t, "USA", resp.Country)
	require.Len(t, resp.Snapshots, 3)
	assert.Equal(t, SnapshotResponse{Category: "memes"}, resp.Snapshots[0])
	assert.Equal(t, SnapshotResponse{
		Category:  "news",
		Available: true,
		Name:      "2025-10-25.json",
		Path:      "news/USA/2025-10-25.json",
		Date:      "2025-10-25",
		ModTime:   "2025-10-25T05:30:00Z",
		Size:      2048,
	}, resp.Snapshots[1])
	assert.Empty(t, resp.Snapshots[2].ModTime, "remote stores may not report a modification time")
	assert.Equal(t, int64(-1), resp.Snapshots[2].Size)
}
