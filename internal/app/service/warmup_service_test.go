package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"country-pulse-service/internal/domain"
	"country-pulse-service/internal/infra/redis"
	"country-pulse-service/internal/infra/snapshot"
)

func TestWarmupService_WarmAll(t *testing.T) {
	f := newFixture(t)
	f.write(t, domain.CategoryNews, "USA", "2025-10-25.json", usaNews)
	f.write(t, domain.CategoryMemes, "UK", "2025-10-25.json", usaMemes)
	f.write(t, domain.CategoryNews, "Japan", "2025-10-25.json", `{"items": [`)

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache := redis.NewCache(client, zap.NewNop(), "test")

	countries := NewCountryService(f.loader(), snapshot.NewNormalizer(), zap.NewNop(), WithCache(cache, time.Minute))
	warmup := NewWarmupService(countries, 3, zap.NewNop())

	results := warmup.WarmAll(context.Background())

	require.Len(t, results, len(domain.Countries()))
	byCountry := make(map[string]WarmupResult, len(results))
	for _, r := range results {
		byCountry[r.Country] = r
	}

	assert.Equal(t, 3, byCountry["USA"].Items)
	assert.False(t, byCountry["USA"].NoData)
	assert.Equal(t, 2, byCountry["UK"].Items)
	assert.True(t, byCountry["Japan"].NoData, "a broken snapshot contributes nothing")
	assert.True(t, byCountry["Italy"].NoData)
	for _, r := range results {
		assert.NoError(t, r.Error)
	}

	// only countries with data are cached
	assert.Len(t, mr.Keys(), 2)
}

func TestWarmupService_WarmCountry(t *testing.T) {
	f := newFixture(t)
	f.write(t, domain.CategoryNews, "USA", "2025-10-25.json", usaNews)
	warmup := NewWarmupService(newTestService(f.loader()), 0, zap.NewNop())

	result, err := warmup.WarmCountry(context.Background(), "USA")
	require.NoError(t, err)
	assert.Equal(t, 3, result.Items)

	_, err = warmup.WarmCountry(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, domain.ErrUnknownCountry)
}

func TestWarmupService_WarmAll_Cancelled(t *testing.T) {
	f := newFixture(t)
	warmup := NewWarmupService(newTestService(f.loader()), 1, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := warmup.WarmAll(ctx)

	require.Len(t, results, len(domain.Countries()))
	failed := 0
	for _, r := range results {
		if r.Error != nil {
			failed++
		}
	}
	assert.Positive(t, failed)
}
