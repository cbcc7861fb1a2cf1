package job

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"country-pulse-service/internal/app/service"
	"country-pulse-service/pkg/locker"
)

type fakeWarmer struct {
	calls   atomic.Int32
	results []service.WarmupResult
}

func (w *fakeWarmer) WarmAll(_ context.Context) []service.WarmupResult {
	w.calls.Add(1)
	return w.results
}

type recordingLocker struct {
	mu       sync.Mutex
	held     bool
	err      error
	releases int
}

func (l *recordingLocker) Acquire(_ context.Context, _ string, _ time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.err != nil {
		return false, l.err
	}
	if l.held {
		return false, nil
	}
	l.held = true

	return true, nil
}

func (l *recordingLocker) Release(_ context.Context, _ string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.held = false
	l.releases++

	return nil
}

func newScheduler(w Warmer, l locker.DistributedLocker) *WarmupScheduler {
	s := NewWarmupScheduler(w, WarmupConfig{Interval: time.Hour, Timeout: time.Second}, zap.NewNop(), l)
	s.ctx, s.cancel = context.WithCancel(context.Background())

	return s
}

func TestWarmupScheduler_Success_HoldsLock(t *testing.T) {
	warmer := &fakeWarmer{results: []service.WarmupResult{{Country: "USA", Items: 3}, {Country: "UK", NoData: true}}}
	lock := &recordingLocker{}
	s := newScheduler(warmer, lock)
	defer s.cancel()

	s.executeWarmup()
	s.executeWarmup()

	assert.Equal(t, int32(1), warmer.calls.Load(), "second run is skipped during cooldown")
	assert.Zero(t, lock.releases)
}

func TestWarmupScheduler_Failure_ReleasesLock(t *testing.T) {
	warmer := &fakeWarmer{results: []service.WarmupResult{{Country: "USA", Error: errors.New("boom")}}}
	lock := &recordingLocker{}
	s := newScheduler(warmer, lock)
	defer s.cancel()

	s.executeWarmup()
	s.executeWarmup()

	assert.Equal(t, int32(2), warmer.calls.Load(), "lock is released so the next run retries")
	assert.Equal(t, 2, lock.releases)
}

func TestWarmupScheduler_LockError_Skips(t *testing.T) {
	warmer := &fakeWarmer{}
	s := newScheduler(warmer, &recordingLocker{err: errors.New("redis down")})
	defer s.cancel()

	s.executeWarmup()

	assert.Zero(t, warmer.calls.Load())
}

func TestWarmupScheduler_StartStop_RunsOnStartup(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	warmer := &fakeWarmer{results: []service.WarmupResult{{Country: "USA", Items: 1}}}
	s := NewWarmupScheduler(warmer, WarmupConfig{Interval: time.Hour, Timeout: time.Second}, zap.NewNop(), locker.NewRedisLocker(client, zap.NewNop()))

	s.Start(true)
	require.Eventually(t, func() bool { return warmer.calls.Load() == 1 }, time.Second, 10*time.Millisecond)
	s.Stop()

	assert.True(t, mr.Exists(warmupLockKey), "lock is kept for the cooldown after a successful run")
}
