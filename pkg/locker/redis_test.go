package locker

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testLockKey = "warmup:lock"

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}

func TestRedisLocker_Acquire(t *testing.T) {
	client, mr := setupTestRedis(t)
	locker := NewRedisLocker(client, zap.NewNop())

	acquired, err := locker.Acquire(context.Background(), testLockKey, 5*time.Second)

	require.NoError(t, err)
	assert.True(t, acquired)
	assert.True(t, mr.Exists(testLockKey))
}

func TestRedisLocker_Acquire_AlreadyHeld(t *testing.T) {
	client, _ := setupTestRedis(t)
	first := NewRedisLocker(client, zap.NewNop())
	second := NewRedisLocker(client, zap.NewNop())
	ctx := context.Background()

	acquired, err := first.Acquire(ctx, testLockKey, 5*time.Second)
	require.NoError(t, err)
	require.True(t, acquired)

	acquired, err = second.Acquire(ctx, testLockKey, 5*time.Second)
	require.NoError(t, err)
	assert.False(t, acquired, "held lock is reported as not acquired, not as an error")
}

func TestRedisLocker_Release(t *testing.T) {
	client, _ := setupTestRedis(t)
	locker := NewRedisLocker(client, zap.NewNop())
	ctx := context.Background()

	acquired, err := locker.Acquire(ctx, testLockKey, 5*time.Second)
	require.NoError(t, err)
	require.True(t, acquired)

	require.NoError(t, locker.Release(ctx, testLockKey))

	acquired, err = locker.Acquire(ctx, testLockKey, 5*time.Second)
	require.NoError(t, err)
	assert.True(t, acquired, "lock can be taken again after release")
}

func TestRedisLocker_Release_NotOwned(t *testing.T) {
	client, mr := setupTestRedis(t)
	owner := NewRedisLocker(client, zap.NewNop())
	other := NewRedisLocker(client, zap.NewNop())
	ctx := context.Background()

	acquired, err := owner.Acquire(ctx, testLockKey, 5*time.Second)
	require.NoError(t, err)
	require.True(t, acquired)

	require.NoError(t, other.Release(ctx, testLockKey))
	assert.True(t, mr.Exists(testLockKey), "a non-owner release leaves the lock in place")

	require.NoError(t, owner.Release(ctx, testLockKey))
	assert.False(t, mr.Exists(testLockKey))
}

func TestRedisLocker_Release_Expired(t *testing.T) {
	client, mr := setupTestRedis(t)
	locker := NewRedisLocker(client, zap.NewNop())
	ctx := context.Background()

	acquired, err := locker.Acquire(ctx, testLockKey, 2*time.Second)
	require.NoError(t, err)
	require.True(t, acquired)

	mr.FastForward(3 * time.Second)

	assert.NoError(t, locker.Release(ctx, testLockKey))
}

func TestRedisLocker_KeyPrefix(t *testing.T) {
	client, mr := setupTestRedis(t)
	locker := NewRedisLocker(client, zap.NewNop(), WithKeyPrefix("country-pulse"))
	ctx := context.Background()

	acquired, err := locker.Acquire(ctx, testLockKey, 5*time.Second)
	require.NoError(t, err)
	require.True(t, acquired)
	assert.True(t, mr.Exists("country-pulse:"+testLockKey))

	require.NoError(t, locker.Release(ctx, testLockKey))
	assert.False(t, mr.Exists("country-pulse:"+testLockKey))
}

func TestRedisLocker_ConcurrentAcquisition(t *testing.T) {
	client, _ := setupTestRedis(t)

	const instances = 5
	results := make(chan bool, instances)
	for i := 0; i < instances; i++ {
		go func() {
			acquired, _ := NewRedisLocker(client, zap.NewNop()).Acquire(context.Background(), testLockKey, 2*time.Second)
			results <- acquired
		}()
	}

	successCount := 0
	for i := 0; i < instances; i++ {
		if <-results {
			successCount++
		}
	}

	assert.Equal(t, 1, successCount, "exactly one instance acquires the lock")
}

func TestRedisLocker_ContextCancellation(t *testing.T) {
	client, _ := setupTestRedis(t)
	locker := NewRedisLocker(client, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	acquired, err := locker.Acquire(ctx, testLockKey, 5*time.Second)

	assert.Error(t, err)
	assert.False(t, acquired)
}
