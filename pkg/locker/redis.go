package locker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisLocker implements DistributedLocker with redsync (Redlock on a single pool).
type RedisLocker struct {
	rs        *redsync.Redsync
	logger    *zap.Logger
	keyPrefix string

	mu      sync.Mutex
	mutexes map[string]*redsync.Mutex
}

// Option configures a RedisLocker.
type Option func(*RedisLocker)

// WithKeyPrefix namespaces lock keys, e.g. "country-pulse" turns "warmup" into "country-pulse:warmup".
func WithKeyPrefix(prefix string) Option {
	return func(r *RedisLocker) {
		r.keyPrefix = prefix
	}
}

// NewRedisLocker creates a Redis-based distributed locker.
func NewRedisLocker(client *redis.Client, logger *zap.Logger, opts ...Option) *RedisLocker {
	r := &RedisLocker{
		rs:      redsync.New(goredis.NewPool(client)),
		logger:  logger,
		mutexes: make(map[string]*redsync.Mutex),
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Acquire makes a single non-blocking attempt to take the lock.
func (r *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	name := r.name(key)
	mutex := r.rs.NewMutex(name,
		redsync.WithExpiry(ttl),
		redsync.WithTries(1),
	)

	if err := mutex.LockContext(ctx); err != nil {
		var taken *redsync.ErrTaken
		if errors.Is(err, redsync.ErrFailed) || errors.As(err, &taken) {
			r.logger.Debug("lock already held by another instance", zap.String("key", name))

			return false, nil
		}

		return false, fmt.Errorf("acquire lock %s: %w", name, err)
	}

	r.mu.Lock()
	r.mutexes[key] = mutex
	r.mu.Unlock()

	r.logger.Debug("lock acquired",
		zap.String("key", name),
		zap.Duration("ttl", ttl),
	)

	return true, nil
}

// Release unlocks key if this instance took it. redsync checks the lock
// token, so an expired lock re-taken elsewhere is left alone.
func (r *RedisLocker) Release(ctx context.Context, key string) error {
	r.mu.Lock()
	mutex, exists := r.mutexes[key]
	delete(r.mutexes, key)
	r.mu.Unlock()

	if !exists {
		return nil
	}

	ok, err := mutex.UnlockContext(ctx)
	if err != nil {
		var taken *redsync.ErrTaken
		if errors.Is(err, redsync.ErrLockAlreadyExpired) || errors.As(err, &taken) {
			r.logger.Debug("lock expired before release", zap.String("key", mutex.Name()))

			return nil
		}

		return fmt.Errorf("release lock %s: %w", mutex.Name(), err)
	}

	r.logger.Debug("lock released",
		zap.String("key", mutex.Name()),
		zap.Bool("owned", ok),
	)

	return nil
}

func (r *RedisLocker) name(key string) string {
	if r.keyPrefix == "" {
		return key
	}

	return r.keyPrefix + ":" + key
}
