// Package locker coordinates background work across service instances.
package locker

import (
	"context"
	"time"
)

// DistributedLocker provides best-effort mutual exclusion across instances.
// Implementations must be safe for concurrent use.
//
//	acquired, err := l.Acquire(ctx, "warmup", 5*time.Minute)
//	if err != nil || !acquired {
//	    return err
//	}
//	defer l.Release(ctx, "warmup")
type DistributedLocker interface {
	// Acquire tries once to take the lock. It returns false, nil when another
	// instance holds it. The lock expires after ttl unless released first.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release gives up a lock taken by this instance. Releasing a lock this
	// instance does not hold is a no-op.
	Release(ctx context.Context, key string) error
}
