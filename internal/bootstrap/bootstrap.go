// Package bootstrap builds infrastructure from configuration for the binaries.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"country-pulse-service/internal/config"
	"country-pulse-service/internal/domain"
	"country-pulse-service/internal/infra/snapshot"
	"country-pulse-service/internal/infra/snapshot/remote"
)

// SnapshotStore is a snapshot store that can report whether it is reachable.
type SnapshotStore interface {
	domain.SnapshotStore
	Ping(ctx context.Context) error
}

// NewSnapshotStore returns the filesystem or HTTP store selected by cfg.Source.
func NewSnapshotStore(cfg config.SnapshotConfig, logger *zap.Logger) (SnapshotStore, error) {
	switch cfg.Source {
	case config.SourceFS, "":
		return snapshot.NewFileStore(cfg.Root, logger), nil
	case config.SourceHTTP:
		return remote.New(remote.ClientConfig{
			BaseURL: cfg.Remote.BaseURL,
			Timeout: cfg.Remote.Timeout,
			Retry: remote.RetryConfig{
				MaxAttempts: cfg.Remote.Retry.MaxAttempts,
				WaitTime:    cfg.Remote.Retry.WaitTime,
				MaxWaitTime: cfg.Remote.Retry.MaxWaitTime,
			},
			CB: remote.CBConfig{
				MaxRequests:  cfg.Remote.CB.MaxRequests,
				Interval:     cfg.Remote.CB.Interval,
				Timeout:      cfg.Remote.CB.Timeout,
				FailureRatio: cfg.Remote.CB.FailureRatio,
			},
		}, logger), nil
	default:
		return nil, fmt.Errorf("unknown snapshot source %q", cfg.Source)
	}
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Addr(), err)
	}

	return client, nil
}
