package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const attemptKeyPrefix = "guardian-auth:attempts:"

// AttemptRepository keeps failed authentication counters in Redis.
type AttemptRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewAttemptRepository constructs an attempt repository. A nil client yields
// a repository that never counts.
func NewAttemptRepository(client *redis.Client, logger *zap.Logger) *AttemptRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttemptRepository{client: client, logger: logger}
}

// Count returns the failures recorded for key in the current window.
func (r *AttemptRepository) Count(ctx context.Context, key string) (int64, error) {
	if r.client == nil {
		return 0, nil
	}
	n, err := r.client.Get(ctx, attemptKeyPrefix+key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis get attempts: %w", err)
	}
	return n, nil
}

// Increment records one failure. The window starts with the first failure.
func (r *AttemptRepository) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	if r.client == nil {
		return 0, nil
	}
	redisKey := attemptKeyPrefix + key
	n, err := r.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incr attempts: %w", err)
	}
	if n == 1 && window > 0 {
		if err := r.client.Expire(ctx, redisKey, window).Err(); err != nil {
			return n, fmt.Errorf("redis expire attempts: %w", err)
		}
	}
	return n, nil
}

// Reset clears the counter for key.
func (r *AttemptRepository) Reset(ctx context.Context, key string) error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Del(ctx, attemptKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis delete attempts: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection if present.
func (r *AttemptRepository) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}
