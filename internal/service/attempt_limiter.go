package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type attemptCounter interface {
	Count(ctx context.Context, key string) (int64, error)
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)
	Reset(ctx context.Context, key string) error
}

type limiterMetrics interface {
	IncLimiterFailure()
}

// AttemptLimiter caps failed PIN checks per identity within a window. Backend
// errors are logged and the attempt is let through.
type AttemptLimiter struct {
	counter     attemptCounter
	maxAttempts int64
	window      time.Duration
	metrics     limiterMetrics
	logger      *zap.Logger
}

// NewAttemptLimiter returns nil when limiting is disabled.
func NewAttemptLimiter(counter attemptCounter, maxAttempts int, window time.Duration, metrics limiterMetrics, logger *zap.Logger) *AttemptLimiter {
	if counter == nil || maxAttempts <= 0 {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttemptLimiter{counter: counter, maxAttempts: int64(maxAttempts), window: window, metrics: metrics, logger: logger}
}

// Blocked reports whether key already used up its attempts.
func (l *AttemptLimiter) Blocked(ctx context.Context, key string) bool {
	if l == nil {
		return false
	}
	n, err := l.counter.Count(ctx, key)
	if err != nil {
		l.fail("count", err)
		return false
	}
	return n >= l.maxAttempts
}

// Failure records one failed attempt for key.
func (l *AttemptLimiter) Failure(ctx context.Context, key string) {
	if l == nil {
		return
	}
	if _, err := l.counter.Increment(ctx, key, l.window); err != nil {
		l.fail("increment", err)
	}
}

// Success clears the failures recorded for key.
func (l *AttemptLimiter) Success(ctx context.Context, key string) {
	if l == nil {
		return
	}
	if err := l.counter.Reset(ctx, key); err != nil {
		l.fail("reset", err)
	}
}

func (l *AttemptLimiter) fail(op string, err error) {
	l.logger.Warn("attempt limiter unavailable", zap.String("op", op), zap.Error(err))
	if l.metrics != nil {
		l.metrics.IncLimiterFailure()
	}
}
