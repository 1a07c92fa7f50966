package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"anoa.com/newsaddiction/pkg/apperror"
	"github.com/redis/go-redis/v9"
)

// RateLimitError carries how long the caller should wait before retrying.
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return e.Message
}

func (e *RateLimitError) Unwrap() error {
	return apperror.ErrRateLimitExceeded
}

// Limiter allows one action per key per window. A nil redis client disables limiting.
type Limiter struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Limiter {
	return &Limiter{rdb: rdb}
}

func key(action, subject string) string {
	return fmt.Sprintf("rate_limit:%s:%s", action, subject)
}

// Allow claims the window for subject. It returns a *RateLimitError when the window is taken.
func (l *Limiter) Allow(ctx context.Context, action, subject string, window time.Duration) error {
	if l == nil || l.rdb == nil || window <= 0 {
		return nil
	}

	k := key(action, subject)
	wasSet, err := l.rdb.SetNX(ctx, k, "locked", window).Result()
	if err != nil {
		return fmt.Errorf("failed to check rate limit in redis: %w", err)
	}
	if wasSet {
		return nil
	}

	ttl, err := l.rdb.TTL(ctx, k).Result()
	if err != nil || ttl < 0 {
		ttl = window
	}

	return &RateLimitError{
		Message:    fmt.Sprintf("too many requests, try again in %.0f seconds", ttl.Seconds()),
		RetryAfter: ttl,
	}
}

func (l *Limiter) Clear(ctx context.Context, action, subject string) error {
	if l == nil || l.rdb == nil {
		return nil
	}
	return l.rdb.Del(ctx, key(action, subject)).Err()
}
