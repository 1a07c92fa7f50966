package ratelimiter

import (
	"context"
	"errors"
	"testing"
	"time"

	"anoa.com/newsaddiction/pkg/apperror"
	"github.com/stretchr/testify/assert"
)

func TestLimiterWithoutRedisAllowsEverything(t *testing.T) {
	l := New(nil)
	for i := 0; i < 3; i++ {
		assert.NoError(t, l.Allow(context.Background(), "reset", "alice", time.Minute))
	}
	assert.NoError(t, l.Clear(context.Background(), "reset", "alice"))

	var nilLimiter *Limiter
	assert.NoError(t, nilLimiter.Allow(context.Background(), "reset", "alice", time.Minute))
}

func TestRateLimitErrorUnwrapsToSentinel(t *testing.T) {
	var err error = &RateLimitError{Message: "slow down", RetryAfter: 5 * time.Second}
	assert.True(t, errors.Is(err, apperror.ErrRateLimitExceeded))
	assert.Equal(t, "slow down", err.Error())
}
