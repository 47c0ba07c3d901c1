package aptos

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errPermanent = errors.New("permanent")

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{MaxAttempts: attempts, BaseDelay: time.Millisecond, MaxDelay: 4 * time.Millisecond}
}

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	t.Parallel()
	attempts := 0
	got, err := Retry(context.Background(), fastRetry(4), func() (string, error) {
		attempts++
		if attempts < 3 {
			return "", ErrRetryable
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, attempts)
}

func TestRetryStopsOnPermanentError(t *testing.T) {
	t.Parallel()
	attempts := 0
	_, err := Retry(context.Background(), fastRetry(4), func() (int, error) {
		attempts++
		return 0, errPermanent
	})
	require.ErrorIs(t, err, errPermanent)
	assert.Equal(t, 1, attempts)
}

func TestRetryGivesUp(t *testing.T) {
	t.Parallel()
	attempts := 0
	_, err := Retry(context.Background(), fastRetry(3), func() (int, error) {
		attempts++
		return 0, ErrRateLimited
	})
	require.ErrorIs(t, err, ErrRateLimited)
	assert.Contains(t, err.Error(), "giving up after 3 attempts")
	assert.Equal(t, 3, attempts)
}

func TestNoRetryReturnsErrorUnwrapped(t *testing.T) {
	t.Parallel()
	_, err := Retry(context.Background(), NoRetry(), func() (int, error) { return 0, ErrRetryable })
	assert.Equal(t, ErrRetryable, err)
}

func TestRetryHonorsContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cfg := RetryConfig{MaxAttempts: 5, BaseDelay: time.Hour, MaxDelay: time.Hour}
	_, err := Retry(ctx, cfg, func() (int, error) {
		cancel()
		return 0, ErrRetryable
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestBackoffBounds(t *testing.T) {
	t.Parallel()
	for attempt := range 6 {
		d := backoff(attempt, 10*time.Millisecond, 40*time.Millisecond)
		want := min(10*time.Millisecond<<attempt, 40*time.Millisecond)
		assert.GreaterOrEqual(t, d, want/2)
		assert.Less(t, d, want)
	}
	assert.Zero(t, backoff(3, 0, time.Second))
}

func TestParseRetryAfter(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 3*time.Second, ParseRetryAfter("3"))
	assert.Zero(t, ParseRetryAfter(""))
	assert.Zero(t, ParseRetryAfter("soon"))
	assert.Zero(t, ParseRetryAfter("-4"))
}

func TestRateLimiter(t *testing.T) {
	t.Parallel()
	rl := NewRateLimiter(1, 2)
	assert.True(t, rl.Allow(endpointREST))
	assert.True(t, rl.Allow(endpointREST))
	assert.False(t, rl.Allow(endpointREST))
	assert.True(t, rl.Allow(endpointFaucet))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	require.Error(t, rl.Wait(ctx, endpointREST))

	unlimited := NewRateLimiter(0, 0)
	for range 100 {
		require.True(t, unlimited.Allow(endpointREST))
	}
}
