package aptos

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	coreerr "github.com/mrz1836/corecall/pkg/errors"
)

// Transient failures worth another attempt.
var (
	ErrRetryable = &coreerr.CoreError{
		Code:     "RETRYABLE_ERROR",
		Message:  "retryable error",
		ExitCode: coreerr.ExitGeneral,
	}

	ErrRateLimited = &coreerr.CoreError{
		Code:     "RATE_LIMITED",
		Message:  "node rate limit exceeded",
		ExitCode: coreerr.ExitGeneral,
	}
)

// RetryConfig configures retry behavior.
type RetryConfig struct {
	MaxAttempts int           // including the first
	BaseDelay   time.Duration // delay before the second attempt
	MaxDelay    time.Duration // cap on any single delay
}

// DefaultRetryConfig returns 3 attempts with delays of roughly 500ms and 1s.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    2 * time.Second,
	}
}

// NoRetry performs every operation exactly once.
func NoRetry() RetryConfig {
	return RetryConfig{MaxAttempts: 1}
}

// Retry runs operation until it succeeds, fails with a non-retryable error,
// runs out of attempts, or ctx ends. Delays grow exponentially with jitter.
func Retry[T any](ctx context.Context, cfg RetryConfig, operation func() (T, error)) (T, error) {
	var result T
	var err error

	attempts := max(cfg.MaxAttempts, 1)
	for attempt := range attempts {
		result, err = operation()
		if err == nil || !IsRetryable(err) {
			return result, err
		}
		if attempt == attempts-1 {
			break
		}

		timer := time.NewTimer(backoff(attempt, cfg.BaseDelay, cfg.MaxDelay))
		select {
		case <-ctx.Done():
			timer.Stop()
			return result, ctx.Err()
		case <-timer.C:
		}
	}

	if attempts == 1 {
		return result, err
	}
	return result, fmt.Errorf("giving up after %d attempts: %w", attempts, err)
}

// backoff returns a delay in [d/2, d) where d = base*2^attempt capped at limit.
func backoff(attempt int, base, limit time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}
	d := base << attempt
	if limit > 0 && (d > limit || d <= 0) {
		d = limit
	}
	half := d / 2
	if half <= 0 {
		return d
	}
	return half + rand.N(half) //nolint:gosec // jitter needs no cryptographic randomness
}

// IsRetryable reports whether err should trigger another attempt.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrRetryable) ||
		errors.Is(err, ErrRateLimited) ||
		errors.Is(err, context.DeadlineExceeded)
}

// retryableStatus reports whether an HTTP status is worth retrying.
func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// ParseRetryAfter parses a Retry-After header given in seconds. It returns
// zero when the header is absent or malformed.
func ParseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
