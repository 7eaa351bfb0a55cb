package infra

import (
	"time"
)

const (
	// Standard backoff constants
	baseDelay = 1 * time.Second
	maxDelay  = 60 * time.Second
)

// CalculateBackoff returns the exponential backoff duration for a given retry count.
// Logic: baseDelay * 2^retryCount, capped at maxDelay.
// If retryCount is negative, it returns baseDelay.
func CalculateBackoff(retryCount int) time.Duration {
	return BackoffWith(retryCount, baseDelay, maxDelay)
}

// BackoffWith is CalculateBackoff with a caller-supplied schedule, used where
// the retry policy is configurable.
func BackoffWith(retryCount int, base, max time.Duration) time.Duration {
	if base <= 0 {
		base = baseDelay
	}
	if max <= 0 {
		max = maxDelay
	}
	if retryCount < 0 {
		return base
	}

	// 2^30 already overflows any sane cap.
	if retryCount > 30 {
		return max
	}

	backoff := base * time.Duration(1<<retryCount)
	if backoff > max {
		return max
	}
	return backoff
}
