// Package utils holds small helpers shared by the gateway's startup code.
package utils

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"service-gateway/internal/common/errors"
)

// RetryConfig holds configuration for retry operations with exponential backoff.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts including the first one
	MaxAttempts int
	// InitialDelay is the delay before the first retry
	InitialDelay time.Duration
	// MaxDelay caps exponential growth
	MaxDelay time.Duration
	// BackoffFactor multiplies the delay after each failed attempt
	BackoffFactor float64
	// JitterFactor adds up to this fraction of the delay at random (0.1 = 10%)
	JitterFactor float64
	// Retryable decides which errors are worth another attempt. Nil retries
	// everything.
	Retryable func(error) bool
}

// DefaultRetryConfig suits fetching the initial route document: five
// attempts over roughly fifteen seconds, retrying only transient failures.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   5,
		InitialDelay:  time.Second,
		MaxDelay:      8 * time.Second,
		BackoffFactor: 2.0,
		JitterFactor:  0.1,
		Retryable:     IsTransient,
	}
}

// IsTransient reports whether err is a connection or timeout failure that
// may succeed on a later attempt
func IsTransient(err error) bool {
	switch errors.GetType(err) {
	case errors.ErrTypeConnection, errors.ErrTypeTimeout:
		return true
	default:
		return false
	}
}

// RetryWithBackoff calls fn until it succeeds, returns a non-retryable error,
// runs out of attempts or ctx ends. The error of the last attempt is wrapped
// in the returned error.
func RetryWithBackoff(ctx context.Context, config RetryConfig, fn func(context.Context) error) error {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 1
	}

	var lastErr error
	delay := config.InitialDelay

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if config.Retryable != nil && !config.Retryable(lastErr) {
			return lastErr
		}
		if attempt == config.MaxAttempts {
			break
		}

		wait := delay
		if config.JitterFactor > 0 && wait > 0 {
			wait += time.Duration(rand.Int64N(int64(float64(wait)*config.JitterFactor) + 1))
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled: %w", lastErr)
		case <-time.After(wait):
		}

		delay = time.Duration(float64(delay) * config.BackoffFactor)
		if config.MaxDelay > 0 && delay > config.MaxDelay {
			delay = config.MaxDelay
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}
