package resilience

import (
	"context"
	"time"
)

// RetryConfig bounds transport-level retries. These are distinct from the
// pipeline's semantic reformulation loop: they only cover transient backend
// failures (network, 5xx, deadline).
type RetryConfig struct {
	MaxAttempts int           // total attempts, including the first call
	BaseWait    time.Duration // first backoff interval
	MaxWait     time.Duration // backoff ceiling
}

// DefaultRetryConfig mirrors the classic 3-attempt exponential backoff
// (2s, 4s, capped at 10s).
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseWait:    2 * time.Second,
		MaxWait:     10 * time.Second,
	}
}

// Retry runs fn with bounded exponential backoff. The context cancels both
// the in-flight call and the backoff sleep.
func Retry(ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) error) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}

	wait := cfg.BaseWait
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt == cfg.MaxAttempts {
			break
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}

		wait *= 2
		if cfg.MaxWait > 0 && wait > cfg.MaxWait {
			wait = cfg.MaxWait
		}
	}

	return lastErr
}
