package api

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/hquan/docdesk/internal/logger"
)

type retryConfig struct {
	maxAttempts  int
	initialDelay time.Duration
	maxDelay     time.Duration
	multiplier   float64
	jitter       float64
}

func defaultRetry() retryConfig {
	return retryConfig{
		maxAttempts:  3,
		initialDelay: 500 * time.Millisecond,
		maxDelay:     5 * time.Second,
		multiplier:   2.0,
		jitter:       0.1,
	}
}

// retryDo runs op up to maxAttempts times with exponential backoff. Only
// idempotent requests come through here; a non-retryable error (as judged
// by retryable) returns immediately.
func retryDo(ctx context.Context, cfg retryConfig, retryable func(error) bool, op func() error) error {
	var lastErr error
	delay := cfg.initialDelay

	for attempt := 1; attempt <= cfg.maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := op()
		if err == nil {
			if attempt > 1 {
				logger.Debug("request succeeded on attempt %d", attempt)
			}
			return nil
		}
		lastErr = err

		if retryable != nil && !retryable(err) {
			return err
		}
		if attempt == cfg.maxAttempts {
			break
		}

		logger.Debug("request failed (attempt %d/%d), retrying in %s: %v",
			attempt, cfg.maxAttempts, delay, err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(addJitter(delay, cfg.jitter)):
		}
		delay = time.Duration(math.Min(float64(cfg.maxDelay), float64(delay)*cfg.multiplier))
	}
	return lastErr
}

func addJitter(d time.Duration, fraction float64) time.Duration {
	if fraction <= 0 {
		return d
	}
	jitter := time.Duration(rand.Float64() * float64(d) * fraction)
	if rand.Intn(2) == 0 {
		return d - jitter
	}
	return d + jitter
}
