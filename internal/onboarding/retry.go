package onboarding

import (
	"context"
	"math/rand"
	"time"
)

// RetryPolicy is an exponential backoff with jitter.
type RetryPolicy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	Jitter       float64
	RetryIf      func(error) bool
}

// retry runs fn until it succeeds, returns a non-retryable error, the attempts
// run out or ctx is done. It returns the attempt count and the last error.
func (p RetryPolicy) retry(ctx context.Context, fn func(context.Context) error) (int, error) {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	delay := p.InitialDelay

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return attempt - 1, err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return attempt, nil
		}
		if p.RetryIf != nil && !p.RetryIf(lastErr) {
			return attempt, lastErr
		}
		if attempt == attempts {
			break
		}

		select {
		case <-time.After(jitter(delay, p.Jitter)):
		case <-ctx.Done():
			return attempt, ctx.Err()
		}

		if p.Multiplier > 1 {
			delay = time.Duration(float64(delay) * p.Multiplier)
		}
		if p.MaxDelay > 0 && delay > p.MaxDelay {
			delay = p.MaxDelay
		}
	}
	return attempts, lastErr
}

func jitter(d time.Duration, factor float64) time.Duration {
	if factor <= 0 || d <= 0 {
		return d
	}
	spread := float64(d) * factor
	return time.Duration(float64(d) - spread + rand.Float64()*2*spread)
}
