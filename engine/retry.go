package engine

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// RetryPolicy bounds background retries of position updates.
type RetryPolicy struct {
	Attempts int // total tries, first one included
	Initial  time.Duration
	Max      time.Duration
}

var DefaultRetryPolicy = RetryPolicy{Attempts: 4, Initial: 250 * time.Millisecond, Max: 4 * time.Second}

// backoff returns the wait before retry number attempt (1-based), doubling
// from Initial up to Max with +/-20% jitter.
func (p RetryPolicy) backoff(attempt int) time.Duration {
	initial, max := p.Initial, p.Max
	if initial <= 0 {
		initial = time.Second
	}
	if max <= 0 {
		max = 10 * time.Second
	}
	if attempt <= 0 {
		return initial
	}
	delay := float64(initial) * math.Pow(2, float64(attempt-1))
	if delay > float64(max) {
		delay = float64(max)
	}
	jitter := 0.2 * delay
	return time.Duration(delay + (rand.Float64()-0.5)*2*jitter)
}

// retry calls fn until it succeeds, fails permanently, runs out of attempts
// or ctx ends. It returns the last error and the number of calls made.
func (p RetryPolicy) retry(ctx context.Context, permanent func(error) bool, fn func() error) (int, error) {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 1; i <= attempts; i++ {
		if err = fn(); err == nil || permanent(err) || i == attempts {
			return i, err
		}

		timer := time.NewTimer(p.backoff(i))
		select {
		case <-ctx.Done():
			timer.Stop()
			return i, ctx.Err()
		case <-timer.C:
		}
	}
	return attempts, err
}
