package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable is returned when a remote backend cannot be reached.
var ErrUnavailable = errors.New("cache backend unavailable")

// retryPolicy bounds how long a remote backend is given to answer at
// startup before the caller falls back to another cache.
type retryPolicy struct {
	attempts int
	delay    time.Duration // doubled after each failure
}

var connectRetry = retryPolicy{attempts: 3, delay: 200 * time.Millisecond}

// do calls fn until it succeeds, the attempts run out, or ctx is done.
// Errors from a done context are never retried.
func (p retryPolicy) do(ctx context.Context, fn func() error) error {
	delay := p.delay
	var err error
	for i := 0; i < max(p.attempts, 1); i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
		if err = fn(); err == nil || ctx.Err() != nil {
			return err
		}
	}
	return err
}
