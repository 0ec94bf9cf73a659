package retry

import (
	"context"
	"time"

	ai "github.com/spetersoncode/scholar"
)

// Notify is called before sleeping ahead of another attempt.
type Notify func(attempt int, delay time.Duration, err error)

// Do calls fn until it succeeds, fails with a non-transient error, or
// MaxAttempts is reached. A server-provided Retry-After longer than the
// configured backoff wins. Backoff waits honor ctx cancellation.
func Do[T any](ctx context.Context, cfg Config, fn func(ctx context.Context) (T, error), notify ...Notify) (T, error) {
	var zero T
	var lastErr error

	attempts := max(cfg.MaxAttempts, 1)
	for attempt := 0; attempt < attempts; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !IsTransient(err) || attempt == attempts-1 {
			break
		}

		delay := max(cfg.Delay(attempt), ai.RetryAfterOf(err))
		for _, n := range notify {
			n(attempt+1, delay, err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	return zero, lastErr
}
