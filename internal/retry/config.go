// Package retry retries operations that fail with transient errors,
// backing off exponentially between attempts.
package retry

import (
	"math"
	"math/rand/v2"
	"time"
)

// Config holds retry parameters.
type Config struct {
	// MaxAttempts counts the initial call; 1 disables retries.
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	// Jitter scales each delay by a random factor in [1-Jitter, 1+Jitter].
	Jitter float64
}

// DefaultConfig suits calls to public HTTP APIs from inside a request:
// three attempts, 500ms initial delay, capped at 5s.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
		Jitter:       0.1,
	}
}

// Disabled returns a configuration that makes a single attempt.
func Disabled() Config {
	return Config{MaxAttempts: 1}
}

// Delay returns the backoff before retry number attempt (0-indexed).
func (c Config) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	delay := float64(c.InitialDelay) * math.Pow(c.Multiplier, float64(attempt))
	if c.MaxDelay > 0 && delay > float64(c.MaxDelay) {
		delay = float64(c.MaxDelay)
	}

	if c.Jitter > 0 {
		delay *= 1.0 + (rand.Float64()*2-1)*c.Jitter
	}

	return time.Duration(delay)
}
