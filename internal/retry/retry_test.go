package retry

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	ai "github.com/spetersoncode/scholar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// timeoutError simulates a transient network error.
type timeoutError struct{ msg string }

func (e *timeoutError) Error() string   { return e.msg }
func (e *timeoutError) Timeout() bool   { return true }
func (e *timeoutError) Temporary() bool { return true }

var _ net.Error = (*timeoutError)(nil)

func fastConfig(attempts int) Config {
	return Config{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     10 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestDoSuccess(t *testing.T) {
	callCount := 0
	result, err := Do(context.Background(), DefaultConfig(), func(ctx context.Context) (string, error) {
		callCount++
		return "success", nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "success", result)
	assert.Equal(t, 1, callCount)
}

func TestDoRetryOnTransientError(t *testing.T) {
	callCount := 0
	var notified []int

	result, err := Do(context.Background(), fastConfig(3), func(ctx context.Context) (string, error) {
		callCount++
		if callCount < 3 {
			return "", &timeoutError{msg: "timeout"}
		}
		return "success", nil
	}, func(attempt int, delay time.Duration, err error) {
		notified = append(notified, attempt)
	})

	assert.NoError(t, err)
	assert.Equal(t, "success", result)
	assert.Equal(t, 3, callCount)
	assert.Equal(t, []int{1, 2}, notified)
}

func TestDoNoRetryOnPermanentError(t *testing.T) {
	callCount := 0
	permanentErr := ai.NewPermanentError("bad key", 401, nil)

	_, err := Do(context.Background(), fastConfig(5), func(ctx context.Context) (string, error) {
		callCount++
		return "", permanentErr
	})

	assert.Equal(t, permanentErr, err)
	assert.Equal(t, 1, callCount)
}

func TestDoExhaustsRetries(t *testing.T) {
	callCount := 0
	transientErr := ai.NewTransientError("busy", 503, nil)

	_, err := Do(context.Background(), fastConfig(3), func(ctx context.Context) (string, error) {
		callCount++
		return "", transientErr
	})

	assert.Equal(t, transientErr, err)
	assert.Equal(t, 3, callCount)
}

func TestDoRespectsContextCancellation(t *testing.T) {
	cfg := Config{MaxAttempts: 10, InitialDelay: time.Second, MaxDelay: time.Second, Multiplier: 1.0}
	ctx, cancel := context.WithCancel(context.Background())
	callCount := 0

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := Do(ctx, cfg, func(ctx context.Context) (string, error) {
		callCount++
		return "", &timeoutError{msg: "timeout"}
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, callCount)
}

func TestDoWithDisabledRetry(t *testing.T) {
	callCount := 0
	_, err := Do(context.Background(), Disabled(), func(ctx context.Context) (string, error) {
		callCount++
		return "", &timeoutError{msg: "timeout"}
	})

	assert.Error(t, err)
	assert.Equal(t, 1, callCount)
}

func TestDelay(t *testing.T) {
	cfg := Config{InitialDelay: 100 * time.Millisecond, MaxDelay: time.Second, Multiplier: 2.0}

	assert.Equal(t, 100*time.Millisecond, cfg.Delay(0))
	assert.Equal(t, 200*time.Millisecond, cfg.Delay(1))
	assert.Equal(t, 400*time.Millisecond, cfg.Delay(2))
	assert.Equal(t, time.Second, cfg.Delay(10))

	t.Run("jitter stays in range", func(t *testing.T) {
		jittered := Config{InitialDelay: 100 * time.Millisecond, MaxDelay: time.Second, Multiplier: 1.0, Jitter: 0.1}
		for range 20 {
			d := jittered.Delay(0)
			assert.GreaterOrEqual(t, d, 90*time.Millisecond)
			assert.LessOrEqual(t, d, 110*time.Millisecond)
		}
	})
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"categorized transient", ai.NewTransientError("x", 503, nil), true},
		{"categorized permanent", ai.NewPermanentError("x", 500, nil), false},
		{"timeout", &timeoutError{msg: "i/o timeout"}, true},
		{"connection reset text", errors.New("read: connection reset by peer"), true},
		{"canceled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, false},
		{"plain", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}
