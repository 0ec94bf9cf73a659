package scholar

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	t.Run("message includes cause", func(t *testing.T) {
		err := NewTransientError("upstream busy", 503, errors.New("overloaded"))
		assert.Equal(t, "upstream busy: overloaded", err.Error())
	})

	t.Run("message without cause", func(t *testing.T) {
		err := NewPermanentError("bad key", 401, nil)
		assert.Equal(t, "bad key", err.Error())
	})

	t.Run("unwrap exposes cause", func(t *testing.T) {
		cause := errors.New("root")
		err := NewUserInputError("bad request", 400, cause)
		assert.ErrorIs(t, err, cause)
	})
}

func TestCategoryHelpers(t *testing.T) {
	transient := fmt.Errorf("wrapped: %w", NewTransientError("x", 503, nil))
	permanent := NewPermanentError("x", 401, nil)
	userInput := NewUserInputError("x", 400, nil)
	plain := errors.New("plain")

	assert.True(t, IsTransient(transient))
	assert.False(t, IsTransient(permanent))
	assert.True(t, IsPermanent(permanent))
	assert.True(t, IsUserInput(userInput))
	assert.False(t, IsTransient(plain))
	assert.False(t, IsPermanent(plain))
	assert.False(t, IsUserInput(plain))
}

func TestNewHTTPError(t *testing.T) {
	tests := []struct {
		code int
		want ErrorCategory
	}{
		{http.StatusTooManyRequests, ErrorTransient},
		{http.StatusRequestTimeout, ErrorTransient},
		{http.StatusInternalServerError, ErrorTransient},
		{http.StatusServiceUnavailable, ErrorTransient},
		{http.StatusUnauthorized, ErrorPermanent},
		{http.StatusForbidden, ErrorPermanent},
		{http.StatusNotFound, ErrorPermanent},
		{http.StatusBadRequest, ErrorUserInput},
		{http.StatusUnprocessableEntity, ErrorUserInput},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			err := NewHTTPError("call failed", tt.code, 0, nil)
			assert.Equal(t, tt.want, err.Category())
			assert.Equal(t, tt.code, err.StatusCode())
		})
	}

	t.Run("carries retry delay", func(t *testing.T) {
		err := NewHTTPError("slow down", 429, 3*time.Second, nil)
		assert.Equal(t, 3*time.Second, RetryAfterOf(fmt.Errorf("ctx: %w", err)))
	})
}
