package scholar

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorCategory classifies errors by how they should be handled.
type ErrorCategory string

const (
	// ErrorTransient marks temporary failures that can be retried,
	// such as rate limits or an overloaded upstream.
	ErrorTransient ErrorCategory = "transient"

	// ErrorPermanent marks failures retrying cannot fix,
	// such as a bad API key or an unknown model.
	ErrorPermanent ErrorCategory = "permanent"

	// ErrorUserInput marks requests that must be corrected by the caller.
	ErrorUserInput ErrorCategory = "user_input"
)

// CategorizedError is an error that knows how it should be handled.
type CategorizedError interface {
	error
	Category() ErrorCategory
	StatusCode() int
	RetryAfter() time.Duration
}

// Error is a categorized error carrying upstream metadata.
type Error struct {
	Msg        string
	Cat        ErrorCategory
	Code       int           // HTTP status code, 0 if not applicable
	RetryDelay time.Duration // from Retry-After, 0 if absent
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Cause)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Category returns the error category.
func (e *Error) Category() ErrorCategory { return e.Cat }

// StatusCode returns the HTTP status code, or 0.
func (e *Error) StatusCode() int { return e.Code }

// RetryAfter returns the suggested retry delay, or 0.
func (e *Error) RetryAfter() time.Duration { return e.RetryDelay }

// NewTransientError creates a transient error that can be retried.
func NewTransientError(msg string, statusCode int, cause error) *Error {
	return &Error{Msg: msg, Cat: ErrorTransient, Code: statusCode, Cause: cause}
}

// NewPermanentError creates a permanent error that should not be retried.
func NewPermanentError(msg string, statusCode int, cause error) *Error {
	return &Error{Msg: msg, Cat: ErrorPermanent, Code: statusCode, Cause: cause}
}

// NewUserInputError creates an error indicating invalid caller input.
func NewUserInputError(msg string, statusCode int, cause error) *Error {
	return &Error{Msg: msg, Cat: ErrorUserInput, Code: statusCode, Cause: cause}
}

// NewHTTPError categorizes a failed upstream HTTP exchange by status code.
// 408, 429 and 5xx are transient; other 4xx are user input errors except
// 401, 403 and 404 which are permanent.
func NewHTTPError(msg string, statusCode int, retryAfter time.Duration, cause error) *Error {
	e := &Error{Msg: msg, Code: statusCode, RetryDelay: retryAfter, Cause: cause}
	switch {
	case statusCode == http.StatusRequestTimeout,
		statusCode == http.StatusTooManyRequests,
		statusCode >= 500:
		e.Cat = ErrorTransient
	case statusCode == http.StatusUnauthorized,
		statusCode == http.StatusForbidden,
		statusCode == http.StatusNotFound:
		e.Cat = ErrorPermanent
	case statusCode >= 400:
		e.Cat = ErrorUserInput
	default:
		e.Cat = ErrorPermanent
	}
	return e
}

// IsTransient reports whether err, or any error it wraps, is transient.
func IsTransient(err error) bool {
	return categoryOf(err) == ErrorTransient
}

// IsPermanent reports whether err, or any error it wraps, is permanent.
func IsPermanent(err error) bool {
	return categoryOf(err) == ErrorPermanent
}

// IsUserInput reports whether err, or any error it wraps, is a user input error.
func IsUserInput(err error) bool {
	return categoryOf(err) == ErrorUserInput
}

// RetryAfterOf returns the retry delay carried by err, or 0.
func RetryAfterOf(err error) time.Duration {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.RetryAfter()
	}
	return 0
}

func categoryOf(err error) ErrorCategory {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category()
	}
	return ""
}
