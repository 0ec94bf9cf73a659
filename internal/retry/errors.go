package retry

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"
	"syscall"

	ai "github.com/spetersoncode/scholar"
)

// statusCoder matches SDK errors that expose an HTTP status code.
type statusCoder interface {
	StatusCode() int
}

// IsTransient reports whether err should be retried. Categorized errors are
// trusted as-is; anything else is judged by status code and by network
// failure heuristics.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var ce ai.CategorizedError
	if errors.As(err, &ce) {
		return ce.Category() == ai.ErrorTransient
	}

	var sc statusCoder
	if errors.As(err, &sc) && isTransientStatusCode(sc.StatusCode()) {
		return true
	}

	return isTransientNetworkError(err)
}

func isTransientStatusCode(code int) bool {
	return code == 429 || (code >= 500 && code < 600)
}

func isTransientNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil && isTransientNetworkError(urlErr.Err) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.IsTemporary || dnsErr.IsTimeout
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNRESET, syscall.ECONNREFUSED, syscall.ETIMEDOUT:
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{"connection reset", "connection refused", "temporary failure", "unexpected eof"} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
