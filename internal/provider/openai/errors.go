package openai

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/openai/openai-go"

	ai "github.com/spetersoncode/scholar"
)

// wrapError attaches the HTTP status and Retry-After of an API error so
// callers can tell transient failures from permanent ones. Network
// failures carry no status and pass through unchanged.
func wrapError(err error) error {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	return ai.NewHTTPError("openai: "+err.Error(), apiErr.StatusCode, retryAfter(apiErr.Response), err)
}

// retryAfter reads Retry-After in either of its forms: delta seconds or an
// HTTP date.
func retryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}
	v := resp.Header.Get("Retry-After")
	if seconds, err := strconv.Atoi(v); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		return max(time.Until(at), 0)
	}
	return 0
}
