package anthropic

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/anthropics/anthropic-sdk-go"

	ai "github.com/spetersoncode/scholar"
)

// wrapError categorizes an SDK error by HTTP status and Retry-After.
func wrapError(err error) error {
	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	return ai.NewHTTPError("anthropic: "+err.Error(), apiErr.StatusCode, retryAfter(apiErr.Response), err)
}

func retryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}
	if seconds, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return 0
}
