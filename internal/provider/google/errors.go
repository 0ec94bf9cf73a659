package google

import (
	"errors"

	"google.golang.org/genai"

	ai "github.com/spetersoncode/scholar"
)

// wrapError categorizes a GenAI error by status code. genai.APIError does
// not expose headers, so no Retry-After is available.
func wrapError(err error) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	return ai.NewHTTPError("google: "+err.Error(), apiErr.Code, 0, err)
}
