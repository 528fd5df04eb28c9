package httpclient

import (
	"fmt"

	ierr "github.com/shulepay/shulepay/internal/errors"
)

// ResponseError carries a non-2xx upstream response
type ResponseError struct {
	StatusCode int
	Body       []byte
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, string(e.Body))
}

// NewError wraps a non-2xx response into the application error taxonomy
func NewError(statusCode int, body []byte) error {
	respErr := &ResponseError{
		StatusCode: statusCode,
		Body:       body,
	}

	builder := ierr.WithError(respErr).
		WithReportableDetails(map[string]any{
			"status_code": statusCode,
		})

	if statusCode == 404 {
		return builder.
			WithHint("The requested resource was not found upstream").
			Mark(ierr.ErrNotFound)
	}

	return builder.
		WithHint("Upstream request failed").
		Mark(ierr.ErrHTTPClient)
}
