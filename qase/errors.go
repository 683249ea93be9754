package qase

import (
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// RemoteError represents any failure talking to the test management
// service: a transport error or a non-success HTTP response. The
// response body is kept for diagnostics.
type RemoteError struct {
	Method     string
	Endpoint   string
	StatusCode int
	Body       string
	Err        error
}

func (e *RemoteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Method, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.Endpoint, e.StatusCode, e.Body)
}

// Unwrap implements the errors.Unwrap interface
func (e *RemoteError) Unwrap() error {
	return e.Err
}

// IsRemoteError checks if the error is or wraps a RemoteError
func IsRemoteError(err error) bool {
	var remoteErr *RemoteError
	return err != nil && errors.As(err, &remoteErr)
}

// wrapError converts transport failures and non-2xx responses into a
// RemoteError and passes successful responses through.
func wrapError(res *resty.Response, err error) (*resty.Response, error) {
	if err != nil {
		var method, endpoint string
		if res != nil && res.Request != nil {
			method = res.Request.Method
			endpoint = res.Request.URL
		}
		return nil, &RemoteError{Method: method, Endpoint: endpoint, Err: err}
	}
	if res.IsError() {
		return nil, &RemoteError{
			Method:     res.Request.Method,
			Endpoint:   res.Request.URL,
			StatusCode: res.StatusCode(),
			Body:       res.String(),
		}
	}
	return res, nil
}
