package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Common errors for API operations
var (
	ErrModuleRequired   = errors.New("namespace and module name required")
	ErrMissingServerURL = errors.New("applier server url is required")
	ErrEmptySelector    = errors.New("selector must name a namespace and module")
)

// StatusError is returned for every response outside the 2xx range.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		body = http.StatusText(e.Code)
	}
	return fmt.Sprintf("%d: %s", e.Code, body)
}

// Message returns the text the server wrote for the failure, falling back to
// the status text when the body was empty.
func (e *StatusError) Message() string {
	if body := strings.TrimSpace(e.Body); body != "" {
		return body
	}
	return http.StatusText(e.Code)
}

// ErrorDetail extracts the operator facing detail from an error returned by
// the client: the server's body for a *StatusError, the error text otherwise.
func ErrorDetail(err error) string {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Message()
	}
	return err.Error()
}

// IsStatus reports whether err carries the given HTTP status code.
func IsStatus(err error, code int) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Code == code
}
