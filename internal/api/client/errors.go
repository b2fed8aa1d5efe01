package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Host-visible API errors. The messages are shown to integrators as is.
var (
	ErrAPIKey = errors.New("API key is not valid. Please make sure you have a correct API key.")
	ErrParse  = errors.New("Parsing failed. The API response is not as expected.")
)

const tokenFailedMessage = "Generating access token API failed."

// RequestError is a transport or HTTP failure.
type RequestError struct {
	Message    string
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string { return e.Message }

func (e *RequestError) Unwrap() error { return e.Err }

func statusError(code int) *RequestError {
	return &RequestError{
		Message:    fmt.Sprintf("Request failed with status %d (%s).", code, http.StatusText(code)),
		StatusCode: code,
	}
}

func transportError(err error) *RequestError {
	return &RequestError{Message: err.Error(), Err: err}
}

// upstreamHealthy reports whether err leaves the platform blameless, so the
// breaker does not count it.
func upstreamHealthy(err error) bool {
	if err == nil || errors.Is(err, ErrAPIKey) || errors.Is(err, context.Canceled) {
		return true
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode >= 400 && reqErr.StatusCode < 500
	}
	return false
}

// errorKind labels err for metrics.
func errorKind(err error) string {
	var reqErr *RequestError
	switch {
	case errors.Is(err, ErrAPIKey):
		return "api_key"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.As(err, &reqErr) && reqErr.StatusCode != 0:
		return "status"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "transport"
	}
}
