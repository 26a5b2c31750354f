package opentdb

import (
	"errors"
	"fmt"
)

// Response codes returned in the response_code field.
const (
	CodeSuccess          = 0
	CodeNoResults        = 1
	CodeInvalidParameter = 2
	CodeTokenNotFound    = 3
	CodeTokenEmpty       = 4
	CodeRateLimit        = 5
)

// APIError is a non-zero response_code from the service.
type APIError struct {
	Endpoint string
	Code     int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("opentdb %s: response code %d (%s)", e.Endpoint, e.Code, codeText(e.Code))
}

// Exhausted reports whether the service has nothing more to hand out for the
// current request or token. Both "no results" and "token empty" qualify.
func (e *APIError) Exhausted() bool {
	return e.Code == CodeNoResults || e.Code == CodeTokenEmpty
}

// IsExhausted reports whether err wraps an APIError for which Exhausted is true.
func IsExhausted(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Exhausted()
}

func codeText(code int) string {
	switch code {
	case CodeSuccess:
		return "success"
	case CodeNoResults:
		return "no results"
	case CodeInvalidParameter:
		return "invalid parameter"
	case CodeTokenNotFound:
		return "token not found"
	case CodeTokenEmpty:
		return "token empty"
	case CodeRateLimit:
		return "rate limit"
	}
	return "unknown"
}

// StatusError is returned when the service answers with a non-200 HTTP status.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("opentdb %s: HTTP %d", e.Endpoint, e.StatusCode)
}

// InvalidResponseError indicates a body that is not JSON or does not match
// the endpoint's schema.
type InvalidResponseError struct {
	Endpoint string
	Err      error
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("opentdb %s: invalid response: %v", e.Endpoint, e.Err)
}

func (e *InvalidResponseError) Unwrap() error { return e.Err }
