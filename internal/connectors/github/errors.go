package github

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Request failures that must not be retried, keyed by status code.
var (
	// ErrBadRequest indicates a malformed request (400).
	ErrBadRequest = errors.New("github: bad request")

	// ErrUnauthorized indicates missing or invalid credentials (401).
	ErrUnauthorized = errors.New("github: unauthorized")

	// ErrRequestFailed indicates a failed request (402).
	ErrRequestFailed = errors.New("github: request failed")

	// ErrForbidden indicates the credential lacks access (403).
	ErrForbidden = errors.New("github: forbidden")

	// ErrNotFound indicates the resource does not exist (404).
	ErrNotFound = errors.New("github: not found")

	// ErrMethodNotAllowed indicates an unsupported method (405).
	ErrMethodNotAllowed = errors.New("github: method not allowed")

	// ErrConflict indicates a state conflict (409).
	ErrConflict = errors.New("github: conflict")

	// ErrUnprocessableEntity indicates a semantically invalid request (422).
	ErrUnprocessableEntity = errors.New("github: unprocessable entity")
)

var statusErrors = map[int]error{
	http.StatusBadRequest:          ErrBadRequest,
	http.StatusUnauthorized:        ErrUnauthorized,
	http.StatusPaymentRequired:     ErrRequestFailed,
	http.StatusForbidden:           ErrForbidden,
	http.StatusNotFound:            ErrNotFound,
	http.StatusMethodNotAllowed:    ErrMethodNotAllowed,
	http.StatusConflict:            ErrConflict,
	http.StatusUnprocessableEntity: ErrUnprocessableEntity,
}

// APIError is a non-retryable HTTP error response, surfaced with
// enough context to diagnose the failing call.
type APIError struct {
	StatusCode int
	Message    string
	URL        string

	kind error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// Unwrap exposes the status-specific sentinel, so callers can match
// with errors.Is(err, ErrNotFound) and friends.
func (e *APIError) Unwrap() error {
	if e.kind != nil {
		return e.kind
	}
	return nil
}

// newAPIError maps a status code to its sentinel kind.
func newAPIError(statusCode int, message, url string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Message:    message,
		URL:        url,
		kind:       statusErrors[statusCode],
	}
}

// ServerError is a retryable upstream failure: any 5xx status.
type ServerError struct {
	StatusCode int
	URL        string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("github: server error %d (URL: %s)", e.StatusCode, e.URL)
}

// RateLimitError is a retryable 429 response.
type RateLimitError struct {
	ResetAt   time.Time
	Remaining int
	Limit     int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("github: rate limit exceeded, resets at %s", e.ResetAt.Format(time.RFC3339))
}

// IsRetryable reports whether a failed call may be attempted again:
// server errors, rate limiting, and transport-level failures qualify.
// Typed API errors are permanent for the call that produced them.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		return true
	}
	var rateErr *RateLimitError
	if errors.As(err, &rateErr) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return false
	}
	// Anything else at this level is a transport failure.
	return true
}

// IsUnauthorized reports whether the error indicates an authentication
// failure.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsNotFound reports whether the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
