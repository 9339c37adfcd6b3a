package github

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewAPIError_StatusSentinels(t *testing.T) {
	tests := []struct {
		status   int
		sentinel error
	}{
		{http.StatusBadRequest, ErrBadRequest},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusPaymentRequired, ErrRequestFailed},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusMethodNotAllowed, ErrMethodNotAllowed},
		{http.StatusConflict, ErrConflict},
		{http.StatusUnprocessableEntity, ErrUnprocessableEntity},
	}

	for _, tc := range tests {
		t.Run(fmt.Sprintf("%d", tc.status), func(t *testing.T) {
			err := newAPIError(tc.status, "message", "https://api.github.com/x")
			assert.ErrorIs(t, err, tc.sentinel)
		})
	}
}

func TestNewAPIError_UnknownStatusHasNoSentinel(t *testing.T) {
	err := newAPIError(418, "teapot", "https://api.github.com/x")
	assert.Nil(t, err.Unwrap())
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestAPIError_Message(t *testing.T) {
	err := newAPIError(404, "missing file", "https://api.github.com/repos/x")
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "missing file")
	assert.Contains(t, err.Error(), "https://api.github.com/repos/x")
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(nil))
	assert.True(t, IsRetryable(&ServerError{StatusCode: 502}))
	assert.True(t, IsRetryable(&RateLimitError{ResetAt: time.Now()}))
	assert.False(t, IsRetryable(newAPIError(404, "not found", "")))
	assert.False(t, IsRetryable(newAPIError(401, "bad credentials", "")))

	// Anything untyped is treated as a transport failure.
	assert.True(t, IsRetryable(errors.New("connection reset")))
}

func TestIsRetryable_WrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("fetch: %w", &ServerError{StatusCode: 500})
	assert.True(t, IsRetryable(wrapped))

	wrapped = fmt.Errorf("fetch: %w", newAPIError(422, "invalid query", ""))
	assert.False(t, IsRetryable(wrapped))
}

func TestIsUnauthorized(t *testing.T) {
	assert.True(t, IsUnauthorized(newAPIError(401, "bad credentials", "")))
	assert.True(t, IsUnauthorized(fmt.Errorf("check access: %w", newAPIError(401, "", ""))))
	assert.False(t, IsUnauthorized(newAPIError(404, "", "")))
	assert.False(t, IsUnauthorized(nil))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(newAPIError(404, "", "")))
	assert.False(t, IsNotFound(newAPIError(403, "", "")))
}
