package github

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// RequestQuota is the authenticated request budget per rolling hour.
	RequestQuota = 5000

	// QuotaWindow is the rolling window the quota applies to.
	QuotaWindow = time.Hour

	// MinBuffer is the remaining-request floor below which the limiter
	// waits for the reported reset instead of spending the reserve.
	MinBuffer = 50

	// HeaderRateRemaining is the remaining-requests response header.
	HeaderRateRemaining = "X-RateLimit-Remaining"

	// HeaderRateLimit is the quota response header.
	HeaderRateLimit = "X-RateLimit-Limit"

	// HeaderRateReset is the reset-timestamp response header (Unix seconds).
	HeaderRateReset = "X-RateLimit-Reset"

	// HeaderRetryAfter is the retry-after response header (seconds).
	HeaderRetryAfter = "Retry-After"
)

// RateLimiter caps outbound requests to the documented hourly quota.
// A token bucket spreads the budget across the window proactively; the
// X-RateLimit response headers feed a reactive check that suspends the
// caller when the reserve is exhausted. Callers block in Wait rather
// than dropping or queueing requests elsewhere.
type RateLimiter struct {
	mu        sync.Mutex
	remaining int
	limit     int
	resetTime time.Time
	bucket    *rate.Limiter
	minBuffer int
}

// NewRateLimiter creates a limiter assuming a full quota.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		remaining: RequestQuota,
		limit:     RequestQuota,
		bucket:    rate.NewLimiter(rate.Limit(float64(RequestQuota)/QuotaWindow.Seconds()), 1),
		minBuffer: MinBuffer,
	}
}

// Wait blocks until budget is available for one request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	remaining := r.remaining
	resetTime := r.resetTime
	r.mu.Unlock()

	if remaining < r.minBuffer && time.Now().Before(resetTime) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Until(resetTime)):
		}
	}
	return nil
}

// UpdateFromResponse refreshes limiter state from response headers.
func (r *RateLimiter) UpdateFromResponse(resp *http.Response) {
	if resp == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if v := resp.Header.Get(HeaderRateRemaining); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			r.remaining = n
		}
	}
	if v := resp.Header.Get(HeaderRateLimit); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			r.limit = n
		}
	}
	if v := resp.Header.Get(HeaderRateReset); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			r.resetTime = time.Unix(n, 0)
		}
	}
}

// RateLimitErrorFrom builds the retryable error for a 429 response,
// honouring Retry-After when present.
func (r *RateLimiter) RateLimitErrorFrom(resp *http.Response) *RateLimitError {
	r.UpdateFromResponse(resp)

	r.mu.Lock()
	resetTime := r.resetTime
	remaining := r.remaining
	limit := r.limit
	r.mu.Unlock()

	if v := resp.Header.Get(HeaderRetryAfter); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil {
			resetTime = time.Now().Add(time.Duration(seconds) * time.Second)
		}
	}

	return &RateLimitError{
		ResetAt:   resetTime,
		Remaining: remaining,
		Limit:     limit,
	}
}

// Remaining returns the last reported remaining request count.
func (r *RateLimiter) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remaining
}

// ResetTime returns the last reported quota reset time.
func (r *RateLimiter) ResetTime() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resetTime
}
