package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/replikit/tap-covid19/internal/core/ports/driven"
	"github.com/replikit/tap-covid19/internal/logger"
)

const (
	// DefaultBaseURL is the API root.
	DefaultBaseURL = "https://api.github.com"

	// DefaultTimeout is the per-request HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// acceptHeader pins the API version on every request.
	acceptHeader = "application/vnd.github.v3+json"

	// lastModifiedField is the synthetic body field carrying the
	// Last-Modified response header in ISO-8601 UTC form.
	lastModifiedField = "last_modified"

	// isoFormat is the canonical timestamp layout for emitted fields.
	isoFormat = "2006-01-02T15:04:05Z"
)

// Ensure Client implements the transport port.
var _ driven.Fetcher = (*Client)(nil)

// Client issues authenticated requests against the GitHub API with
// quota limiting, retryable-error classification, and Link-header
// pagination cursors. The typed go-github client serves the access
// check; the replication fetch path speaks raw HTTP because it needs
// direct control of conditional-request and pagination headers.
type Client struct {
	httpClient  *http.Client
	gh          *gh.Client
	baseURL     string
	userAgent   string
	rateLimiter *RateLimiter
	retry       RetryPolicy
	accessRetry RetryPolicy
	verified    bool
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root. Used by tests.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithRetryPolicy overrides the replication-request retry budget.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) { c.retry = p }
}

// WithAccessRetryPolicy overrides the access-check retry budget.
func WithAccessRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) { c.accessRetry = p }
}

// WithHTTPClient replaces the underlying HTTP client. Used by tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
		c.gh = gh.NewClient(hc)
	}
}

// NewClient creates a client authenticated with a static token.
func NewClient(ctx context.Context, token, userAgent string, opts ...Option) *Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = DefaultTimeout

	c := &Client{
		httpClient:  tc,
		gh:          gh.NewClient(tc),
		baseURL:     DefaultBaseURL,
		userAgent:   userAgent,
		rateLimiter: NewRateLimiter(),
		retry:       DefaultRetryPolicy(),
		accessRetry: AccessCheckRetryPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckAccess verifies the credential with a single-record API call,
// retrying transient failures under the tighter access budget.
func (c *Client) CheckAccess(ctx context.Context) error {
	err := c.accessRetry.Do(ctx, func() error {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return err
		}
		_, resp, err := c.gh.Users.Get(ctx, "")
		if resp != nil && resp.Response != nil {
			c.rateLimiter.UpdateFromResponse(resp.Response)
		}
		return c.wrapAccessError(err)
	})
	if err != nil {
		return fmt.Errorf("check access: %w", err)
	}
	c.verified = true
	return nil
}

// wrapAccessError converts go-github failures into the client's error
// taxonomy so the shared retryable predicate applies.
func (c *Client) wrapAccessError(err error) error {
	if err == nil {
		return nil
	}
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		code := ghErr.Response.StatusCode
		if code >= http.StatusInternalServerError {
			return &ServerError{StatusCode: code, URL: requestURL(ghErr.Response)}
		}
		if code == http.StatusTooManyRequests {
			return c.rateLimiter.RateLimitErrorFrom(ghErr.Response)
		}
		return newAPIError(code, ghErr.Message, requestURL(ghErr.Response))
	}
	var rlErr *gh.RateLimitError
	if errors.As(err, &rlErr) {
		return &RateLimitError{
			ResetAt:   c.rateLimiter.ResetTime(),
			Remaining: c.rateLimiter.Remaining(),
			Limit:     RequestQuota,
		}
	}
	return err
}

// Fetch issues one request under the rate limiter and retry policy.
// A 304 response is a valid, empty result: (nil, "", nil). When the
// response carries a Last-Modified header it is injected into the body
// under "last_modified" in ISO-8601 UTC. nextURL is the Link header's
// rel="next" entry, or "" on the last page.
func (c *Client) Fetch(ctx context.Context, method, url string, headers map[string]string) (map[string]any, string, error) {
	if !c.verified {
		if err := c.CheckAccess(ctx); err != nil {
			return nil, "", err
		}
	}

	if !strings.HasPrefix(url, "http") {
		url = c.baseURL + "/" + strings.TrimLeft(url, "/")
	}

	var body map[string]any
	var nextURL string
	err := c.retry.Do(ctx, func() error {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return err
		}
		var err error
		body, nextURL, err = c.doRequest(ctx, method, url, headers)
		return err
	})
	if err != nil {
		return nil, "", err
	}
	return body, nextURL, nil
}

// Get is shorthand for Fetch with the GET method.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (map[string]any, string, error) {
	return c.Fetch(ctx, http.MethodGet, url, headers)
}

func (c *Client) doRequest(ctx context.Context, method, url string, headers map[string]string) (map[string]any, string, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", acceptHeader)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Transport-level failure: retryable.
		return nil, "", fmt.Errorf("github: request %s: %w", url, err)
	}
	defer resp.Body.Close()

	c.rateLimiter.UpdateFromResponse(resp)

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, "", &ServerError{StatusCode: resp.StatusCode, URL: url}
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, "", c.rateLimiter.RateLimitErrorFrom(resp)
	case resp.StatusCode == http.StatusNotModified:
		// Conditional fetch: content unchanged since the bookmark.
		return nil, "", nil
	case resp.StatusCode != http.StatusOK:
		return nil, "", newAPIError(resp.StatusCode, readErrorMessage(resp), url)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, "", fmt.Errorf("github: decode response from %s: %w", url, err)
	}

	if lm := resp.Header.Get("Last-Modified"); lm != "" {
		if t, err := time.Parse(time.RFC1123, lm); err == nil {
			body[lastModifiedField] = t.UTC().Format(isoFormat)
		} else {
			logger.Warn("unparseable Last-Modified header %q from %s", lm, url)
		}
	}

	return body, ParseNextLink(resp.Header.Get("Link")), nil
}

// readErrorMessage pulls the message field out of an error body,
// falling back to the raw text.
func readErrorMessage(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil || len(data) == 0 {
		return resp.Status
	}
	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &payload) == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(data))
}

func requestURL(resp *http.Response) string {
	if resp.Request != nil && resp.Request.URL != nil {
		return resp.Request.URL.String()
	}
	return ""
}
