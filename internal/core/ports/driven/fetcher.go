package driven

import "context"

// Fetcher is the transport contract consumed by the sync orchestrator.
// Implementations authenticate, throttle, retry, and surface pagination
// cursors; the orchestrator only sees decoded bodies and continuation
// URLs.
type Fetcher interface {
	// CheckAccess verifies credentials with a lightweight API call.
	CheckAccess(ctx context.Context) error

	// Fetch issues an authenticated request. url may be absolute or a
	// path relative to the API base. A conditional fetch answered with
	// 304 returns (nil, "", nil): a valid, empty result. nextURL is the
	// continuation URL from the response's Link header, or "" on the
	// last page.
	Fetch(ctx context.Context, method, url string, headers map[string]string) (body map[string]any, nextURL string, err error)
}
