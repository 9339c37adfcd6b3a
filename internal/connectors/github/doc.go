// Package github implements the transport client for the GitHub API:
// token authentication, request-quota limiting, exponential-backoff
// retries with a retryable-error taxonomy, conditional-fetch (304)
// semantics, and Link-header pagination cursors.
package github
