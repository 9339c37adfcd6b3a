package domain

import "time"

// Config holds the inbound tap configuration.
type Config struct {
	// APIToken is the GitHub personal access token. Required.
	APIToken string `toml:"api_token"`

	// StartDate is the ISO-8601 timestamp used as the initial bookmark
	// for streams with no persisted state. Required.
	StartDate string `toml:"start_date"`

	// UserAgent is attached to every outbound request when set.
	UserAgent string `toml:"user_agent"`
}

// Validate checks the configuration before any network call is made.
func (c Config) Validate() error {
	if c.APIToken == "" {
		return ErrMissingAPIToken
	}
	if c.StartDate == "" {
		return ErrMissingStartDate
	}
	if _, err := time.Parse(time.RFC3339, c.StartDate); err != nil {
		return ErrInvalidStartDate
	}
	return nil
}
