package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		expected error
	}{
		{
			name:     "valid",
			config:   Config{APIToken: "ghp_x", StartDate: "2020-01-01T00:00:00Z"},
			expected: nil,
		},
		{
			name:     "missing token",
			config:   Config{StartDate: "2020-01-01T00:00:00Z"},
			expected: ErrMissingAPIToken,
		},
		{
			name:     "missing start date",
			config:   Config{APIToken: "ghp_x"},
			expected: ErrMissingStartDate,
		},
		{
			name:     "invalid start date",
			config:   Config{APIToken: "ghp_x", StartDate: "March 1st"},
			expected: ErrInvalidStartDate,
		},
		{
			name:     "date without time",
			config:   Config{APIToken: "ghp_x", StartDate: "2020-01-01"},
			expected: ErrInvalidStartDate,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.config.Validate()
			if tc.expected == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.expected)
			}
		})
	}
}
