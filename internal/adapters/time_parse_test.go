package adapters

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseReleaseTime(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
		ok       bool
	}{
		{
			name:     "RFC3339",
			input:    "2025-06-15T10:30:00Z",
			expected: time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC),
			ok:       true,
		},
		{
			name:     "registry millis",
			input:    "2025-06-15T10:30:00.123Z",
			expected: time.Date(2025, 6, 15, 10, 30, 0, 123000000, time.UTC),
			ok:       true,
		},
		{
			name:     "offset normalized to UTC",
			input:    "2025-06-15T12:30:00+02:00",
			expected: time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC),
			ok:       true,
		},
		{
			name:     "date only",
			input:    "2025-06-15",
			expected: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
			ok:       true,
		},
		{
			name:     "surrounding whitespace",
			input:    "  2025-06-15T10:30:00Z  ",
			expected: time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC),
			ok:       true,
		},
		{name: "empty", input: ""},
		{name: "garbage", input: "not-a-date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseReleaseTime(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFormatReleaseTime(t *testing.T) {
	assert.Equal(t, "", formatReleaseTime(time.Time{}))
	stamp := time.Date(2025, 6, 15, 12, 30, 0, 0, time.FixedZone("CEST", 2*3600))
	assert.Equal(t, "2025-06-15T10:30:00Z", formatReleaseTime(stamp))
}
