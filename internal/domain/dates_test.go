package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDueDate(t *testing.T) {
	loc := time.UTC
	ref := time.Date(2026, 8, 25, 14, 30, 0, 0, loc) // Tuesday

	tests := map[string]struct {
		raw      string
		expected time.Time
		wantErr  bool
	}{
		"empty-defaults-to-today": {
			raw:      "",
			expected: time.Date(2026, 8, 25, 0, 0, 0, 0, loc),
		},
		"iso-date": {
			raw:      "2026-09-10",
			expected: time.Date(2026, 9, 10, 0, 0, 0, 0, loc),
		},
		"tomorrow": {
			raw:      "tomorrow",
			expected: time.Date(2026, 8, 26, 0, 0, 0, 0, loc),
		},
		"next-friday": {
			raw:      "next friday",
			expected: time.Date(2026, 8, 28, 0, 0, 0, 0, loc),
		},
		"this-tuesday-is-today": {
			raw:      "this tuesday",
			expected: time.Date(2026, 8, 25, 0, 0, 0, 0, loc),
		},
		"next-tuesday-skips-today": {
			raw:      "next tuesday",
			expected: time.Date(2026, 9, 1, 0, 0, 0, 0, loc),
		},
		"month-day-year": {
			raw:      "September 3, 2026",
			expected: time.Date(2026, 9, 3, 0, 0, 0, 0, loc),
		},
		"gibberish": {
			raw:     "when the stars align",
			wantErr: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ResolveDueDate(tc.raw, ref, loc)
			if tc.wantErr {
				require.Error(t, err)
				assert.IsType(t, &ValidationErr{}, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestExtractDateFromText(t *testing.T) {
	loc := time.UTC
	ref := time.Date(2026, 8, 25, 9, 0, 0, 0, loc) // Tuesday

	tests := map[string]struct {
		text     string
		expected time.Time
		ok       bool
	}{
		"embedded-relative": {
			text:     "remind me to call the parents tomorrow",
			expected: time.Date(2026, 8, 26, 0, 0, 0, 0, loc),
			ok:       true,
		},
		"embedded-iso": {
			text:     "the exam is on 2026-12-01, prepare the room",
			expected: time.Date(2026, 12, 1, 0, 0, 0, 0, loc),
			ok:       true,
		},
		"case-insensitive": {
			text:     "finish enrollment by TOMORROW",
			expected: time.Date(2026, 8, 26, 0, 0, 0, 0, loc),
			ok:       true,
		},
		"bare-weekday": {
			text:     "schedule the demo class friday",
			expected: time.Date(2026, 8, 28, 0, 0, 0, 0, loc),
			ok:       true,
		},
		"no-date": {
			text: "update the phone number",
			ok:   false,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, ok := ExtractDateFromText(tc.text, ref, loc)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.expected, got)
			}
		})
	}
}
