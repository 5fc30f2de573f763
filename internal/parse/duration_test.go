package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDuration(t *testing.T) {
	testCases := []struct {
		raw      string
		expected int
	}{
		{"00:45:30", 2730},
		{"01:00:00", 3600},
		{"00:00:00", 0},
		{"99:59:59", 99*3600 + 59*60 + 59},
		{"", 0},
		{"45:30", 0},
		{"aa:bb:cc", 0},
		{"00:61:00", 0},
		{"-1:00:00", 0},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			assert.Equal(t, tc.expected, Duration(tc.raw))
		})
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "00:45:30", FormatDuration(2730))
	assert.Equal(t, "00:00:00", FormatDuration(-5))
	assert.Equal(t, "99:59:59", FormatDuration(359999))
}

func TestDuration_RoundTrip(t *testing.T) {
	for s := 0; s <= 359999; s += 37 {
		if !assert.Equal(t, s, Duration(FormatDuration(s))) {
			return
		}
	}
	assert.Equal(t, 359999, Duration(FormatDuration(359999)))
}
