package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLabel(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  ParsedLabel
		expectErr bool
	}{
		{
			name:     "Short washer label",
			raw:      "W-3-R1",
			expected: ParsedLabel{Prefix: "W", Floor: 3, Location: "R1"},
		},
		{
			name:     "Long dryer label",
			raw:      "Dryer-5-L2",
			expected: ParsedLabel{Prefix: "Dryer", Floor: 5, Location: "L2"},
		},
		{
			name:     "Lower case side is not a location",
			raw:      "Washer-4-r12",
			expected: ParsedLabel{Prefix: "Washer", Floor: 4, Location: "R1"},
		},
		{
			name:     "Missing location defaults",
			raw:      "W-4-X",
			expected: ParsedLabel{Prefix: "W", Floor: 4, Location: "R1"},
		},
		{
			name:      "No floor",
			raw:       "Washer",
			expectErr: true,
		},
		{
			name:      "Empty",
			raw:       "  ",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			parsed, err := ParseLabel(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, parsed)
			}
		})
	}
}

func TestLocation(t *testing.T) {
	assert.Equal(t, "R1", Location("W-3-R1"))
	assert.Equal(t, "L2", Location("D-5-L2"))
	assert.Equal(t, "R1", Location("nothing here"))
	assert.Equal(t, "R1", Location("D-5-l2"))
}
