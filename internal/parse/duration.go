package parse

import (
	"fmt"
	"strconv"
	"strings"
)

// Duration parses an "HH:MM:SS" string into seconds. Malformed input yields 0.
func Duration(s string) int {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0
	}

	var vals [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0
		}
		vals[i] = n
	}
	if vals[1] > 59 || vals[2] > 59 {
		return 0
	}
	return vals[0]*3600 + vals[1]*60 + vals[2]
}

// FormatDuration renders seconds as "HH:MM:SS". Negative input renders as "00:00:00".
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}
