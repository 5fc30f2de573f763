package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultLocation is used when a label carries no side/index suffix.
const DefaultLocation = "R1"

var (
	locationRe = regexp.MustCompile(`([LR])(\d+)\s*$`)
	floorRe    = regexp.MustCompile(`-\s*(\d+)\s*-`)
)

// ParsedLabel holds the structured data parsed from a machine label.
type ParsedLabel struct {
	Prefix   string
	Floor    int
	Location string
}

// Location extracts the trailing side/index code ("R1", "L2") of a label.
func Location(label string) string {
	m := locationRe.FindStringSubmatch(strings.TrimSpace(label))
	if m == nil {
		return DefaultLocation
	}
	return m[1] + m[2]
}

// ParseLabel splits a "<Type>-<Floor>-<Side><Index>" label.
func ParseLabel(raw string) (ParsedLabel, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ParsedLabel{}, fmt.Errorf("empty label")
	}

	prefix := s
	if i := strings.Index(s, "-"); i >= 0 {
		prefix = strings.TrimSpace(s[:i])
	}

	floor := 0
	if m := floorRe.FindStringSubmatch(s); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			floor = n
		}
	}
	if floor == 0 {
		return ParsedLabel{}, fmt.Errorf("unable to parse floor from label: %q", raw)
	}

	return ParsedLabel{Prefix: prefix, Floor: floor, Location: Location(s)}, nil
}
