// Package timefmt parses and formats the timestamps found in the challenge
// tables and trajectory files.
package timefmt

import (
	"fmt"
	"strings"
	"time"
)

// Layout is the output layout for timestamps.
const Layout = "2006-01-02 15:04:05.999999999"

var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999 -0700",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Parse accepts ISO-8601 style timestamps with or without a zone. Values
// without a zone are taken as UTC. The result is always in UTC.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// Format renders t in UTC, or "" for the zero time.
func Format(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(Layout)
}
