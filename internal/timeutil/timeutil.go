// Package timeutil normalizes the feed's mixed date/time representations
// into a canonical UTC date and time-of-day pair.
package timeutil

import (
	"strings"
	"time"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// parseLayouts is ordered most specific first. The feed mixes RFC1123
// publication dates, "2013-04-15 13:28:36" execution timestamps and bare
// expiry dates in the same payload.
var parseLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05 MST",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
}

// Stamp is a normalized UTC timestamp split into its date and time-of-day
// components. The zero value is invalid; callers must check Valid before
// reading Date or Time.
type Stamp struct {
	Date  string `json:"d,omitempty"`
	Time  string `json:"t,omitempty"`
	Valid bool   `json:"-"`
}

// FromTime normalizes a structured instant.
func FromTime(t time.Time) Stamp {
	if t.IsZero() {
		return Stamp{}
	}
	utc := t.UTC()
	return Stamp{
		Date:  utc.Format(dateLayout),
		Time:  utc.Format(timeLayout),
		Valid: true,
	}
}

// Parse normalizes a free-form timestamp string, trying each supported
// layout in order. An unparsable string yields an invalid Stamp, never a
// partial one.
func Parse(s string) Stamp {
	s = strings.TrimSpace(s)
	if s == "" {
		return Stamp{}
	}
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return FromTime(t)
		}
	}
	return Stamp{}
}

// ParseParts normalizes a split {date, time} pair such as
// {"2001-12-29", "15:30:12"}.
func ParseParts(date, tod string) Stamp {
	return Parse(strings.TrimSpace(date + " " + tod))
}

// UTC reconstructs the instant the Stamp was normalized from, truncated to
// second precision. Returns the zero time for invalid stamps.
func (s Stamp) UTC() time.Time {
	if !s.Valid {
		return time.Time{}
	}
	t, err := time.Parse(dateLayout+" "+timeLayout, s.Date+" "+s.Time)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

func (s Stamp) String() string {
	if !s.Valid {
		return "<invalid>"
	}
	return s.Date + " " + s.Time
}
