package common

import (
	"strings"
	"time"
)

const DateFormat = "2006-01-02"

// DefaultTimezone is used whenever a group doesn't configure its own zone.
const DefaultTimezone = "America/New_York"

// SentinelDay is where unparsable calendar dates end up. Far enough in the
// past that it never matches a live scheduler tick.
var SentinelDay = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

// WithLocation converts t into the named IANA zone.
func WithLocation(t time.Time, tz string) (time.Time, error) {
	loc, err := time.LoadLocation(strings.TrimSpace(tz))
	if err != nil {
		return time.Time{}, err
	}

	return t.In(loc), nil
}

// ToDay formats t's calendar day.
func ToDay(t time.Time) string {
	return t.Format(DateFormat)
}

// NormalizeDay truncates t to UTC midnight of its calendar day.
func NormalizeDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a configured calendar date and normalizes it to UTC
// midnight. Unparsable input is coerced to SentinelDay instead of
// returning an error.
func ParseDay(value string) time.Time {
	value = strings.TrimSpace(value)

	for _, layout := range []string{DateFormat, time.RFC3339, "2006/01/02", "01/02/2006"} {
		if t, err := time.Parse(layout, value); err == nil {
			return NormalizeDay(t)
		}
	}

	return SentinelDay
}
