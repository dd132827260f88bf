package contract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/adviz/schema"
)

// Define the regular expression to capture "N [units] ago"
// e.g., "2 days ago", "3 hours ago", "1 week ago".
var relativeTimeRe = regexp.MustCompile(`^(\d+)\s+(year|month|week|day|hour|minute)s?\s+ago$`)

// ParseRelativeTime converts strings like "2 days ago" into a time.Time in the past.
func ParseRelativeTime(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	matches := relativeTimeRe.FindStringSubmatch(s)
	if len(matches) == 0 {
		return time.Time{}, fmt.Errorf("invalid relative time format: %s", s)
	}

	value, err := strconv.Atoi(matches[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid relative time value: %s", matches[1])
	}

	switch matches[2] {
	case "year":
		return now.AddDate(-value, 0, 0), nil
	case "month":
		return now.AddDate(0, -value, 0), nil
	case "week":
		return now.AddDate(0, 0, -7*value), nil
	case "day":
		return now.AddDate(0, 0, -value), nil
	case "hour":
		return now.Add(time.Duration(-value) * time.Hour), nil
	default:
		return now.Add(time.Duration(-value) * time.Minute), nil
	}
}

// ParseTimeArg parses an absolute RFC3339 time or a relative "N units ago".
func ParseTimeArg(s string, now time.Time) (time.Time, error) {
	if t, err := time.Parse(DateTimeFormat, s); err == nil {
		return t, nil
	}
	t, err := ParseRelativeTime(s, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time '%s'. Expected absolute ISO8601 or 'N [units] ago'", s)
	}
	return t, nil
}

// Define the regular expression to capture "N units", e.g. "1 minutes" or "30 second".
var windowDelayRe = regexp.MustCompile(`^(\d+)\s*(second|minute|hour|day)s?$`)

// ParseWindowDelay converts strings like "1 minutes" or "2 hours" into a WindowDelay.
func ParseWindowDelay(s string) (schema.WindowDelay, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	matches := windowDelayRe.FindStringSubmatch(s)
	if len(matches) == 0 {
		return schema.WindowDelay{}, fmt.Errorf("invalid window delay format: %s (expected 'N seconds|minutes|hours|days')", s)
	}
	value, err := strconv.Atoi(matches[1])
	if err != nil {
		return schema.WindowDelay{}, fmt.Errorf("invalid window delay value: %s", matches[1])
	}
	return schema.WindowDelay{Interval: value, Unit: schema.TimeUnit(matches[2] + "s")}, nil
}

// ToWindow converts a time range into epoch milliseconds.
func ToWindow(start, end time.Time) schema.TimeWindow {
	return schema.TimeWindow{StartDate: start.UnixMilli(), EndDate: end.UnixMilli()}
}

// FormatMillis formats epoch milliseconds for display in UTC.
func FormatMillis(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(DateTimeFormat)
}
