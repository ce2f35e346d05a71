package utils

import (
	"time"
)

// timestampLayout matches the structure artifact contract: date plus
// second-precision time, rendered in the local zone.
const timestampLayout = "2006-01-02 15:04:05"

// FormatTimestamp returns the provided time formatted using the local time zone.
// The zero time renders as an empty string so absent metadata stays absent.
func FormatTimestamp(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.In(time.Local).Format(timestampLayout)
}

// ParseTimestamp is the inverse of FormatTimestamp. An empty input yields the
// zero time without an error.
func ParseTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(timestampLayout, value, time.Local)
}
