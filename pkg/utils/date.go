package utils

import "time"

// StartOfUTCDay truncates t to 00:00 UTC of its UTC calendar day.
func StartOfUTCDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// UntilNextUTCDay is the time left before the next UTC midnight.
func UntilNextUTCDay(t time.Time) time.Duration {
	return StartOfUTCDay(t).AddDate(0, 0, 1).Sub(t)
}

// UnixMilli converts milliseconds since epoch to a UTC time.
func UnixMilli(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
