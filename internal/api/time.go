package api

import "time"

// Wire formats for dates and timestamps. Entities keep time.Time; these
// are applied only when shaping responses.
const (
	DateFormat      = "2006-01-02"
	TimestampFormat = "2006-01-02 15:04:05"
)

func FormatDate(t time.Time) string {
	return t.UTC().Format(DateFormat)
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}
