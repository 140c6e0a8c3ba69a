// internal/dataset/timestamp.go
// Package: dataset
package dataset

import (
	"strconv"
	"time"
)

// MinInstant is the sentinel returned for run tokens that do not parse.
var MinInstant = time.Time{}

// RunTimestampLayout renders parsed run tokens for display.
const RunTimestampLayout = "2006-01-02 15:04:05"

// ParseRunTimestamp parses a Gatling run token of the form YYYYMMDDHHMMSSmmm.
// Fields are cut at fixed offsets and a short token leaves its last field
// short, so "2025062706455" is 06:45:05. Tokens shorter than 17 characters
// default the milliseconds to 000. An empty, non-numeric or out-of-range
// field yields MinInstant.
func ParseRunTimestamp(token string) time.Time {
	fields := [7]string{cut(token, 0, 4), cut(token, 4, 6), cut(token, 6, 8), cut(token, 8, 10), cut(token, 10, 12), cut(token, 12, 14), "000"}
	if len(token) >= 17 {
		fields[6] = token[14:17]
	}

	var n [7]int
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return MinInstant
		}
		n[i] = v
	}

	year, month, day := n[0], n[1], n[2]
	hour, minute, sec, ms := n[3], n[4], n[5], n[6]
	if year < 1 || month < 1 || month > 12 || day < 1 || day > daysIn(year, month) {
		return MinInstant
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || sec < 0 || sec > 59 || ms < 0 {
		return MinInstant
	}
	return time.Date(year, time.Month(month), day, hour, minute, sec, ms*int(time.Millisecond), time.UTC)
}

// FormatRunTimestamp renders a run token as "2006-01-02 15:04:05", or returns
// the token unchanged when it does not parse.
func FormatRunTimestamp(token string) string {
	t := ParseRunTimestamp(token)
	if t.Equal(MinInstant) {
		return token
	}
	return t.Format(RunTimestampLayout)
}

// cut returns s[i:j] clamped to the length of s.
func cut(s string, i, j int) string {
	i, j = min(i, len(s)), min(j, len(s))
	return s[i:j]
}

func daysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
