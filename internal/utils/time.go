package utils

import (
	"time"
)

// LocalizedTimestamp renders t in the display timezone for embedding in
// user-facing messages and the localizedTimestamp record field. An
// unknown timezone falls back to UTC rather than failing the caller.
func LocalizedTimestamp(t time.Time, tz string) string {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}
	return t.In(loc).Format("02/01/2006 15:04:05")
}
