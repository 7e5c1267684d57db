package bucket

import (
	"fmt"
	"time"
)

// Date identifies a calendar day with no time component.
// It is a comparable value type so it can be used directly in map keys.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf extracts the calendar date of a timestamp.
func DateOf(t time.Time) Date {
	year, month, day := t.Date()
	return Date{Year: year, Month: month, Day: day}
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Before reports whether d is chronologically before other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// Assign maps an hour of day to its zero-based bucket index within the day.
//
// A duration of 4 splits the day into 6 buckets (hours 0-3 land in bucket 0,
// hours 4-7 in bucket 1, and so on). A duration of 24 collapses the whole day
// into bucket 0; a duration of 1 yields one bucket per hour.
//
// Callers guarantee 0 <= hour <= 23 and 1 <= durationHours <= 24; duration
// validation is a configuration concern and happens before any row is read.
func Assign(hour, durationHours int) int {
	return hour / durationHours
}

// Count returns how many buckets a day splits into for the given duration.
func Count(durationHours int) int {
	return 23/durationHours + 1
}

// Range renders the wall-clock span a bucket covers, e.g. bucket 2 with a
// 6-hour duration is "12:00:00 - 17:59:59". When the duration does not divide
// 24 evenly the final bucket of the day is capped at 23:59:59.
func Range(index, durationHours int) string {
	start := index * durationHours
	end := start + durationHours - 1
	if end > 23 {
		end = 23
	}
	return fmt.Sprintf("%02d:00:00 - %02d:59:59", start, end)
}
