// Package workday counts working days between calendar dates.
//
// A working day is any day other than Saturday or Sunday. There is no holiday
// calendar, timezone conversion or half-day support.
package workday

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date format accepted by CountBetween.
const DateLayout = "2006-01-02"

// CountWorkingDays returns the number of weekdays from start to end, both
// inclusive. It returns 0 when either date is the zero time or start falls after
// end. Only the calendar date of each argument is considered.
func CountWorkingDays(start, end time.Time) int {
	if start.IsZero() || end.IsZero() {
		return 0
	}
	from := dateOf(start)
	to := dateOf(end)
	if from.After(to) {
		return 0
	}

	count := 0
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if IsWorkingDay(day) {
			count++
		}
	}
	return count
}

// CountBetween parses two YYYY-MM-DD strings and counts the working days between
// them. A blank string is treated as an absent date and yields 0.
func CountBetween(start, end string) (int, error) {
	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)
	if start == "" || end == "" {
		return 0, nil
	}
	from, err := ParseDate(start)
	if err != nil {
		return 0, err
	}
	to, err := ParseDate(end)
	if err != nil {
		return 0, err
	}
	return CountWorkingDays(from, to), nil
}

// ParseDate parses a YYYY-MM-DD calendar date at midnight UTC.
func ParseDate(value string) (time.Time, error) {
	parsed, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected %s", value, DateLayout)
	}
	return parsed, nil
}

// IsWorkingDay reports whether t falls on Monday through Friday.
func IsWorkingDay(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return true
}

// dateOf drops the clock and location so DST shifts cannot skip or repeat a day.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
