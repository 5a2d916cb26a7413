// Package calendar handles the gym's civil dates: "today", Sunday-start weeks
// and the YYYY-MM-DD form used on the wire and in DATE columns.
package calendar

import (
	"errors"
	"time"
)

const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date, use YYYY-MM-DD")

// Date truncates t to its calendar day in loc. The result is midnight UTC so
// that dates compare and format independently of the server zone.
func Date(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func Parse(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

func Format(d time.Time) string {
	return d.Format(DateLayout)
}

// WeekStart returns the Sunday on or before d.
func WeekStart(d time.Time) time.Time {
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// Week returns the first and last day (inclusive) of the Sunday-start week containing d.
func Week(d time.Time) (time.Time, time.Time) {
	start := WeekStart(d)
	return start, start.AddDate(0, 0, 6)
}

// Occurrence returns the date in the week starting at weekStart that falls on dayOfWeek (0 = Sunday).
func Occurrence(weekStart time.Time, dayOfWeek int) time.Time {
	return weekStart.AddDate(0, 0, dayOfWeek)
}
