package aggregate

import (
	"fmt"
	"time"
)

// Date is a single calendar date in the target display timezone.
// It deliberately carries no location so dates compare by value.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf extracts the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Time returns midnight of the date in UTC. UTC has no DST transitions,
// so day arithmetic on these instants is exact.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// Next returns the following calendar date.
func (d Date) Next() Date {
	return DateOf(d.Time().AddDate(0, 0, 1))
}

// DaysUntil returns the number of calendar days from d to o
// (positive when o is later).
func (d Date) DaysUntil(o Date) int {
	return int(o.Time().Sub(d.Time()) / (24 * time.Hour))
}
