package model

import (
	"fmt"
	"time"
)

// Day is a civil calendar date, stored as whole days since the Unix epoch.
// It is comparable, ordered, and safe to use as a map key.
type Day int

const dayLayout = "2006-01-02"

// DayOf returns the calendar day containing t in the given location.
func DayOf(t time.Time, loc *time.Location) Day {
	local := t.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	return Day(midnight.Unix() / 86400)
}

// ParseDay parses an ISO 8601 date ("2006-01-02").
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return 0, fmt.Errorf("parse day %q: %w", s, err)
	}
	return Day(t.Unix() / 86400), nil
}

// MustDay parses an ISO 8601 date and panics on failure. For tests and
// static configuration only.
func MustDay(s string) Day {
	d, err := ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Time returns the day as midnight UTC.
func (d Day) Time() time.Time {
	return time.Unix(int64(d)*86400, 0).UTC()
}

// String formats the day as ISO 8601 ("2006-01-02").
func (d Day) String() string {
	return d.Time().Format(dayLayout)
}

// AddDays returns the day shifted by n calendar days.
func (d Day) AddDays(n int) Day {
	return d + Day(n)
}

// DaysUntil returns the number of calendar days from d to other.
// Negative when other precedes d.
func (d Day) DaysUntil(other Day) int {
	return int(other - d)
}
