// Package datetime provides the calendar Date type and date parsing helpers.
package datetime

import (
	"fmt"
	"time"

	"github.com/iwvelando/peso-dashboard/pkg/constants"
)

// DateLayout is the format used for dates in config files and in all output.
const DateLayout = constants.DateLayout

// Date is a calendar day with no time of day and no location.
// The zero value is treated as "unset" by range filters.
type Date struct {
	y int
	m time.Month
	d int
}

// NewDate returns a normalized Date, so NewDate(2023, 1, 32) is 2023-02-01.
func NewDate(year int, month time.Month, day int) Date {
	return FromTime(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// FromTime truncates t to its calendar day, in t's own location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{y, m, d}
}

// Year returns the year of the date.
func (d Date) Year() int { return d.y }

// Month returns the month of the date.
func (d Date) Month() time.Month { return d.m }

// Day returns the day of the month.
func (d Date) Day() int { return d.d }

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d == Date{} }

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// Weekday returns the Go weekday of the date.
func (d Date) Weekday() time.Weekday { return d.Time().Weekday() }

// AddDays returns the date n calendar days after d (n may be negative).
func (d Date) AddDays(n int) Date { return FromTime(d.Time().AddDate(0, 0, n)) }

// Before reports whether d is strictly before x.
func (d Date) Before(x Date) bool { return d.Time().Before(x.Time()) }

// After reports whether d is strictly after x.
func (d Date) After(x Date) bool { return d.Time().After(x.Time()) }

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after x.
func (d Date) Compare(x Date) int { return d.Time().Compare(x.Time()) }

// Format formats the date with a Go time layout.
func (d Date) Format(layout string) string { return d.Time().Format(layout) }

// String formats the date as 2006-01-02.
func (d Date) String() string { return d.Format(DateLayout) }

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	if d.IsZero() {
		return []byte{}, nil
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := Parse(DateLayout, string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Weekday indices with Monday as day 0.
const (
	Monday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// WeekdayIndex returns the day of the week of d with Monday = 0 and Sunday = 6.
func WeekdayIndex(d Date) int {
	return (int(d.Weekday()) + 6) % 7
}

// IsWeekend reports whether d falls on a Saturday or a Sunday.
func IsWeekend(d Date) bool {
	return WeekdayIndex(d) >= Saturday
}

// MonthStart returns the first day of d's month.
func MonthStart(d Date) Date { return Date{d.y, d.m, 1} }

// MustParseDate parses a 2006-01-02 date string and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseDate(s string) Date {
	d, err := Parse(DateLayout, s)
	if err != nil {
		panic(fmt.Sprintf("datetime.MustParseDate(%q): %v", s, err))
	}
	return d
}
