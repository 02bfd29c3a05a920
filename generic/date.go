/*
Package generic provides the calendar primitives shared by the vacation engine.

PURPOSE:
  Vacation rules are written in civil dates: "starts on 2027-03-01", "ends
  29 days later", "must not start on a Friday". This package gives those
  dates one concrete type with centralized arithmetic so that no business
  rule ever touches a platform-local time.Time.

KEY CONCEPTS IN THIS FILE (date.go):
  - Date: a civil date (year, month, day) with no time-of-day
  - Clock: where "today" comes from (system or fixed for tests)

NOON ANCHOR:
  Every Date is stored as 12:00 UTC of its day. Adding days, comparing and
  reading the weekday all happen on that anchor, so a conversion through
  any timezone between UTC-12 and UTC+11 still lands on the same calendar
  day. Midnight anchors shift by one day as soon as a caller formats them
  in a negative-offset zone; noon does not.

USAGE:
  start := generic.NewDate(2027, time.March, 1)
  end := start.AddDays(29)
  if start.Weekday() == time.Friday { ... }

SEE ALSO:
  - period.go: DateRange (inclusive ranges, overlap, coverage)
  - errors.go: sentinel errors
*/
package generic

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Civil date anchored at noon UTC
// =============================================================================

// Date is a calendar date without a time component.
// The zero value is "no date" (see IsZero).
type Date struct {
	t time.Time
}

const (
	anchorHour = 12

	// ISOLayout is the wire format used by the API and the store.
	ISOLayout = "2006-01-02"
	// BRLayout is the display format used in user-facing messages.
	BRLayout = "02/01/2006"
)

// NewDate builds a Date. Out-of-range values normalize like time.Date
// (e.g. Feb 30 becomes Mar 2).
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, anchorHour, 0, 0, 0, time.UTC)}
}

// DateOf returns the civil date of t as seen in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(ISOLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: date %q: %v", ErrInvalidInput, s, err)
	}
	return DateOf(t), nil
}

// MustParseDate is ParseDate for literals in tests and fixtures.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Arithmetic
func (d Date) AddDays(n int) Date   { return DateOf(d.t.AddDate(0, 0, n)) }
func (d Date) AddMonths(n int) Date { return DateOf(d.t.AddDate(0, n, 0)) }
func (d Date) AddYears(n int) Date  { return DateOf(d.t.AddDate(n, 0, 0)) }

// Comparison
func (d Date) Before(o Date) bool        { return d.t.Before(o.t) }
func (d Date) After(o Date) bool         { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool         { return d.t.Equal(o.t) }
func (d Date) BeforeOrEqual(o Date) bool { return !d.t.After(o.t) }
func (d Date) AfterOrEqual(o Date) bool  { return !d.t.Before(o.t) }

// Compare returns -1, 0 or +1.
func (d Date) Compare(o Date) int { return d.t.Compare(o.t) }

// Properties
func (d Date) Year() int             { return d.t.Year() }
func (d Date) Month() time.Month     { return d.t.Month() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) IsZero() bool          { return d.t.IsZero() }

// Time exposes the noon-UTC anchor, for drivers and encoders only.
func (d Date) Time() time.Time { return d.t }

// MonthDay packs month and day as MMDD so recurring windows compare as ints.
func (d Date) MonthDay() int { return int(d.Month())*100 + d.Day() }

// DaysUntil returns the number of days from d to o (negative if o is earlier).
func (d Date) DaysUntil(o Date) int {
	return int(o.t.Sub(d.t).Hours() / 24)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(ISOLayout)
}

// Format renders the date as DD/MM/YYYY for messages.
func (d Date) Format() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(BRLayout)
}

// MarshalText implements encoding.TextMarshaler (JSON uses it too).
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Empty input is the zero Date.
func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// =============================================================================
// CLOCK - Source of "today"
// =============================================================================

// Clock supplies the current civil date. Every time-derived rule takes
// today as an argument; the Clock only lives at the service boundary.
type Clock interface {
	Today() Date
}

// SystemClock reads the wall clock in a fixed location.
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Today() Date {
	now := time.Now()
	if c.Location != nil {
		now = now.In(c.Location)
	}
	return DateOf(now)
}

// FixedClock always returns the same day.
type FixedClock struct {
	Date Date
}

func (c FixedClock) Today() Date { return c.Date }
