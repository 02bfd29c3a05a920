package generic

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE RANGE - Inclusive [Start, End] span of civil dates
// =============================================================================

// DateRange is an inclusive range of days. A vacation fraction of N days
// starting on S is the range [S, S+N-1].
//
// Examples:
//   - Fraction of 10 days from 2027-03-01: [2027-03-01, 2027-03-10]
//   - Collective vacation: [2027-12-23, 2028-01-03]
type DateRange struct {
	Start Date
	End   Date
}

// RangeOfDays returns the range covering n days starting at start.
func RangeOfDays(start Date, n int) DateRange {
	return DateRange{Start: start, End: start.AddDays(n - 1)}
}

// Valid reports whether both bounds are set and Start <= End.
func (r DateRange) Valid() bool {
	return !r.Start.IsZero() && !r.End.IsZero() && r.Start.BeforeOrEqual(r.End)
}

// Contains returns true if d is within [Start, End].
func (r DateRange) Contains(d Date) bool {
	return d.AfterOrEqual(r.Start) && d.BeforeOrEqual(r.End)
}

// Overlaps reports whether the two ranges share at least one day.
func (r DateRange) Overlaps(o DateRange) bool {
	return r.Start.BeforeOrEqual(o.End) && r.End.AfterOrEqual(o.Start)
}

// Covers reports whether r fully contains o.
func (r DateRange) Covers(o DateRange) bool {
	return r.Start.BeforeOrEqual(o.Start) && r.End.AfterOrEqual(o.End)
}

// Len returns the number of days in the range.
func (r DateRange) Len() int {
	if !r.Valid() {
		return 0
	}
	return r.Start.DaysUntil(r.End) + 1
}

func (r DateRange) String() string {
	return fmt.Sprintf("[%s, %s]", r.Start, r.End)
}

// =============================================================================
// RECURRING WINDOW - DD/MM window repeating every year
// =============================================================================

// MonthDay is a recurring calendar day without a year (e.g. 01/12).
type MonthDay struct {
	Month int
	Day   int
}

// monthDayLayout parses against year 0, a leap year, so 29/02 is accepted.
const monthDayLayout = "02/01"

// ParseMonthDay parses a strict two-digit "DD/MM" that names a real day.
func ParseMonthDay(s string) (MonthDay, error) {
	t, err := time.Parse(monthDayLayout, s)
	if err != nil {
		return MonthDay{}, fmt.Errorf("%w: DD/MM value %q: %v", ErrInvalidInput, s, err)
	}
	return MonthDay{Month: int(t.Month()), Day: t.Day()}, nil
}

func (md MonthDay) value() int { return md.Month*100 + md.Day }

func (md MonthDay) String() string { return fmt.Sprintf("%02d/%02d", md.Day, md.Month) }

// RecurringWindow is a yearly [Start, End] window. When End precedes Start
// the window wraps across New Year.
type RecurringWindow struct {
	Start MonthDay
	End   MonthDay
}

// Contains reports whether d's month/day falls inside the window.
func (w RecurringWindow) Contains(d Date) bool {
	v := d.MonthDay()
	start, end := w.Start.value(), w.End.value()
	if end < start {
		return v >= start || v <= end
	}
	return v >= start && v <= end
}

func (w RecurringWindow) String() string {
	return w.Start.String() + " a " + w.End.String()
}
