package biorhythm

import (
	"fmt"
	"strings"
	"time"
)

// LayoutISO is the textual form accepted by ParseDate and produced by Date.String.
const LayoutISO = "2006-01-02"

// LayoutMonth is the year-month selection form accepted by ParseMonth.
const LayoutMonth = "2006-01"

// epochShift moves the civil day count so that 1970-01-01 is ordinal 0.
const epochShift = 719468

// Date is a calendar date with no time-of-day and no location.
// The zero value represents a missing date.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate builds a Date and rejects impossible calendar days (e.g. 2023-02-29).
func NewDate(year int, month time.Month, day int) (Date, error) {
	d := Date{Year: year, Month: month, Day: day}
	if !d.Valid() {
		return Date{}, fmt.Errorf("%w: %04d-%02d-%02d is not a calendar date", ErrInvalidInput, year, int(month), day)
	}
	return d, nil
}

// ParseDate reads an ISO "YYYY-MM-DD" date.
func ParseDate(value string) (Date, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Date{}, fmt.Errorf("%w: date is empty", ErrInvalidInput)
	}
	t, err := time.Parse(LayoutISO, value)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q: %v", ErrInvalidInput, value, err)
	}
	return DateOf(t), nil
}

// DateOf returns the calendar date of t as seen in t's own location.
// Callers that hold timestamps should convert to the intended zone first.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// FromOrdinal is the inverse of Date.Ordinal.
func FromOrdinal(n int) Date {
	// Civil-from-days over 400-year eras of 146097 days; months counted from March.
	z := n + epochShift
	era := floorDiv(z, 146097)
	doe := z - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153

	day := doy - (153*mp+2)/5 + 1
	month := mp + 3
	if mp >= 10 {
		month = mp - 9
	}
	year := yoe + era*400
	if month <= 2 {
		year++
	}
	return Date{Year: year, Month: time.Month(month), Day: day}
}

// Ordinal returns the proleptic-Gregorian day number of d, with 1970-01-01 as 0.
// Subtracting ordinals gives an exact whole-day difference.
func (d Date) Ordinal() int {
	y := d.Year
	m := int(d.Month)
	if m <= 2 {
		y--
	}
	era := floorDiv(y, 400)
	yoe := y - era*400
	mp := (m + 9) % 12
	doy := (153*mp+2)/5 + d.Day - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - epochShift
}

// AddDays returns the date n days after d (before, when n is negative).
func (d Date) AddDays(n int) Date {
	return FromOrdinal(d.Ordinal() + n)
}

// DaysBetween returns the signed number of whole days from a to b.
func DaysBetween(a, b Date) int {
	return b.Ordinal() - a.Ordinal()
}

// Valid reports whether d names an existing calendar day.
func (d Date) Valid() bool {
	if d.Month < time.January || d.Month > time.December {
		return false
	}
	return d.Day >= 1 && d.Day <= DaysInMonth(d.Year, d.Month)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) Before(o Date) bool { return d.Ordinal() < o.Ordinal() }
func (d Date) After(o Date) bool  { return d.Ordinal() > o.Ordinal() }
func (d Date) Equal(o Date) bool  { return d == o }

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Format renders d with a time layout.
func (d Date) Format(layout string) string {
	return d.Time().Format(layout)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// IsLeapYear applies the Gregorian rule to year y.
func IsLeapYear(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}

// DaysInMonth returns the length of month m in year y, or 0 for an invalid month.
func DaysInMonth(y int, m time.Month) int {
	switch m {
	case time.January, time.March, time.May, time.July, time.August, time.October, time.December:
		return 31
	case time.April, time.June, time.September, time.November:
		return 30
	case time.February:
		if IsLeapYear(y) {
			return 29
		}
		return 28
	default:
		return 0
	}
}

// MonthRange returns the first and last day of month m in year y.
func MonthRange(y int, m time.Month) (start, end Date, err error) {
	if m < time.January || m > time.December {
		return Date{}, Date{}, fmt.Errorf("%w: month %d out of range", ErrInvalidInput, int(m))
	}
	return Date{Year: y, Month: m, Day: 1}, Date{Year: y, Month: m, Day: DaysInMonth(y, m)}, nil
}

// ParseMonth reads a "YYYY-MM" selection and returns its first and last day.
func ParseMonth(value string) (start, end Date, err error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Date{}, Date{}, fmt.Errorf("%w: month is empty", ErrInvalidInput)
	}
	t, err := time.Parse(LayoutMonth, value)
	if err != nil {
		return Date{}, Date{}, fmt.Errorf("%w: %q: %v", ErrInvalidInput, value, err)
	}
	return MonthRange(t.Year(), t.Month())
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
