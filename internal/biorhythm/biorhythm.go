// Package biorhythm computes the classical physical, emotional and intellectual
// cycles for a birth date over a range of calendar days.
//
// Everything here is pure: no I/O, no clock reads, no shared state.
package biorhythm

import (
	"errors"
	"fmt"
	"math"
)

// Cycle periods in days.
const (
	PhysicalPeriod     = 23
	EmotionalPeriod    = 28
	IntellectualPeriod = 33
)

// DefaultLabelLayout renders point dates as "Jan 02".
const DefaultLabelLayout = "Jan 02"

// MaxSpanDays bounds the length of a generated series, about three centuries.
const MaxSpanDays = 300 * 366

// zeroTolerance absorbs the rounding of sin at whole multiples of π.
const zeroTolerance = 1e-9

// ErrInvalidInput is wrapped by every validation failure of this package.
var ErrInvalidInput = errors.New("invalid input")

// Cycle names one of the three biorhythm curves.
type Cycle int

const (
	Physical Cycle = iota
	Emotional
	Intellectual
)

// Cycles lists the curves in chart order.
var Cycles = []Cycle{Physical, Emotional, Intellectual}

// Period returns the cycle length in days.
func (c Cycle) Period() int {
	switch c {
	case Physical:
		return PhysicalPeriod
	case Emotional:
		return EmotionalPeriod
	case Intellectual:
		return IntellectualPeriod
	default:
		return 0
	}
}

func (c Cycle) String() string {
	switch c {
	case Physical:
		return "physical"
	case Emotional:
		return "emotional"
	case Intellectual:
		return "intellectual"
	default:
		return fmt.Sprintf("cycle(%d)", int(c))
	}
}

// Point holds the three cycle values of a single day.
type Point struct {
	Date         Date
	Physical     float64
	Emotional    float64
	Intellectual float64
}

// Value returns the value of cycle c at p.
func (p Point) Value(c Cycle) float64 {
	switch c {
	case Physical:
		return p.Physical
	case Emotional:
		return p.Emotional
	case Intellectual:
		return p.Intellectual
	default:
		return 0
	}
}

// Series is an ascending run of consecutive days.
type Series []Point

// At computes the point for day d relative to birth.
func At(birth, d Date) Point {
	days := DaysBetween(birth, d)
	return Point{
		Date:         d,
		Physical:     wave(days, PhysicalPeriod),
		Emotional:    wave(days, EmotionalPeriod),
		Intellectual: wave(days, IntellectualPeriod),
	}
}

// Generate returns one point per day from start to end inclusive.
// An inverted range yields an empty series and no error; a range longer
// than MaxSpanDays is rejected.
func Generate(birth, start, end Date) (Series, error) {
	if err := validate("birth date", birth); err != nil {
		return nil, err
	}
	if err := validate("start date", start); err != nil {
		return nil, err
	}
	if err := validate("end date", end); err != nil {
		return nil, err
	}

	span := DaysBetween(start, end)
	if span < 0 {
		return Series{}, nil
	}
	if span >= MaxSpanDays {
		return nil, fmt.Errorf("%w: range of %d days exceeds %d", ErrInvalidInput, span+1, MaxSpanDays)
	}

	series := make(Series, 0, span+1)
	origin := DaysBetween(birth, start)
	first := start.Ordinal()
	for i := 0; i <= span; i++ {
		days := origin + i
		series = append(series, Point{
			Date:         FromOrdinal(first + i),
			Physical:     wave(days, PhysicalPeriod),
			Emotional:    wave(days, EmotionalPeriod),
			Intellectual: wave(days, IntellectualPeriod),
		})
	}
	return series, nil
}

// Labels formats every point date with layout, index-aligned with the values.
func (s Series) Labels(layout string) []string {
	if layout == "" {
		layout = DefaultLabelLayout
	}
	out := make([]string, len(s))
	for i, p := range s {
		out[i] = p.Date.Format(layout)
	}
	return out
}

func (s Series) Physical() []float64     { return s.values(Physical) }
func (s Series) Emotional() []float64    { return s.values(Emotional) }
func (s Series) Intellectual() []float64 { return s.values(Intellectual) }

func (s Series) values(c Cycle) []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value(c)
	}
	return out
}

// Index returns the position of d in s, or -1.
func (s Series) Index(d Date) int {
	if len(s) == 0 {
		return -1
	}
	i := DaysBetween(s[0].Date, d)
	if i < 0 || i >= len(s) {
		return -1
	}
	return i
}

// Critical marks a day on which a cycle crosses the zero line.
type Critical struct {
	Date  Date
	Cycle Cycle
}

// CriticalDays reports, in date order, each day where a cycle is zero or
// changes sign before the following day of the series.
func (s Series) CriticalDays() []Critical {
	var out []Critical
	for i, p := range s {
		for _, c := range Cycles {
			v := p.Value(c)
			if math.Abs(v) < zeroTolerance {
				out = append(out, Critical{Date: p.Date, Cycle: c})
				continue
			}
			if i+1 == len(s) {
				continue
			}
			next := s[i+1].Value(c)
			// A next-day zero is reported on its own day.
			if math.Abs(next) >= zeroTolerance && math.Signbit(v) != math.Signbit(next) {
				out = append(out, Critical{Date: p.Date, Cycle: c})
			}
		}
	}
	return out
}

func wave(days, period int) float64 {
	return math.Sin(2 * math.Pi * float64(days) / float64(period))
}

func validate(field string, d Date) error {
	if d.IsZero() {
		return fmt.Errorf("%w: %s is missing", ErrInvalidInput, field)
	}
	if !d.Valid() {
		return fmt.Errorf("%w: %s %s is not a calendar date", ErrInvalidInput, field, d)
	}
	return nil
}
