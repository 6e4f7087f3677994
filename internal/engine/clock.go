package engine

import (
	"time"

	"github.com/tartampluch/go-biorhythm/internal/biorhythm"
)

// Clock abstracts time.Now() so "today" and the default month are deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// Today returns the local calendar date of c.
// Biorhythms follow the user's wall calendar, not the UTC day.
func Today(c Clock) biorhythm.Date {
	if c == nil {
		c = RealClock{}
	}
	return biorhythm.DateOf(c.Now())
}
