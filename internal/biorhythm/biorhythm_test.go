package biorhythm_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-biorhythm/internal/biorhythm"
)

const tolerance = 1e-9

// -----------------------------------------------------------------------------
// Concrete Scenarios
// -----------------------------------------------------------------------------

func TestGenerate_BirthDayIsZero(t *testing.T) {
	birth := mustDate(t, "2000-01-01")

	series, err := biorhythm.Generate(birth, birth, birth)
	require.NoError(t, err)
	require.Len(t, series, 1)

	p := series[0]
	assert.Equal(t, birth, p.Date)
	assert.InDelta(t, 0, p.Physical, tolerance)
	assert.InDelta(t, 0, p.Emotional, tolerance)
	assert.InDelta(t, 0, p.Intellectual, tolerance)
}

func TestGenerate_TwentyThreeDaysAfterBirth(t *testing.T) {
	birth := mustDate(t, "2000-01-01")
	day := mustDate(t, "2000-01-24")

	series, err := biorhythm.Generate(birth, day, day)
	require.NoError(t, err)
	require.Len(t, series, 1)

	p := series[0]
	assert.InDelta(t, 0, p.Physical, tolerance, "a full physical period has elapsed")
	assert.InDelta(t, math.Sin(2*math.Pi*23/28), p.Emotional, tolerance)
	assert.InDelta(t, math.Sin(2*math.Pi*23/33), p.Intellectual, tolerance)

	// Sanity check on the magnitudes.
	assert.InDelta(t, -0.9010, p.Emotional, 1e-4)
	assert.InDelta(t, -0.9450, p.Intellectual, 1e-4)
}

// -----------------------------------------------------------------------------
// Range Edge Cases
// -----------------------------------------------------------------------------

func TestGenerate_InvertedRangeIsEmpty(t *testing.T) {
	series, err := biorhythm.Generate(
		mustDate(t, "1990-05-05"),
		mustDate(t, "2024-02-10"),
		mustDate(t, "2024-02-01"),
	)
	require.NoError(t, err)
	assert.NotNil(t, series)
	assert.Empty(t, series)
}

func TestGenerate_SpanLimit(t *testing.T) {
	birth := mustDate(t, "2000-01-01")
	start := mustDate(t, "1900-01-01")

	series, err := biorhythm.Generate(birth, start, start.AddDays(biorhythm.MaxSpanDays-1))
	require.NoError(t, err)
	assert.Len(t, series, biorhythm.MaxSpanDays)

	series, err = biorhythm.Generate(birth, start, start.AddDays(biorhythm.MaxSpanDays))
	assert.ErrorIs(t, err, biorhythm.ErrInvalidInput)
	assert.Nil(t, series)

	// Hand-built dates far outside ParseDate's years.
	far := biorhythm.Date{Year: 2_000_000_000, Month: time.January, Day: 1}
	series, err = biorhythm.Generate(birth, start, far)
	assert.ErrorIs(t, err, biorhythm.ErrInvalidInput)
	assert.Nil(t, series)
}

func TestGenerate_SingleDayMatchesAt(t *testing.T) {
	birth := mustDate(t, "1985-11-30")
	day := mustDate(t, "2024-07-04")

	series, err := biorhythm.Generate(birth, day, day)
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, biorhythm.At(birth, day), series[0])
}

func TestGenerate_InvalidInput(t *testing.T) {
	valid := mustDate(t, "2024-01-01")
	impossible := biorhythm.Date{Year: 2023, Month: 2, Day: 30}

	tests := []struct {
		name              string
		birth, start, end biorhythm.Date
	}{
		{"Missing birth", biorhythm.Date{}, valid, valid},
		{"Impossible birth", impossible, valid, valid},
		{"Missing start", valid, biorhythm.Date{}, valid},
		{"Missing end", valid, valid, biorhythm.Date{}},
		{"Impossible end", valid, valid, impossible},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series, err := biorhythm.Generate(tt.birth, tt.start, tt.end)
			assert.ErrorIs(t, err, biorhythm.ErrInvalidInput)
			assert.Nil(t, series, "no partial series on invalid input")
		})
	}
}

// -----------------------------------------------------------------------------
// Properties
// -----------------------------------------------------------------------------

func TestGenerate_LengthAndOrder(t *testing.T) {
	birth := mustDate(t, "1972-02-29")

	ranges := [][2]string{
		{"2024-02-01", "2024-02-29"},
		{"2023-02-01", "2023-02-28"},
		{"1999-12-15", "2000-03-15"},
		{"1960-01-01", "1960-12-31"}, // before birth
	}

	for _, r := range ranges {
		start, end := mustDate(t, r[0]), mustDate(t, r[1])
		series, err := biorhythm.Generate(birth, start, end)
		require.NoError(t, err)
		require.Len(t, series, biorhythm.DaysBetween(start, end)+1)

		assert.Equal(t, start, series[0].Date)
		assert.Equal(t, end, series[len(series)-1].Date)
		for i := 1; i < len(series); i++ {
			assert.Equal(t, 1, biorhythm.DaysBetween(series[i-1].Date, series[i].Date))
		}
	}
}

func TestGenerate_ValuesBounded(t *testing.T) {
	series, err := biorhythm.Generate(
		mustDate(t, "1950-06-15"),
		mustDate(t, "1940-01-01"),
		mustDate(t, "2060-12-31"),
	)
	require.NoError(t, err)

	for _, p := range series {
		for _, c := range biorhythm.Cycles {
			v := p.Value(c)
			if v < -1 || v > 1 {
				t.Fatalf("%s %s value %f outside [-1, 1]", p.Date, c, v)
			}
		}
	}
}

func TestAt_Periodicity(t *testing.T) {
	birth := mustDate(t, "1988-08-08")

	for _, day := range []string{"1970-03-03", "1988-08-08", "2024-02-29", "2031-10-17"} {
		d := mustDate(t, day)
		p := biorhythm.At(birth, d)

		assert.InDelta(t, p.Physical, biorhythm.At(birth, d.AddDays(biorhythm.PhysicalPeriod)).Physical, tolerance)
		assert.InDelta(t, p.Emotional, biorhythm.At(birth, d.AddDays(biorhythm.EmotionalPeriod)).Emotional, tolerance)
		assert.InDelta(t, p.Intellectual, biorhythm.At(birth, d.AddDays(biorhythm.IntellectualPeriod)).Intellectual, tolerance)
	}
}

func TestAt_IgnoresTimeZoneOfSource(t *testing.T) {
	// Two timestamps of the same instant, seen as different calendar days.
	birth := mustDate(t, "2000-01-01")
	a := biorhythm.At(birth, mustDate(t, "2000-01-08"))
	b := biorhythm.At(birth, mustDate(t, "2000-01-09"))

	assert.NotEqual(t, a.Physical, b.Physical)
	assert.InDelta(t, math.Sin(2*math.Pi*7/23), a.Physical, tolerance)
}

// -----------------------------------------------------------------------------
// Chart Accessors
// -----------------------------------------------------------------------------

func TestSeries_ChartArrays(t *testing.T) {
	birth := mustDate(t, "2000-01-01")
	series, err := biorhythm.Generate(birth, mustDate(t, "2000-01-30"), mustDate(t, "2000-02-02"))
	require.NoError(t, err)

	labels := series.Labels("")
	assert.Equal(t, []string{"Jan 30", "Jan 31", "Feb 01", "Feb 02"}, labels)
	assert.Equal(t, []string{"2000-01-30", "2000-01-31", "2000-02-01", "2000-02-02"}, series.Labels(biorhythm.LayoutISO))

	phys, emo, intel := series.Physical(), series.Emotional(), series.Intellectual()
	require.Len(t, phys, len(series))
	require.Len(t, emo, len(series))
	require.Len(t, intel, len(series))
	for i, p := range series {
		assert.Equal(t, p.Physical, phys[i])
		assert.Equal(t, p.Emotional, emo[i])
		assert.Equal(t, p.Intellectual, intel[i])
	}
}

func TestSeries_Index(t *testing.T) {
	series, err := biorhythm.Generate(mustDate(t, "2000-01-01"), mustDate(t, "2024-02-01"), mustDate(t, "2024-02-29"))
	require.NoError(t, err)

	assert.Equal(t, 0, series.Index(mustDate(t, "2024-02-01")))
	assert.Equal(t, 28, series.Index(mustDate(t, "2024-02-29")))
	assert.Equal(t, -1, series.Index(mustDate(t, "2024-03-01")))
	assert.Equal(t, -1, biorhythm.Series{}.Index(mustDate(t, "2024-03-01")))
}

// -----------------------------------------------------------------------------
// Critical Days
// -----------------------------------------------------------------------------

func TestCriticalDays_AtBirthAllCyclesCross(t *testing.T) {
	birth := mustDate(t, "2000-01-01")
	series, err := biorhythm.Generate(birth, birth, birth)
	require.NoError(t, err)

	crit := series.CriticalDays()
	require.Len(t, crit, 3)
	for i, c := range biorhythm.Cycles {
		assert.Equal(t, birth, crit[i].Date)
		assert.Equal(t, c, crit[i].Cycle)
	}
}

func TestCriticalDays_OncePerHalfPeriod(t *testing.T) {
	birth := mustDate(t, "2000-01-01")
	// Day 1 through day 56: two full emotional periods, birth excluded.
	series, err := biorhythm.Generate(birth, birth.AddDays(1), birth.AddDays(56))
	require.NoError(t, err)

	counts := map[biorhythm.Cycle]int{}
	var emotional []int
	for _, c := range series.CriticalDays() {
		counts[c.Cycle]++
		if c.Cycle == biorhythm.Emotional {
			emotional = append(emotional, biorhythm.DaysBetween(birth, c.Date))
		}
	}

	// Emotional zeros fall exactly on multiples of 14 days.
	assert.Equal(t, []int{14, 28, 42, 56}, emotional)
	// Physical crosses between days 11/12, 23, 34/35 and 46.
	assert.Equal(t, 4, counts[biorhythm.Physical])
	// Intellectual crosses between days 16/17 and 33, and 49/50.
	assert.Equal(t, 3, counts[biorhythm.Intellectual])
}

func TestCycle_Period(t *testing.T) {
	assert.Equal(t, 23, biorhythm.Physical.Period())
	assert.Equal(t, 28, biorhythm.Emotional.Period())
	assert.Equal(t, 33, biorhythm.Intellectual.Period())
	assert.Equal(t, "emotional", biorhythm.Emotional.String())
}
