package engine

import (
	"time"

	"github.com/tartampluch/go-biorhythm/internal/biorhythm"
	"github.com/tartampluch/go-biorhythm/internal/config"
)

// Chart is one computed month of biorhythm data plus its renderings.
type Chart struct {
	Subject   Subject
	Start     biorhythm.Date
	End       biorhythm.Date
	Series    biorhythm.Series
	Critical  []biorhythm.Critical
	Today     int // index of today in Series, -1 when outside the range
	ICS       []byte
	Generated time.Time
}

// TodayPoint returns the point of today, if charted.
func (c *Chart) TodayPoint() (biorhythm.Point, bool) {
	if c == nil || c.Today < 0 || c.Today >= len(c.Series) {
		return biorhythm.Point{}, false
	}
	return c.Series[c.Today], true
}

// ChartDocument is the JSON form consumed by browser-side charting libraries:
// labels and datasets are aligned by index.
type ChartDocument struct {
	Subject   string        `json:"subject"`
	BirthDate string        `json:"birthDate"`
	Start     string        `json:"start"`
	End       string        `json:"end"`
	Today     int           `json:"today"`
	Labels    []string      `json:"labels"`
	Dates     []string      `json:"dates"`
	Datasets  []Dataset     `json:"datasets"`
	Critical  []CriticalDay `json:"critical"`
	Generated time.Time     `json:"generated"`
}

// Dataset is one curve of the chart.
type Dataset struct {
	Label       string    `json:"label"`
	Period      int       `json:"period"`
	BorderColor string    `json:"borderColor"`
	Data        []float64 `json:"data"`
}

// CriticalDay is the JSON form of biorhythm.Critical.
type CriticalDay struct {
	Date  string `json:"date"`
	Cycle string `json:"cycle"`
}

// Document builds the JSON form of c.
func (c *Chart) Document() ChartDocument {
	critical := make([]CriticalDay, 0, len(c.Critical))
	for _, cd := range c.Critical {
		critical = append(critical, CriticalDay{Date: cd.Date.String(), Cycle: cd.Cycle.String()})
	}

	return ChartDocument{
		Subject:   c.Subject.Name,
		BirthDate: c.Subject.BirthDate.String(),
		Start:     c.Start.String(),
		End:       c.End.String(),
		Today:     c.Today,
		Labels:    c.Series.Labels(biorhythm.DefaultLabelLayout),
		Dates:     c.Series.Labels(biorhythm.LayoutISO),
		Datasets: []Dataset{
			{Label: config.LabelPhysical, Period: biorhythm.PhysicalPeriod, BorderColor: config.ColorPhysical, Data: c.Series.Physical()},
			{Label: config.LabelEmotional, Period: biorhythm.EmotionalPeriod, BorderColor: config.ColorEmotional, Data: c.Series.Emotional()},
			{Label: config.LabelIntellectual, Period: biorhythm.IntellectualPeriod, BorderColor: config.ColorIntellectual, Data: c.Series.Intellectual()},
		},
		Critical:  critical,
		Generated: c.Generated.UTC(),
	}
}
