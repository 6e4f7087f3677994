package engine

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-biorhythm/internal/biorhythm"
	"github.com/tartampluch/go-biorhythm/internal/config"
)

// ChartConfig contains all parameters required to compute a chart.
type ChartConfig struct {
	Mode      string // config.SourceModeManual, SourceModeLocal or SourceModeWeb
	BirthDate string // YYYY-MM-DD, manual mode only
	LocalPath string // Absolute path to the .vcf file
	WebURL    string // CardDAV or WebDAV URL
	WebUser   string // HTTP Basic Auth Username
	WebPass   string // HTTP Basic Auth Password
	Contact   string // vCard contact to select; display name in manual mode
	Month     string // YYYY-MM; empty means the current month
}

// key identifies requests that compute the same chart. The password is left out.
func (c ChartConfig) key() string {
	return fmt.Sprintf("%s|%s|%s|%s|%s|%s|%s", c.Mode, c.BirthDate, c.LocalPath, c.WebURL, c.WebUser, c.Contact, c.Month)
}

// Generator turns a ChartConfig into a Chart.
type Generator struct {
	Clock   Clock
	Fetcher ContactFetcher

	// FormatEvent lets the UI inject localized event summaries.
	FormatEvent func(c biorhythm.Cycle) string
}

// Run resolves the subject and month, computes the series and encodes the
// critical-day calendar.
func (g *Generator) Run(ctx context.Context, cfg ChartConfig) (*Chart, error) {
	start := time.Now()
	clock := g.Clock
	if clock == nil {
		clock = RealClock{}
	}
	log := slog.With(
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyMode, cfg.Mode,
	)

	subject, err := g.resolveSubject(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	first, last, err := g.monthRange(clock, cfg.Month)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrMonth, err)
	}

	series, err := biorhythm.Generate(subject.BirthDate, first, last)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrSeries, err)
	}

	now := clock.Now()
	chart := &Chart{
		Subject:   subject,
		Start:     first,
		End:       last,
		Series:    series,
		Critical:  series.CriticalDays(),
		Today:     series.Index(biorhythm.DateOf(now)),
		Generated: now,
	}

	chart.ICS, err = g.encodeCalendar(chart)
	if err != nil {
		return nil, err
	}

	log.Info(config.MsgChartReady,
		config.LogKeyName, subject.Name,
		config.LogKeyMonth, first.Format(config.DateFormatMonth),
		config.LogKeyDays, len(series),
		config.LogKeyCritical, len(chart.Critical),
	)
	log.Debug(config.MsgChartReady, config.LogKeyDuration, time.Since(start).Milliseconds())
	return chart, nil
}

// monthRange derives the charted range from a YYYY-MM selection or, when
// empty, from the clock's current month.
func (g *Generator) monthRange(clock Clock, month string) (biorhythm.Date, biorhythm.Date, error) {
	if month != "" {
		return biorhythm.ParseMonth(month)
	}
	today := Today(clock)
	return biorhythm.MonthRange(today.Year, today.Month)
}

// encodeCalendar renders every critical day of the chart as an all-day event.
func (g *Generator) encodeCalendar(chart *Chart) ([]byte, error) {
	if len(chart.Critical) == 0 {
		return []byte(config.StubVCalendar), nil
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	dtStamp := ical.NewProp(config.PropDTStamp)
	dtStamp.SetDateTime(chart.Generated.UTC())

	for _, cd := range chart.Critical {
		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, criticalUID(chart.Subject, cd))
		event.Props.SetText(config.PropSummary, g.summary(cd.Cycle))
		event.Props.SetText(config.PropDescription, chart.Subject.Name)
		event.Props.SetText(config.PropCategories, config.ICalCategory)
		event.Props.SetText(config.PropTransp, config.ICalTranspTransparent)

		dtStart := ical.NewProp(config.PropDTStart)
		dtStart.SetDate(cd.Date.Time())
		event.Props.Set(dtStart)
		event.Props.Set(dtStamp)

		cal.Children = append(cal.Children, event.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}
	return buf.Bytes(), nil
}

func (g *Generator) summary(c biorhythm.Cycle) string {
	if g.FormatEvent != nil {
		if s := g.FormatEvent(c); s != "" {
			return s
		}
	}
	return fmt.Sprintf(config.FallbackEventCritical, c)
}

// criticalUID is stable across refreshes so calendar clients update events in place.
func criticalUID(s Subject, cd biorhythm.Critical) string {
	input := fmt.Sprintf(config.FormatHashInput, config.UIDSalt, s.Name, s.BirthDate, cd.Date, cd.Cycle)
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf(config.FormatUID, fmt.Sprintf("%x", hash[:config.UIDHashLength]), config.ICalDomain)
}
