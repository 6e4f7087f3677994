package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/tartampluch/go-biorhythm/internal/biorhythm"
	"github.com/tartampluch/go-biorhythm/internal/config"
	"github.com/tartampluch/go-biorhythm/internal/engine"
)

// Curve colors, in biorhythm.Cycles order.
var cycleColors = []text.Color{text.FgRed, text.FgGreen, text.FgBlue}

// runPrint computes one chart and writes it to w as a table.
func runPrint(ctx context.Context, opts options, w io.Writer) error {
	gen := &engine.Generator{Clock: engine.RealClock{}, Fetcher: engine.NewHTTPFetcher()}
	chart, err := gen.Run(ctx, opts.chartConfig())
	if err != nil {
		return err
	}
	_, noColor := os.LookupEnv(config.EnvNoColor)
	renderTable(w, chart, !noColor)
	return nil
}

// renderTable prints one row per day: the three values and the cycles
// crossing zero that day. Today's row is marked.
func renderTable(w io.Writer, chart *engine.Chart, color bool) {
	critical := make(map[biorhythm.Date][]string)
	for _, cd := range chart.Critical {
		critical[cd.Date] = append(critical[cd.Date], cd.Cycle.String())
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.SetTitle(fmt.Sprintf(config.FormatTableTitle,
		chart.Subject.Name,
		chart.Subject.BirthDate,
		chart.Start.Format(biorhythm.LayoutMonth)))

	t.AppendHeader(table.Row{
		config.TableHeaderDate,
		config.LabelPhysical,
		config.LabelEmotional,
		config.LabelIntellectual,
		config.TableHeaderCritical,
	})

	for i, p := range chart.Series {
		date := p.Date.String()
		if i == chart.Today {
			date += config.TableTodayMark
		}
		row := table.Row{date}
		for _, c := range biorhythm.Cycles {
			row = append(row, fmt.Sprintf(config.ValueFormat, p.Value(c)))
		}
		t.AppendRow(append(row, strings.Join(critical[p.Date], ", ")))
	}

	t.AppendFooter(table.Row{"", "", "", "", fmt.Sprintf(config.FormatTableFooter, len(chart.Critical))})

	// Value columns follow the date column.
	columns := make([]table.ColumnConfig, 0, len(biorhythm.Cycles))
	for i := range biorhythm.Cycles {
		cc := table.ColumnConfig{Number: i + 2, Align: text.AlignRight}
		if color {
			cc.Colors = text.Colors{cycleColors[i]}
			cc.ColorsHeader = text.Colors{cycleColors[i], text.Bold}
		}
		columns = append(columns, cc)
	}
	t.SetColumnConfigs(columns)
	t.Render()
}
