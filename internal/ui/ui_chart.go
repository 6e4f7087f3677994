package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-biorhythm/internal/biorhythm"
	"github.com/tartampluch/go-biorhythm/internal/config"
	"github.com/tartampluch/go-biorhythm/internal/engine"
)

// chartView holds the widgets of the chart window.
type chartView struct {
	app    *BiorhythmApp
	window fyne.Window

	birthEntry *widget.Entry
	monthEntry *widget.Entry
	chart      *ChartWidget
	status     *widget.Label
	subject    *widget.Label

	// shown is the birth date of the last subject applied to the entry.
	shown biorhythm.Date
}

// ShowChartWindow opens the chart window, or focuses it when already open.
func (app *BiorhythmApp) ShowChartWindow() {
	if app.chartView != nil {
		app.chartView.window.RequestFocus()
		return
	}

	slog.Info(config.MsgChartOpen, config.LogKeyComponent, config.CompUIChart)

	w := app.App.NewWindow(app.GetMsg(config.TKeyWinChart))
	v := app.newChartView(w)
	app.chartView = v

	w.SetContent(v.layout())
	w.Resize(fyne.NewSize(config.ChartWindowWidth, config.ChartWindowHeight))
	w.SetOnClosed(func() { app.chartView = nil })

	v.recompute()
	if last := app.Refresher.Last(); last != nil {
		v.showSubject(last.Subject)
	}
	w.Show()
}

func (app *BiorhythmApp) newChartView(w fyne.Window) *chartView {
	v := &chartView{
		app:     app,
		window:  w,
		chart:   NewChartWidget(),
		status:  widget.NewLabel(""),
		subject: widget.NewLabel(""),
	}
	v.subject.TextStyle = fyne.TextStyle{Italic: true}

	v.birthEntry = widget.NewEntry()
	v.birthEntry.SetPlaceHolder(config.PlaceholderDate)
	// Address book modes wait for a resolved subject.
	if app.sourceMode() == config.SourceModeManual {
		v.birthEntry.SetText(app.Preferences.String(config.PrefBirthDate))
	}
	v.birthEntry.Validator = func(s string) error {
		if _, err := biorhythm.ParseDate(s); err != nil {
			return errors.New(app.GetMsg(config.TKeyErrDate))
		}
		return nil
	}

	month := app.Preferences.String(config.PrefMonth)
	if month == "" {
		month = app.currentMonth()
	}
	v.monthEntry = widget.NewEntry()
	v.monthEntry.SetPlaceHolder(config.PlaceholderMonth)
	v.monthEntry.SetText(month)
	v.monthEntry.Validator = func(s string) error {
		if _, _, err := biorhythm.ParseMonth(s); err != nil {
			return errors.New(app.GetMsg(config.TKeyErrMonth))
		}
		return nil
	}

	// Hooked after the initial SetText so that opening the window persists nothing.
	v.birthEntry.OnChanged = func(string) { v.recompute() }
	v.monthEntry.OnChanged = func(string) { v.recompute() }

	v.syncMode()
	return v
}

func (v *chartView) layout() fyne.CanvasObject {
	app := v.app

	prev := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnPrevMonth), theme.NavigateBackIcon(), func() { v.shift(-1) })
	next := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnNextMonth), theme.NavigateNextIcon(), func() { v.shift(1) })
	today := widget.NewButton(app.GetMsg(config.TKeyBtnToday), func() {
		v.monthEntry.SetText(app.currentMonth())
	})
	prev.Importance = widget.LowImportance
	next.Importance = widget.LowImportance

	monthRow := container.NewBorder(nil, nil, prev, container.NewHBox(next, today), v.monthEntry)

	form := widget.NewForm(
		widget.NewFormItem(app.GetMsg(config.TKeyLblBirthDate), v.birthEntry),
		widget.NewFormItem(app.GetMsg(config.TKeyLblMonth), monthRow),
	)

	legend := container.NewHBox()
	for i, c := range biorhythm.Cycles {
		text := canvas.NewText(app.cycleName(c), cycleColors[i])
		text.TextStyle = fyne.TextStyle{Bold: true}
		legend.Add(text)
	}

	bottom := container.NewVBox(
		container.NewCenter(legend),
		v.status,
		v.subject,
	)

	return container.NewPadded(container.NewBorder(form, bottom, nil, nil, v.chart))
}

// recompute redraws the chart from the entries and persists valid input.
func (v *chartView) recompute() {
	app := v.app
	log := slog.With(config.LogKeyComponent, config.CompUIChart)

	if app.sourceMode() != config.SourceModeManual && v.shown.IsZero() {
		v.chart.SetSeries(nil, -1)
		v.status.SetText(app.GetMsg(config.TKeyStatusWaiting))
		return
	}

	birth, err := biorhythm.ParseDate(v.birthEntry.Text)
	if err != nil {
		log.Debug(config.MsgInputRejected, config.LogKeyValue, v.birthEntry.Text, config.LogKeyError, err)
		v.chart.SetSeries(nil, -1)
		v.status.SetText(app.GetMsg(config.TKeyStatusInvalid))
		return
	}

	start, end, err := biorhythm.ParseMonth(v.monthEntry.Text)
	if err != nil {
		log.Debug(config.MsgInputRejected, config.LogKeyValue, v.monthEntry.Text, config.LogKeyError, err)
		v.chart.SetSeries(nil, -1)
		v.status.SetText(app.GetMsg(config.TKeyErrMonth))
		return
	}

	series, err := biorhythm.Generate(birth, start, end)
	if err != nil {
		log.Warn(config.ErrSeries, config.LogKeyError, err)
		v.chart.SetSeries(nil, -1)
		v.status.SetText(app.GetMsg(config.TKeyStatusInvalid))
		return
	}

	idx := series.Index(engine.Today(app.Clock))
	v.chart.SetSeries(series, idx)
	v.status.SetText(v.statusText(series, idx))

	if app.sourceMode() == config.SourceModeManual {
		setIfChanged(app.Preferences, config.PrefBirthDate, birth.String())
	}
	month := start.Format(biorhythm.LayoutMonth)
	if month == app.currentMonth() {
		month = ""
	}
	setIfChanged(app.Preferences, config.PrefMonth, month)
}

func (v *chartView) statusText(series biorhythm.Series, today int) string {
	if len(series) == 0 {
		return v.app.GetMsg(config.TKeyStatusEmpty)
	}
	if today < 0 {
		return v.app.GetMsg(config.TKeyStatusOutside)
	}

	p := series[today]
	phys := fmt.Sprintf(config.ValueFormat, p.Physical)
	emo := fmt.Sprintf(config.ValueFormat, p.Emotional)
	intel := fmt.Sprintf(config.ValueFormat, p.Intellectual)
	msg := v.app.localize(config.TKeyStatusToday, map[string]interface{}{
		"Physical":     phys,
		"Emotional":    emo,
		"Intellectual": intel,
	})
	if msg == "" {
		msg = fmt.Sprintf(config.FallbackTrayStatus, phys, emo, intel)
	}
	return msg
}

// shift moves the month selection by delta months.
func (v *chartView) shift(delta int) {
	month, err := shiftMonth(v.monthEntry.Text, delta)
	if err != nil {
		month = v.app.currentMonth()
	}
	v.monthEntry.SetText(month)
}

// syncMode locks the birth date entry when the date comes from an address book.
func (v *chartView) syncMode() {
	if v.app.sourceMode() == config.SourceModeManual {
		v.birthEntry.Enable()
	} else {
		v.birthEntry.Disable()
	}
}

// showSubject displays whose chart this is and charts their birth date.
// The entry is only rewritten when the subject's date changes, so a refresh
// of the same subject leaves typing in progress alone.
func (v *chartView) showSubject(s engine.Subject) {
	v.syncMode()
	v.subject.SetText(v.app.localize(config.TKeyStatusSubject, map[string]interface{}{"Name": s.Name}))
	if s.BirthDate == v.shown {
		return
	}
	v.shown = s.BirthDate
	if v.birthEntry.Text != s.BirthDate.String() {
		v.birthEntry.SetText(s.BirthDate.String())
	} else {
		v.recompute()
	}
}

// showFailure blanks the chart after a failed refresh.
func (v *chartView) showFailure() {
	v.syncMode()
	v.shown = biorhythm.Date{}
	v.subject.SetText("")
	if v.app.sourceMode() != config.SourceModeManual {
		v.birthEntry.SetText("")
	}
	v.chart.SetSeries(nil, -1)
	v.status.SetText(v.app.GetMsg(config.TKeyStatusFailed))
}

func (app *BiorhythmApp) sourceMode() string {
	return app.Preferences.StringWithFallback(config.PrefSourceMode, config.SourceModeManual)
}

func (app *BiorhythmApp) currentMonth() string {
	return engine.Today(app.Clock).Format(biorhythm.LayoutMonth)
}

// shiftMonth returns the YYYY-MM month delta months away from month.
func shiftMonth(month string, delta int) (string, error) {
	start, _, err := biorhythm.ParseMonth(month)
	if err != nil {
		return "", err
	}
	t := time.Date(start.Year, start.Month+time.Month(delta), 1, 0, 0, 0, 0, time.UTC)
	return t.Format(biorhythm.LayoutMonth), nil
}

// setIfChanged avoids waking preference listeners for no-op writes.
func setIfChanged(p fyne.Preferences, key, value string) {
	if p.String(key) != value {
		p.SetString(key, value)
	}
}
