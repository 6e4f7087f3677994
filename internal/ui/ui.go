package ui

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-biorhythm/internal/biorhythm"
	"github.com/tartampluch/go-biorhythm/internal/config"
	"github.com/tartampluch/go-biorhythm/internal/engine"
	"github.com/tartampluch/go-biorhythm/internal/server"
	"github.com/zalando/go-keyring"
)

//go:embed Icon.png
var appIconData []byte

// BiorhythmApp encapsulates the UI state, preferences, and background logic.
type BiorhythmApp struct {
	App            fyne.App
	SettingsWindow fyne.Window
	Preferences    fyne.Preferences
	I18nBundle     *i18n.Bundle
	Localizer      *i18n.Localizer
	Ctx            context.Context

	Server    *server.ChartServer
	Fetcher   engine.ContactFetcher
	Clock     engine.Clock // Injected clock for testability
	Refresher *engine.Refresher

	Tray desktop.App
	Menu *fyne.Menu

	TrayStatusItem   *fyne.MenuItem
	TrayOpenItem     *fyne.MenuItem
	TrayRefreshItem  *fyne.MenuItem
	TraySettingsItem *fyne.MenuItem

	SupportedLanguages []string
	configChan         chan string

	chartView *chartView

	// runOnUI schedules UI updates from worker goroutines. Defaults to fyne.Do.
	runOnUI func(func())
}

// appClock defers to the app's current Clock so tests can swap it after construction.
type appClock struct{ app *BiorhythmApp }

func (c appClock) Now() time.Time {
	if c.app.Clock == nil {
		return time.Now()
	}
	return c.app.Clock.Now()
}

// NewBiorhythmApp constructs the application and wires dependencies.
// Every successful refresh is published to srv.
func NewBiorhythmApp(a fyne.App, ctx context.Context, srv *server.ChartServer, fetcher engine.ContactFetcher) *BiorhythmApp {
	a.SetIcon(fyne.NewStaticResource(config.IconFile, appIconData))

	app := &BiorhythmApp{
		App:                a,
		Preferences:        a.Preferences(),
		Ctx:                ctx,
		Server:             srv,
		Fetcher:            fetcher,
		Clock:              engine.RealClock{},
		SupportedLanguages: config.SupportedLanguages,
		configChan:         make(chan string, config.ChannelBufferSize),
		runOnUI:            fyne.Do,
	}

	gen := &engine.Generator{
		Clock:       appClock{app},
		Fetcher:     fetcher,
		FormatEvent: app.formatEvent,
	}
	var publish func(*engine.Chart)
	if srv != nil {
		publish = srv.Update
	}
	app.Refresher = engine.NewRefresher(gen, publish)
	return app
}

// Run launches the application services and the main UI loop.
func (app *BiorhythmApp) Run() {
	app.SetupI18n()
	app.watchPreferences()

	go func() {
		if err := app.Server.Start(app.Ctx); err != nil {
			slog.Error(config.ErrServerStartup,
				config.LogKeyError, err,
				config.LogKeyComponent, config.CompUI)

			app.App.SendNotification(fyne.NewNotification(
				config.TitleStartupError,
				fmt.Sprintf(config.MsgPortBusy, app.Server.Port)))
		}
	}()

	if desk, ok := app.App.(desktop.App); ok {
		app.Tray = desk
		app.Tray.SetSystemTrayIcon(app.App.Icon())
		app.setupTrayMenu()
	} else {
		slog.Warn(config.ErrTrayNotSupported,
			config.LogKeyComponent, config.CompUI)
	}

	go app.backgroundWorker()

	app.ShowChartWindow()
	app.App.Run()
}

// watchPreferences wakes the background worker whenever a setting changes.
func (app *BiorhythmApp) watchPreferences() {
	app.Preferences.AddChangeListener(func() {
		select {
		case app.configChan <- config.PrefInterval:
		default:
		}
	})
}

// setupTrayMenu constructs the system tray menu.
func (app *BiorhythmApp) setupTrayMenu() {
	app.TrayStatusItem = fyne.NewMenuItem(config.FallbackTrayLabel, func() {
		app.ShowChartWindow()
	})

	app.TrayOpenItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuOpen), func() {
		app.ShowChartWindow()
	})

	app.TrayRefreshItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuRefresh), func() {
		go app.performRefresh(true)
	})

	app.TraySettingsItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuSettings), func() {
		app.ShowSettingsWindow()
	})

	app.Menu = fyne.NewMenu(config.AppName,
		app.TrayStatusItem,
		fyne.NewMenuItemSeparator(),
		app.TrayOpenItem,
		app.TrayRefreshItem,
		app.TraySettingsItem,
	)

	if app.Tray != nil {
		app.Tray.SetSystemTrayMenu(app.Menu)
	}
}

// RefreshTrayMenu updates localized labels in the tray menu.
func (app *BiorhythmApp) RefreshTrayMenu() {
	if app.Menu == nil {
		return
	}
	app.TrayOpenItem.Label = app.GetMsg(config.TKeyMenuOpen)
	app.TrayRefreshItem.Label = app.GetMsg(config.TKeyMenuRefresh)
	app.TraySettingsItem.Label = app.GetMsg(config.TKeyMenuSettings)
	app.updateTrayStatus(app.Refresher.Last(), nil)
}

// refreshInterval returns the configured period. Zero disables automatic refreshes.
func (app *BiorhythmApp) refreshInterval() time.Duration {
	val := app.Preferences.IntWithFallback(config.PrefInterval, config.DefaultRefreshMin)
	if val < 0 {
		val = config.DefaultRefreshMin
	}
	return time.Duration(val) * time.Minute
}

// backgroundWorker keeps the chart current: on a timer, and after every settings change.
func (app *BiorhythmApp) backgroundWorker() {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	app.performRefresh(false)

	var ticker *time.Ticker
	var tick <-chan time.Time
	schedule := func(d time.Duration) {
		if ticker != nil {
			ticker.Stop()
			ticker, tick = nil, nil
		}
		if d <= 0 {
			log.Info(config.MsgRefreshDisabled)
			return
		}
		ticker = time.NewTicker(d)
		tick = ticker.C
	}

	current := app.refreshInterval()
	schedule(current)
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	log.Info(config.MsgWorkerStart, config.LogKeyInterval, current)

	for {
		select {
		case <-app.Ctx.Done():
			log.Info(config.MsgWorkerStop)
			return

		case <-app.configChan:
			if d := app.refreshInterval(); d != current {
				log.Info(config.MsgUpdateRefresh, config.LogKeyOld, current, config.LogKeyNew, d)
				current = d
				schedule(d)
			}
			app.performRefresh(false)

		case <-tick:
			app.performRefresh(false)
		}
	}
}

// performRefresh computes the chart on the calling goroutine and hands the
// result to the UI thread through runOnUI.
func (app *BiorhythmApp) performRefresh(manual bool) {
	chart, err := app.refresh(manual)
	app.runOnUI(func() {
		app.applyChart(chart, err)
	})
}

// refresh runs the chart pipeline. It returns (nil, nil) while no birth date is configured.
func (app *BiorhythmApp) refresh(manual bool) (*engine.Chart, error) {
	slog.Info(config.MsgRefreshReq,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyManual, manual)

	cfg := app.loadChartConfig()
	if cfg.Mode == config.SourceModeManual && cfg.BirthDate == "" {
		return nil, nil
	}

	if manual {
		app.App.SendNotification(fyne.NewNotification(config.AppName, app.GetMsg(config.TKeyNotifStart)))
	}

	chart, err := app.Refresher.Refresh(app.Ctx, cfg)
	if err != nil {
		slog.Error(config.MsgRefreshFailed, config.LogKeyError, err, config.LogKeyComponent, config.CompUI)
		if manual {
			app.App.SendNotification(fyne.NewNotification(config.TitleRefreshError, app.GetMsg(config.TKeyNotifError)))
		}
		return nil, err
	}

	if manual {
		app.App.SendNotification(fyne.NewNotification(config.AppName, app.GetMsg(config.TKeyNotifSuccess)))
	}
	return chart, nil
}

// applyChart reflects a refresh result in the tray and the chart window.
func (app *BiorhythmApp) applyChart(chart *engine.Chart, err error) {
	app.updateTrayStatus(chart, err)
	if app.chartView == nil {
		return
	}
	switch {
	case err != nil:
		app.chartView.showFailure()
	case chart != nil:
		app.chartView.showSubject(chart.Subject)
	default:
		app.chartView.syncMode()
	}
}

// updateTrayStatus shows today's three values, whatever month is charted.
func (app *BiorhythmApp) updateTrayStatus(chart *engine.Chart, err error) {
	if app.Menu == nil || app.TrayStatusItem == nil {
		return
	}

	var label string
	switch {
	case err != nil:
		label = config.FallbackTrayError
	case chart == nil:
		label = app.GetMsg(config.TKeyTrayNoData)
	default:
		p := biorhythm.At(chart.Subject.BirthDate, engine.Today(app.Clock))
		phys := fmt.Sprintf(config.ValueFormat, p.Physical)
		emo := fmt.Sprintf(config.ValueFormat, p.Emotional)
		intel := fmt.Sprintf(config.ValueFormat, p.Intellectual)

		label = app.localize(config.TKeyTrayStatus, map[string]interface{}{
			"Physical":     phys,
			"Emotional":    emo,
			"Intellectual": intel,
		})
		if label == "" {
			label = fmt.Sprintf(config.FallbackTrayStatus, phys, emo, intel)
		}
	}

	app.TrayStatusItem.Label = label
	app.Menu.Refresh()
}

// loadChartConfig assembles the engine configuration from preferences and the keyring.
func (app *BiorhythmApp) loadChartConfig() engine.ChartConfig {
	cfg := engine.ChartConfig{
		Mode:      app.Preferences.StringWithFallback(config.PrefSourceMode, config.SourceModeManual),
		BirthDate: app.Preferences.String(config.PrefBirthDate),
		LocalPath: app.Preferences.String(config.PrefLocalPath),
		WebURL:    app.Preferences.String(config.PrefCardDAVURL),
		WebUser:   app.Preferences.String(config.PrefUsername),
		Contact:   app.Preferences.String(config.PrefContactName),
		Month:     app.Preferences.String(config.PrefMonth),
	}

	if cfg.Mode == config.SourceModeWeb && cfg.WebUser != "" {
		if p, err := keyring.Get(config.KeyringService, cfg.WebUser); err == nil {
			cfg.WebPass = p
		} else {
			slog.Debug(config.MsgPassFail,
				config.LogKeyUser, cfg.WebUser,
				config.LogKeyError, err,
				config.LogKeyComponent, config.CompUI)
		}
	}

	return cfg
}

// formatEvent localizes the summary of a critical-day event.
// An empty result lets the engine fall back to its English summary.
func (app *BiorhythmApp) formatEvent(c biorhythm.Cycle) string {
	return app.localize(config.TKeyEvtCritical, map[string]interface{}{"Cycle": app.cycleName(c)})
}
