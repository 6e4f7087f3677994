package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"fyne.io/fyne/v2/app"
	"github.com/tartampluch/go-biorhythm/internal/config"
	"github.com/tartampluch/go-biorhythm/internal/engine"
	"github.com/tartampluch/go-biorhythm/internal/server"
	"github.com/tartampluch/go-biorhythm/internal/ui"
)

func main() {
	os.Exit(runMain())
}

// runMain returns the exit code so deferred cleanups run first.
func runMain() int {
	opts, err := parseOptions(os.Args[1:])
	switch {
	case errors.Is(err, flag.ErrHelp):
		return config.ExitCodeSuccess
	case err != nil:
		fmt.Fprintln(os.Stderr, err)
		return config.ExitCodeError
	case opts.version:
		fmt.Printf(config.MsgVersionOutput, config.AppName, config.Version, runtime.GOOS, runtime.GOARCH)
		return config.ExitCodeSuccess
	}

	// The table owns stdout in print mode; logs go to the file only.
	var console io.Writer = os.Stdout
	if opts.print {
		console = nil
	}
	logger, closeLog := newLogger(console, opts.debug)
	defer closeLog()
	slog.SetDefault(logger)

	mode := opts.runMode()
	logStartup(mode)
	if opts.envLoaded != "" {
		slog.Debug(config.MsgEnvLoaded,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyFile, opts.envLoaded)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch mode {
	case config.RunModePrint:
		err = runPrint(ctx, opts, os.Stdout)
	case config.RunModeHeadless:
		err = runHeadless(ctx, opts)
	default:
		err = runGUI(ctx, opts)
	}

	if err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyRunMode, mode,
			config.LogKeyError, err)
		if opts.print {
			fmt.Fprintln(os.Stderr, err)
		}
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// runGUI starts the tray application and blocks until it quits.
func runGUI(ctx context.Context, opts options) error {
	a := app.NewWithID(config.AppID)
	prefs := a.Preferences()
	prefs.SetString(config.PrefLastRun, config.Version)

	// Command line values seed the matching preferences.
	if opts.birth != "" {
		prefs.SetString(config.PrefSourceMode, config.SourceModeManual)
		prefs.SetString(config.PrefBirthDate, opts.birth)
	}
	if opts.month != "" {
		prefs.SetString(config.PrefMonth, opts.month)
	}

	port := opts.port
	if port == "" {
		port = prefs.StringWithFallback(config.PrefServerPort, config.DefaultPort)
	}

	gui := ui.NewBiorhythmApp(a, ctx, server.NewChartServer(port), engine.NewHTTPFetcher())

	go func() {
		<-ctx.Done()
		slog.Info(config.MsgCtxCancel, config.LogKeyComponent, config.CompMain)
		a.Quit()
	}()

	gui.Run()
	return nil
}
