package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/tartampluch/go-biorhythm/internal/config"
	"github.com/tartampluch/go-biorhythm/internal/engine"
	"github.com/tartampluch/go-biorhythm/internal/server"
)

// runHeadless serves the chart feed and recomputes it periodically until ctx ends.
func runHeadless(ctx context.Context, opts options) error {
	port := opts.port
	if port == "" {
		port = config.DefaultPort
	}
	srv := server.NewChartServer(port)
	refresher := engine.NewRefresher(
		&engine.Generator{Clock: engine.RealClock{}, Fetcher: engine.NewHTTPFetcher()},
		srv.Update,
	)

	go refreshLoop(ctx, refresher, opts.chartConfig(), time.Duration(config.DefaultRefreshMin)*time.Minute)

	return srv.Start(ctx)
}

// refreshLoop refreshes immediately, then on every tick.
// Failures are logged and the previous chart stays published.
func refreshLoop(ctx context.Context, r *engine.Refresher, cfg engine.ChartConfig, every time.Duration) {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	refresh := func() {
		if _, err := r.Refresh(ctx, cfg); err != nil && ctx.Err() == nil {
			log.Error(config.MsgRefreshFailed, config.LogKeyError, err)
		}
	}

	refresh()

	ticker := time.NewTicker(every)
	defer ticker.Stop()
	log.Info(config.MsgWorkerStart, config.LogKeyInterval, every)

	for {
		select {
		case <-ctx.Done():
			log.Info(config.MsgWorkerStop)
			return
		case <-ticker.C:
			refresh()
		}
	}
}
