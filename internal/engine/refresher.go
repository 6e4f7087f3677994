package engine

import (
	"context"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/tartampluch/go-biorhythm/internal/config"
)

// Refresher runs the Generator on behalf of several callers (tray clicks,
// the background worker, input changes) and publishes each new chart.
// Identical concurrent requests share a single computation.
type Refresher struct {
	Generator *Generator

	// Publish receives every successfully computed chart, e.g. the HTTP feed.
	Publish func(*Chart)

	group singleflight.Group
	last  atomic.Pointer[Chart]
}

// NewRefresher wires a generator to a publisher.
func NewRefresher(gen *Generator, publish func(*Chart)) *Refresher {
	return &Refresher{Generator: gen, Publish: publish}
}

// Refresh computes the chart for cfg. Callers asking for the same
// configuration while a computation is in flight receive its result.
// The shared computation is detached from any single caller's cancellation;
// each caller stops waiting when its own ctx ends.
func (r *Refresher) Refresh(ctx context.Context, cfg ChartConfig) (*Chart, error) {
	ch := r.group.DoChan(cfg.key(), func() (interface{}, error) {
		chart, err := r.Generator.Run(context.WithoutCancel(ctx), cfg)
		if err != nil {
			return nil, err
		}
		r.last.Store(chart)
		if r.Publish != nil {
			r.Publish(chart)
		}
		return chart, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Shared {
			slog.Debug(config.MsgRefreshShared,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyShared, res.Shared)
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Chart), nil
	}
}

// Last returns the most recent successful chart, or nil.
func (r *Refresher) Last() *Chart {
	return r.last.Load()
}
