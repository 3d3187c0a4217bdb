package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"stratux-hud/internal/ahrs"
	"stratux-hud/internal/config"
	"stratux-hud/internal/hud"
	"stratux-hud/internal/scheduler"
	"stratux-hud/internal/sim"
	"stratux-hud/internal/traffic"
	"stratux-hud/internal/web"
)

const simulateTrafficInterval = time.Second

// renderer is the drawing surface; display.Display in production.
type renderer interface {
	Size() hud.Screen
	Draw(hud.Frame)
	PollQuit(ctx context.Context) <-chan struct{}
}

type liveRuntime struct {
	cfg config.Config
	log *slog.Logger

	sched    *scheduler.Scheduler
	provider *ahrs.Provider
	store    *traffic.Store
	client   *traffic.Client
	trafSim  sim.TrafficSim
	status   *web.Status
	logs     *web.LogBuffer
	units    hud.DistanceUnits
}

func newLiveRuntime(cfg config.Config, logger *slog.Logger, logs *web.LogBuffer) (*liveRuntime, error) {
	c := cfg
	if err := config.DefaultAndValidate(&c); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	track := sim.OwnshipTrack{
		CenterLatDeg: c.Simulation.CenterLatDeg,
		CenterLonDeg: c.Simulation.CenterLonDeg,
		RadiusNm:     c.Simulation.RadiusNm,
		Period:       c.Simulation.Period,
	}
	provider := ahrs.NewProvider(ahrs.ProviderConfig{
		DataSource:   ahrs.DataSource(c.DataSource),
		MaxFramerate: c.MaxFramerate,
		Stratux: ahrs.StratuxConfig{
			Address:            c.StratuxAddress,
			ReverseRoll:        c.ReverseRoll,
			ReversePitch:       c.ReversePitch,
			RequestTimeout:     c.AHRS.RequestTimeout,
			CapabilityInterval: c.AHRS.CapabilityInterval,
		},
		Simulation: ahrs.DefaultSimulationTuning(),
		Track:      track,
	}, logger)

	sched := scheduler.New(logger.With(slog.String("component", "scheduler")))
	store := traffic.NewStore(traffic.StoreConfig{MaxTargets: c.Traffic.MaxTargets, TTL: c.Traffic.TTL})

	rt := &liveRuntime{
		cfg:      c,
		log:      logger,
		sched:    sched,
		provider: provider,
		store:    store,
		trafSim: sim.TrafficSim{
			CenterLatDeg: c.Simulation.CenterLatDeg,
			CenterLonDeg: c.Simulation.CenterLonDeg,
		},
		status: web.NewStatus(provider, sched, store),
		logs:   logs,
		units:  hud.DistanceUnits(c.DistanceUnits),
	}

	if c.Traffic.Enable && provider.DataSource() == ahrs.DataSourceStratux {
		client, err := traffic.NewClient(traffic.ClientConfig{Address: c.StratuxAddress}, store, logger)
		if err != nil {
			return nil, fmt.Errorf("traffic client: %w", err)
		}
		rt.client = client
		rt.status.SetTrafficClient(client)
	}
	return rt, nil
}

// Run starts every background component and renders until the user quits
// or ctx is cancelled.
func (r *liveRuntime) Run(ctx context.Context, d renderer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer r.sched.Close()

	if err := r.provider.Start(ctx, r.sched); err != nil {
		return err
	}
	if r.simulatingTraffic() {
		if err := r.sched.Schedule(ctx, "SimulateTraffic", simulateTrafficInterval, r.simulateTraffic); err != nil {
			return fmt.Errorf("schedule traffic simulation: %w", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	if r.client != nil {
		g.Go(func() error { return r.client.Run(gctx) })
	}
	if r.cfg.Web.Listen != "" {
		g.Go(func() error {
			r.log.Info("status server listening", slog.String("listen", r.cfg.Web.Listen))
			if err := web.Serve(gctx, r.cfg.Web.Listen, web.Handler(r.status, r.logs)); err != nil {
				return fmt.Errorf("status server: %w", err)
			}
			return nil
		})
	}

	quit := d.PollQuit(gctx)
	g.Go(func() error {
		select {
		case <-quit:
			r.log.Info("quit requested")
			cancel()
		case <-gctx.Done():
		}
		return nil
	})
	g.Go(func() error { return r.renderLoop(gctx, d) })

	return g.Wait()
}

func (r *liveRuntime) simulatingTraffic() bool {
	return r.cfg.Traffic.Enable &&
		r.cfg.Traffic.SimulatedCount > 0 &&
		r.provider.DataSource() == ahrs.DataSourceSimulation
}

// simulateTraffic refreshes the simulated contacts relative to the current
// ownship position.
func (r *liveRuntime) simulateTraffic(ctx context.Context) error {
	o := r.provider.Orientation()
	r.store.UpsertMany(r.trafSim.Reports(time.Now(), r.cfg.Traffic.SimulatedCount, o.LatDeg, o.LonDeg))
	return nil
}

// renderLoop draws at most max_framerate frames per second.
func (r *liveRuntime) renderLoop(ctx context.Context, d renderer) error {
	limiter := rate.NewLimiter(rate.Limit(r.cfg.MaxFramerate), 1)
	for {
		if err := limiter.Wait(ctx); err != nil {
			// Wait also fails early when the next frame would land past
			// ctx's deadline; either way the loop is finished.
			<-ctx.Done()
			return nil
		}
		d.Draw(r.frame(d.Size()))
		r.status.MarkFrame(time.Now().UTC())
	}
}

func (r *liveRuntime) frame(s hud.Screen) hud.Frame {
	return hud.Compose(s, r.provider.Orientation(), r.provider.Available(), r.store.WithPosition(), r.units)
}
