package ahrs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"stratux-hud/internal/scheduler"
	"stratux-hud/internal/sim"
)

type DataSource string

const (
	DataSourceStratux    DataSource = "stratux"
	DataSourceSimulation DataSource = "simulation"
	DataSourceNone       DataSource = "none"
)

// Source is anything that can be polled for orientation.
type Source interface {
	Update(ctx context.Context) error
	Snapshot() Snapshot
	Available() bool
	Capabilities() Capabilities
}

type ProviderConfig struct {
	DataSource   DataSource
	MaxFramerate float64

	Stratux    StratuxConfig
	Simulation SimulationTuning
	Track      sim.OwnshipTrack
}

// Provider owns the selected source and keeps it polled at twice the frame
// rate so every frame sees a fresh reading.
type Provider struct {
	cfg    ProviderConfig
	log    *slog.Logger
	source Source
	kind   DataSource
}

// NewProvider picks the source once. Anything that cannot be built leaves
// the provider with no source; it then reports unavailable forever.
func NewProvider(cfg ProviderConfig, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxFramerate <= 0 {
		cfg.MaxFramerate = 30
	}
	if cfg.Simulation == (SimulationTuning{}) {
		cfg.Simulation = DefaultSimulationTuning()
	}
	p := &Provider{cfg: cfg, log: logger, kind: DataSourceNone}

	kind := DataSource(strings.ToLower(strings.TrimSpace(string(cfg.DataSource))))
	switch kind {
	case DataSourceStratux:
		src, err := NewStratuxSource(cfg.Stratux, logger)
		if err != nil {
			logger.Warn("stratux source unavailable", slog.Any("err", err))
			return p
		}
		p.source, p.kind = src, kind
	case DataSourceSimulation:
		p.source, p.kind = NewSimulationSource(cfg.Simulation, cfg.Track), kind
	case DataSourceNone, "":
	default:
		logger.Warn("unknown data source; orientation disabled", slog.String("data_source", string(cfg.DataSource)))
	}
	if p.source != nil {
		logger.Info("orientation source selected", slog.String("data_source", string(p.kind)))
	}
	return p
}

// UpdateInterval is half a frame.
func (p *Provider) UpdateInterval() time.Duration {
	return time.Duration(float64(time.Second) / (2 * p.cfg.MaxFramerate))
}

// Start schedules polling of the selected source. With no source there is
// nothing to schedule.
func (p *Provider) Start(ctx context.Context, sched *scheduler.Scheduler) error {
	if p.source == nil {
		return nil
	}
	if err := sched.Schedule(ctx, "UpdateAhrs", p.UpdateInterval(), p.source.Update); err != nil {
		return fmt.Errorf("schedule orientation updates: %w", err)
	}
	if live, ok := p.source.(*StratuxSource); ok {
		if err := live.Start(ctx, sched); err != nil {
			return fmt.Errorf("schedule capability refresh: %w", err)
		}
	}
	return nil
}

// Orientation is the latest published snapshot, possibly stale.
func (p *Provider) Orientation() Snapshot {
	if p.source == nil {
		return Snapshot{}
	}
	return p.source.Snapshot()
}

func (p *Provider) Available() bool {
	return p.source != nil && p.source.Available()
}

func (p *Provider) Capabilities() Capabilities {
	if p.source == nil {
		return Capabilities{}
	}
	return p.source.Capabilities()
}

func (p *Provider) DataSource() DataSource { return p.kind }
