package ahrs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"stratux-hud/internal/scheduler"
)

// ErrPositionMissing means a situation report had no usable lat/lon. The
// report is discarded as a whole.
var ErrPositionMissing = errors.New("ahrs: situation has no position")

type StratuxConfig struct {
	Address string

	// ReverseRoll and ReversePitch negate the reading for units mounted
	// backwards. Applied when publishing.
	ReverseRoll  bool
	ReversePitch bool

	RequestTimeout     time.Duration
	CapabilityInterval time.Duration

	// Client overrides the HTTP client; RequestTimeout is ignored when set.
	Client *http.Client
}

// situationField maps Stratux /getSituation keys onto a snapshot field. Keys
// are tried in order; the first numeric value wins.
type situationField struct {
	name  string
	keys  []string
	def   float64
	scale float64
	set   func(s *Snapshot, v float64, ok bool)
}

var situationFields = []situationField{
	{name: "roll", keys: []string{"AHRSRoll"}, set: func(s *Snapshot, v float64, _ bool) { s.RollDeg = v }},
	{name: "pitch", keys: []string{"AHRSPitch"}, set: func(s *Snapshot, v float64, _ bool) { s.PitchDeg = v }},
	// Stratux reports the gyro heading in thousandths of a degree.
	{name: "compass_heading", keys: []string{"AHRSGyroHeading"}, scale: 1.0 / 1000.0, set: func(s *Snapshot, v float64, _ bool) { s.CompassHeadingDeg = v }},
	{name: "gps_heading", keys: []string{"GPSTrueCourse"}, set: func(s *Snapshot, v float64, _ bool) { s.GPSHeadingDeg = v }},
	{name: "altitude", keys: []string{"GPSAltitudeMSL", "BaroPressureAltitude"}, set: func(s *Snapshot, v float64, ok bool) {
		s.AltitudeFeet = v
		s.AltitudeValid = ok
	}},
	{name: "vertical_speed", keys: []string{"GPSVerticalSpeed"}, set: func(s *Snapshot, v float64, _ bool) { s.VerticalSpeedFpm = v }},
	{name: "ground_speed", keys: []string{"GPSGroundSpeed"}, set: func(s *Snapshot, v float64, _ bool) { s.GroundSpeedKt = v }},
	{name: "g_load", keys: []string{"AHRSGLoad"}, set: func(s *Snapshot, v float64, _ bool) { s.GLoad = v }},
}

// StratuxSource polls a Stratux appliance over HTTP.
type StratuxSource struct {
	cfg    StratuxConfig
	client *http.Client
	log    *slog.Logger
	now    func() time.Time

	store Store
}

func NewStratuxSource(cfg StratuxConfig, logger *slog.Logger) (*StratuxSource, error) {
	cfg.Address = strings.TrimSpace(cfg.Address)
	if cfg.Address == "" {
		return nil, fmt.Errorf("stratux address is required")
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.CapabilityInterval <= 0 {
		cfg.CapabilityInterval = DefaultCapabilityInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: cfg.RequestTimeout}
	}
	return &StratuxSource{
		cfg:    cfg,
		client: client,
		log:    logger.With(slog.String("source", "stratux"), slog.String("address", cfg.Address)),
		now:    time.Now,
	}, nil
}

// Start schedules the periodic capability refresh. The first probe runs
// immediately.
func (s *StratuxSource) Start(ctx context.Context, sched *scheduler.Scheduler) error {
	return sched.Schedule(ctx, "UpdateCapabilities", s.cfg.CapabilityInterval, s.refreshCapabilities)
}

func (s *StratuxSource) refreshCapabilities(ctx context.Context) error {
	caps := ProbeCapabilities(ctx, s.client, s.cfg.Address)
	if caps != s.store.Capabilities() {
		s.log.Info("capabilities changed",
			slog.Bool("traffic", caps.TrafficEnabled),
			slog.Bool("gps", caps.GPSEnabled),
			slog.Bool("baro", caps.BarometricEnabled),
			slog.Bool("ahrs", caps.AHRSEnabled))
	}
	s.store.SetCapabilities(caps)
	return nil
}

// Update fetches one situation report. On any failure the previous snapshot
// and availability are left untouched.
func (s *StratuxSource) Update(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	situation, err := getJSONObject(ctx, s.client, "http://"+s.cfg.Address+"/getSituation")
	if err != nil {
		return err
	}
	snap, err := parseSituation(situation)
	if err != nil {
		return err
	}
	snap.UpdatedAt = s.now()
	s.publish(snap)
	return nil
}

func (s *StratuxSource) publish(snap Snapshot) {
	if s.cfg.ReverseRoll {
		snap.RollDeg = -snap.RollDeg
	}
	if s.cfg.ReversePitch {
		snap.PitchDeg = -snap.PitchDeg
	}
	s.store.Publish(snap)
}

func (s *StratuxSource) Snapshot() Snapshot         { return s.store.Snapshot() }
func (s *StratuxSource) Capabilities() Capabilities { return s.store.Capabilities() }
func (s *StratuxSource) Available() bool            { return s.store.Available() }

// parseSituation builds a snapshot from a decoded /getSituation object.
func parseSituation(obj map[string]any) (Snapshot, error) {
	lat, latOK := numberField(obj, "GPSLatitude")
	lon, lonOK := numberField(obj, "GPSLongitude")
	if !latOK || !lonOK {
		return Snapshot{}, ErrPositionMissing
	}

	snap := Snapshot{LatDeg: lat, LonDeg: lon}
	for _, f := range situationFields {
		v, ok := f.def, false
		for _, key := range f.keys {
			if n, found := numberField(obj, key); found {
				v, ok = n, true
				break
			}
		}
		if ok && f.scale != 0 {
			v *= f.scale
		}
		f.set(&snap, v, ok)
	}
	return snap, nil
}

func numberField(obj map[string]any, key string) (float64, bool) {
	v, ok := obj[key].(float64)
	return v, ok
}
