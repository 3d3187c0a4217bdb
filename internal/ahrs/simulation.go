package ahrs

import (
	"context"
	"sync"
	"time"

	"stratux-hud/internal/sim"
)

// OscillatorTuning parameterizes one simulated channel.
type OscillatorTuning struct {
	Rate      float64
	Limit     float64
	Direction float64
	Initial   float64
	Offset    float64
}

type SimulationTuning struct {
	Pitch    OscillatorTuning
	Roll     OscillatorTuning
	Heading  OscillatorTuning
	Airspeed OscillatorTuning
	Altitude OscillatorTuning
}

// DefaultSimulationTuning pitches gently, banks and yaws through +/-60
// degrees, and wanders 10 kt around 85 kt and 300 ft around 2500 ft.
func DefaultSimulationTuning() SimulationTuning {
	return SimulationTuning{
		Pitch:    OscillatorTuning{Rate: 1, Limit: 30, Direction: -1},
		Roll:     OscillatorTuning{Rate: 5, Limit: 60, Direction: 1},
		Heading:  OscillatorTuning{Rate: 5, Limit: 60, Direction: 1},
		Airspeed: OscillatorTuning{Rate: 5, Limit: 10, Direction: 1, Offset: 85},
		Altitude: OscillatorTuning{Rate: 10, Limit: 300, Direction: -1, Offset: 2500},
	}
}

func (t OscillatorTuning) build(now time.Time) *sim.Oscillator {
	return sim.NewOscillatorAt(now, t.Rate, t.Limit, t.Direction, t.Initial, t.Offset)
}

// SimulationSource synthesizes orientation from free-running oscillators.
// It is always available.
type SimulationSource struct {
	track sim.OwnshipTrack
	now   func() time.Time

	// mu serializes Update; the oscillators are single-writer.
	mu       sync.Mutex
	pitch    *sim.Oscillator
	roll     *sim.Oscillator
	heading  *sim.Oscillator
	airspeed *sim.Oscillator
	altitude *sim.Oscillator

	store Store
}

func NewSimulationSource(tuning SimulationTuning, track sim.OwnshipTrack) *SimulationSource {
	return newSimulationSource(tuning, track, time.Now)
}

func newSimulationSource(tuning SimulationTuning, track sim.OwnshipTrack, now func() time.Time) *SimulationSource {
	start := now()
	s := &SimulationSource{
		track:    track,
		now:      now,
		pitch:    tuning.Pitch.build(start),
		roll:     tuning.Roll.build(start),
		heading:  tuning.Heading.build(start),
		airspeed: tuning.Airspeed.build(start),
		altitude: tuning.Altitude.build(start),
	}
	s.store.SetCapabilities(SimulationCapabilities())
	return s
}

func (s *SimulationSource) Update(ctx context.Context) error {
	_ = ctx

	s.mu.Lock()
	now := s.now()
	snap := Snapshot{
		PitchDeg:          s.pitch.TickAt(now),
		RollDeg:           s.roll.TickAt(now),
		CompassHeadingDeg: s.heading.TickAt(now),
		GroundSpeedKt:     s.airspeed.TickAt(now),
		AltitudeFeet:      s.altitude.TickAt(now),
		AltitudeValid:     true,
		GLoad:             1.0,
		UpdatedAt:         now,
	}
	snap.VerticalSpeedFpm = s.altitude.Direction() * s.altitude.Rate() * 60
	s.mu.Unlock()

	snap.GPSHeadingDeg = snap.CompassHeadingDeg
	if s.track.Enabled() {
		snap.LatDeg, snap.LonDeg, _ = s.track.Position(now)
	}

	s.store.Publish(snap)
	return nil
}

func (s *SimulationSource) Snapshot() Snapshot         { return s.store.Snapshot() }
func (s *SimulationSource) Capabilities() Capabilities { return s.store.Capabilities() }

func (s *SimulationSource) Available() bool { return true }
