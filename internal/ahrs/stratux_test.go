package ahrs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"stratux-hud/internal/scheduler"
)

const sampleSituation = `{
	"GPSAltitudeMSL": 68.041336,
	"GPSLongitude": -122.36627,
	"GPSLatitude": 47.669456,
	"GPSGroundSpeed": 16.749273158117294,
	"GPSTrueCourse": 179.98,
	"GPSVerticalSpeed": -0.6496063,
	"BaroPressureAltitude": -149.82413,
	"AHRSMagHeading": 3276.7,
	"AHRSGyroHeading": 184679.16154869323,
	"AHRSPitch": -1.6670512276023939,
	"AHRSRoll": 26.382463342051672,
	"AHRSGLoad": 0.8879934248943415
}`

type stratuxStub struct {
	mu        sync.Mutex
	situation string
	settings  string
	status    int
}

func (s *stratuxStub) set(status int, situation string) {
	s.mu.Lock()
	s.status = status
	s.situation = situation
	s.mu.Unlock()
}

func (s *stratuxStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch r.URL.Path {
	case "/getSituation":
		w.WriteHeader(s.status)
		_, _ = w.Write([]byte(s.situation))
	case "/getSettings":
		_, _ = w.Write([]byte(s.settings))
	default:
		http.NotFound(w, r)
	}
}

func newStratuxFixture(t *testing.T, cfg StratuxConfig) (*StratuxSource, *stratuxStub) {
	t.Helper()
	stub := &stratuxStub{status: http.StatusOK, situation: sampleSituation, settings: `{"UAT_Enabled": true, "GPS_Enabled": true}`}
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	cfg.Address = addrOf(srv)
	src, err := NewStratuxSource(cfg, testLogger())
	if err != nil {
		t.Fatalf("NewStratuxSource: %v", err)
	}
	return src, stub
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewStratuxSource_RequiresAddress(t *testing.T) {
	if _, err := NewStratuxSource(StratuxConfig{Address: " "}, nil); err == nil {
		t.Fatalf("expected error")
	}
}

func TestStratuxSource_UpdateParsesSituation(t *testing.T) {
	src, _ := newStratuxFixture(t, StratuxConfig{})
	if src.Available() {
		t.Fatalf("available before first update")
	}

	if err := src.Update(context.Background()); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !src.Available() {
		t.Fatalf("expected available after update")
	}

	got := src.Snapshot()
	if math.Abs(got.RollDeg-26.382463342051672) > 1e-9 {
		t.Fatalf("roll=%v", got.RollDeg)
	}
	if math.Abs(got.PitchDeg+1.6670512276023939) > 1e-9 {
		t.Fatalf("pitch=%v", got.PitchDeg)
	}
	if math.Abs(got.CompassHeadingDeg-184.67916154869323) > 1e-9 {
		t.Fatalf("compass=%v want thousandths scaled once", got.CompassHeadingDeg)
	}
	if got.GPSHeadingDeg != 179.98 {
		t.Fatalf("gps heading=%v", got.GPSHeadingDeg)
	}
	if !got.AltitudeValid || got.AltitudeFeet != 68.041336 {
		t.Fatalf("altitude=%v valid=%v want GPS MSL", got.AltitudeFeet, got.AltitudeValid)
	}
	if got.LatDeg != 47.669456 || got.LonDeg != -122.36627 {
		t.Fatalf("position=%v,%v", got.LatDeg, got.LonDeg)
	}
	if got.GroundSpeedKt != 16.749273158117294 || got.VerticalSpeedFpm != -0.6496063 {
		t.Fatalf("speeds gs=%v vs=%v", got.GroundSpeedKt, got.VerticalSpeedFpm)
	}
	if got.GLoad != 0.8879934248943415 {
		t.Fatalf("gload=%v", got.GLoad)
	}
	if got.UpdatedAt.IsZero() {
		t.Fatalf("UpdatedAt not set")
	}
}

func TestStratuxSource_FieldDefaultsAndFallbacks(t *testing.T) {
	src, stub := newStratuxFixture(t, StratuxConfig{})

	stub.set(http.StatusOK, `{"GPSLatitude": 1, "GPSLongitude": 2, "BaroPressureAltitude": 1500, "AHRSRoll": "level"}`)
	if err := src.Update(context.Background()); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got := src.Snapshot()
	if !got.AltitudeValid || got.AltitudeFeet != 1500 {
		t.Fatalf("altitude=%v valid=%v want baro fallback", got.AltitudeFeet, got.AltitudeValid)
	}
	if got.RollDeg != 0 || got.PitchDeg != 0 || got.CompassHeadingDeg != 0 || got.GLoad != 0 {
		t.Fatalf("defaults not applied: %+v", got)
	}

	stub.set(http.StatusOK, `{"GPSLatitude": 1, "GPSLongitude": 2}`)
	if err := src.Update(context.Background()); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := src.Snapshot(); got.AltitudeValid {
		t.Fatalf("altitude should be unavailable: %+v", got)
	}
}

func TestStratuxSource_MissingPositionLeavesStateUntouched(t *testing.T) {
	src, stub := newStratuxFixture(t, StratuxConfig{})
	if err := src.Update(context.Background()); err != nil {
		t.Fatalf("Update: %v", err)
	}
	before := src.Snapshot()

	for _, body := range []string{
		`{"AHRSRoll": 10, "GPSLongitude": 2}`,
		`{"AHRSRoll": 10, "GPSLatitude": 1}`,
		`{"AHRSRoll": 10, "GPSLatitude": "north", "GPSLongitude": 2}`,
	} {
		stub.set(http.StatusOK, body)
		err := src.Update(context.Background())
		if !errors.Is(err, ErrPositionMissing) {
			t.Fatalf("body=%s err=%v want ErrPositionMissing", body, err)
		}
		if got := src.Snapshot(); got != before {
			t.Fatalf("snapshot changed: got=%+v want=%+v", got, before)
		}
		if !src.Available() {
			t.Fatalf("availability changed")
		}
	}
}

func TestStratuxSource_MissingPositionBeforeFirstFixStaysUnavailable(t *testing.T) {
	src, stub := newStratuxFixture(t, StratuxConfig{})
	stub.set(http.StatusOK, `{"AHRSRoll": 10}`)
	if err := src.Update(context.Background()); !errors.Is(err, ErrPositionMissing) {
		t.Fatalf("err=%v want ErrPositionMissing", err)
	}
	if src.Available() {
		t.Fatalf("expected unavailable")
	}
	if got := src.Snapshot(); got != (Snapshot{}) {
		t.Fatalf("expected zero snapshot, got %+v", got)
	}
}

func TestStratuxSource_TransportAndDecodeFailuresKeepState(t *testing.T) {
	src, stub := newStratuxFixture(t, StratuxConfig{})
	if err := src.Update(context.Background()); err != nil {
		t.Fatalf("Update: %v", err)
	}
	before := src.Snapshot()

	stub.set(http.StatusServiceUnavailable, sampleSituation)
	if err := src.Update(context.Background()); err == nil {
		t.Fatalf("expected error for non-200")
	}
	stub.set(http.StatusOK, `not json`)
	if err := src.Update(context.Background()); err == nil {
		t.Fatalf("expected decode error")
	}
	if got := src.Snapshot(); got != before || !src.Available() {
		t.Fatalf("state changed after failures")
	}
}

func TestStratuxSource_ReverseFlagsNegateOnPublish(t *testing.T) {
	cases := []struct {
		name      string
		cfg       StratuxConfig
		wantRoll  float64
		wantPitch float64
	}{
		{name: "None", cfg: StratuxConfig{}, wantRoll: 10, wantPitch: 5},
		{name: "Roll", cfg: StratuxConfig{ReverseRoll: true}, wantRoll: -10, wantPitch: 5},
		{name: "Pitch", cfg: StratuxConfig{ReversePitch: true}, wantRoll: 10, wantPitch: -5},
		{name: "Both", cfg: StratuxConfig{ReverseRoll: true, ReversePitch: true}, wantRoll: -10, wantPitch: -5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src, stub := newStratuxFixture(t, tc.cfg)
			stub.set(http.StatusOK, `{"AHRSRoll": 10, "AHRSPitch": 5, "GPSLatitude": 1, "GPSLongitude": 2}`)
			if err := src.Update(context.Background()); err != nil {
				t.Fatalf("Update: %v", err)
			}
			got := src.Snapshot()
			if got.RollDeg != tc.wantRoll || got.PitchDeg != tc.wantPitch {
				t.Fatalf("roll=%v pitch=%v want %v %v", got.RollDeg, got.PitchDeg, tc.wantRoll, tc.wantPitch)
			}
		})
	}
}

func TestStratuxSource_StartRefreshesCapabilities(t *testing.T) {
	src, _ := newStratuxFixture(t, StratuxConfig{CapabilityInterval: time.Hour})
	sched := scheduler.New(testLogger())
	defer sched.Close()

	if err := src.Start(context.Background(), sched); err != nil {
		t.Fatalf("Start: %v", err)
	}

	want := Capabilities{TrafficEnabled: true, GPSEnabled: true}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if src.Capabilities() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("capabilities=%+v want=%+v", src.Capabilities(), want)
}
