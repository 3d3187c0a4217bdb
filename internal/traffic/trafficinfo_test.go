package traffic

import (
	"math"
	"testing"
	"time"
)

func TestParseTrafficInfoPositioned(t *testing.T) {
	raw := `{
        "Icao_addr": 11256099,
        "OnGround": false,
        "Lat": 47.5,
        "Lng": -122.1,
        "Position_valid": true,
        "Alt": 4500,
        "Track": 123,
        "Speed": 150,
        "Speed_valid": true,
        "Vvel": 256,
        "Tail": " n12345 ",
        "Distance": 1852,
        "Bearing": 45.5,
        "BearingDist_valid": true
    }`
	now := time.Date(2025, 12, 20, 19, 0, 0, 0, time.UTC)
	r, ok := ParseTrafficInfo([]byte(raw), now)
	if !ok {
		t.Fatalf("expected parse to succeed")
	}
	if r.ICAO != 0xABC123 {
		t.Fatalf("icao=%06X want ABC123", r.ICAO)
	}
	if r.Tail != "N12345" || r.Identifier() != "N12345" {
		t.Fatalf("tail=%q", r.Tail)
	}
	if !r.PositionValid {
		t.Fatalf("expected position valid")
	}
	if r.AltitudeFeet != 4500 || r.SpeedKt != 150 || r.TrackDeg != 123 {
		t.Fatalf("alt=%v speed=%v track=%v", r.AltitudeFeet, r.SpeedKt, r.TrackDeg)
	}
	if r.BearingDeg != 45.5 {
		t.Fatalf("bearing=%v", r.BearingDeg)
	}
	if math.Abs(r.DistanceFeet-1852*3.28084) > 1e-9 {
		t.Fatalf("distance=%v want meters converted to feet", r.DistanceFeet)
	}
	if !r.SeenAt.Equal(now) {
		t.Fatalf("seenAt=%v", r.SeenAt)
	}
}

func TestParseTrafficInfoWithoutBearingIsNotPositioned(t *testing.T) {
	raw := `{"Icao_addr": 11256099, "Lat": 47.5, "Lng": -122.1, "Position_valid": true, "Alt": 4500, "BearingDist_valid": false}`
	r, ok := ParseTrafficInfo([]byte(raw), time.Now())
	if !ok {
		t.Fatalf("expected parse to succeed")
	}
	if r.PositionValid {
		t.Fatalf("no bearing/distance: should not be positioned")
	}
	if r.LatDeg != 47.5 {
		t.Fatalf("lat=%v", r.LatDeg)
	}
}

func TestParseTrafficInfoIgnoresUnvalidatedSpeed(t *testing.T) {
	raw := `{"Icao_addr": 1, "Speed": 150, "Track": 90, "Speed_valid": false}`
	r, ok := ParseTrafficInfo([]byte(raw), time.Now())
	if !ok {
		t.Fatalf("expected parse to succeed")
	}
	if r.SpeedKt != 0 || r.TrackDeg != 0 {
		t.Fatalf("speed=%v track=%v want zero", r.SpeedKt, r.TrackDeg)
	}
	if r.Identifier() != "000001" {
		t.Fatalf("identifier=%q", r.Identifier())
	}
}

func TestParseTrafficInfoRejects(t *testing.T) {
	for _, raw := range []string{
		`not json`,
		`{"Icao_addr": 0}`,
		`{"Icao_addr": 134217727}`,
		`{"Icao_addr": 16777216}`,
	} {
		if _, ok := ParseTrafficInfo([]byte(raw), time.Now()); ok {
			t.Fatalf("expected reject for %s", raw)
		}
	}
}

func TestParseTrafficInfoStripsNonICAOFlag(t *testing.T) {
	r, ok := ParseTrafficInfo([]byte(`{"Icao_addr": 28033315}`), time.Now()) // 0x1ABC123
	if !ok {
		t.Fatalf("expected parse to succeed")
	}
	if r.ICAO != 0xABC123 {
		t.Fatalf("icao=%06X", r.ICAO)
	}
}
