package sim

import (
	"math"
	"time"
)

// OwnshipTrack moves the simulated aircraft around a figure-eight centred on
// a fixed point, so simulation mode has a plausible position and track.
type OwnshipTrack struct {
	CenterLatDeg float64
	CenterLonDeg float64
	RadiusNm     float64
	Period       time.Duration
}

// Enabled reports whether a center has been configured.
func (s OwnshipTrack) Enabled() bool {
	return s.CenterLatDeg != 0 || s.CenterLonDeg != 0
}

// Position returns lat/lon and the ground track at now.
func (s OwnshipTrack) Position(now time.Time) (latDeg, lonDeg, trackDeg float64) {
	period := s.Period
	if period <= 0 {
		period = 120 * time.Second
	}
	radiusNm := s.RadiusNm
	if radiusNm <= 0 {
		radiusNm = 0.5
	}
	radiusDeg := radiusNm / 60.0

	w := 2 * math.Pi * phase(now, period)

	// Lissajous 1:2; the north-south lobe stays within half the radius.
	east := math.Cos(w)
	north := 0.5 * math.Sin(2*w)
	latDeg = s.CenterLatDeg + radiusDeg*north
	lonDeg = s.CenterLonDeg + radiusDeg*east/math.Cos(s.CenterLatDeg*math.Pi/180.0)

	vEast := -math.Sin(w)
	vNorth := math.Cos(2 * w)
	trackDeg = normalizeDeg(math.Atan2(vEast, vNorth) * 180 / math.Pi)
	return latDeg, lonDeg, trackDeg
}

// phase is the fraction [0,1) of period elapsed at now.
func phase(now time.Time, period time.Duration) float64 {
	return float64(now.UnixNano()%period.Nanoseconds()) / float64(period.Nanoseconds())
}

func normalizeDeg(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	// A tiny negative input rounds up to exactly 360.
	if d >= 360 {
		d -= 360
	}
	return d
}
