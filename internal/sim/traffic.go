package sim

import (
	"fmt"
	"math"
	"time"

	"stratux-hud/internal/traffic"
)

const feetPerNm = 6076.12

type TrafficSim struct {
	CenterLatDeg float64
	CenterLonDeg float64
	BaseAltFeet  int
	GroundKt     int
	RadiusNm     float64
	Period       time.Duration
}

// Reports returns count position-valid contacts orbiting the center, with
// bearing and distance measured from ownship.
func (s TrafficSim) Reports(now time.Time, count int, ownLatDeg, ownLonDeg float64) []traffic.Report {
	if count <= 0 {
		return nil
	}

	period := s.Period
	if period <= 0 {
		period = 90 * time.Second
	}
	radiusNm := s.RadiusNm
	if radiusNm <= 0 {
		radiusNm = 2.0
	}
	groundKt := s.GroundKt
	if groundKt <= 0 {
		groundKt = 120
	}
	baseAlt := s.BaseAltFeet
	if baseAlt == 0 {
		baseAlt = 2500
	}
	radiusDeg := radiusNm / 60.0
	coslat := math.Cos(s.CenterLatDeg * math.Pi / 180.0)

	baseTheta := 2 * math.Pi * phase(now, period)

	out := make([]traffic.Report, 0, count)
	for i := 0; i < count; i++ {
		theta := baseTheta + 2*math.Pi*(float64(i)/float64(count))

		lat := s.CenterLatDeg + radiusDeg*math.Cos(theta)
		lon := s.CenterLonDeg + radiusDeg*math.Sin(theta)/coslat
		bearing, dist := BearingDistance(ownLatDeg, ownLonDeg, lat, lon)

		// Alternate contacts above and below the base altitude.
		alt := baseAlt + (i-count/2)*500

		out = append(out, traffic.Report{
			ICAO:          0xF10000 + uint32(i),
			Tail:          fmt.Sprintf("SIM%d", i+1),
			LatDeg:        lat,
			LonDeg:        lon,
			AltitudeFeet:  float64(alt),
			TrackDeg:      normalizeDeg(theta*180/math.Pi + 90),
			SpeedKt:       float64(groundKt),
			BearingDeg:    bearing,
			DistanceFeet:  dist,
			PositionValid: dist > 0,
			SeenAt:        now,
		})
	}
	return out
}

// BearingDistance is a flat-earth approximation, adequate for the few miles
// a HUD shows: true bearing in degrees and distance in feet.
func BearingDistance(fromLat, fromLon, toLat, toLon float64) (bearingDeg, distFeet float64) {
	north := (toLat - fromLat) * 60.0
	east := (toLon - fromLon) * 60.0 * math.Cos(fromLat*math.Pi/180.0)
	bearingDeg = normalizeDeg(math.Atan2(east, north) * 180 / math.Pi)
	distFeet = math.Hypot(north, east) * feetPerNm
	return bearingDeg, distFeet
}
