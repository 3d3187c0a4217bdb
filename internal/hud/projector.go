// Package hud turns an orientation snapshot and traffic reports into screen
// geometry. Everything here is a pure function of its inputs.
package hud

import (
	"math"

	"stratux-hud/internal/ahrs"
	"stratux-hud/internal/traffic"
)

const (
	// DegreesOfPitch is the pitch span the screen height represents before
	// PitchDisplayScale compresses it.
	DegreesOfPitch    = 90
	PitchDisplayScale = 2.0
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Line struct {
	From Point `json:"from"`
	To   Point `json:"to"`
}

// Screen is the drawable area in pixels (or cells).
type Screen struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s Screen) Center() Point {
	return Point{X: float64(s.Width >> 1), Y: float64(s.Height >> 1)}
}

// TopBorder and BottomBorder bound the band where traffic is drawn in place.
func (s Screen) TopBorder() int { return int(float64(s.Height) * 0.1) }

func (s Screen) BottomBorder() int { return s.Height - s.TopBorder() }

// PixelsPerDegree is used for both axes so angles look the same either way.
func (s Screen) PixelsPerDegree() float64 {
	return float64(s.Height) / DegreesOfPitch * PitchDisplayScale
}

// ProjectTraffic places a contact relative to the boresight. Unknown ownship
// altitude counts as zero.
func (s Screen) ProjectTraffic(o ahrs.Snapshot, t traffic.Report) Point {
	ownAlt := 0.0
	if o.AltitudeValid {
		ownAlt = o.AltitudeFeet
	}
	altitudeDelta := t.AltitudeFeet - ownAlt
	// atan2 equals atan(delta/distance) for positive distance and stays
	// finite when a contact reports zero distance.
	vertical := math.Atan2(altitudeDelta, t.DistanceFeet)*180/math.Pi - o.PitchDeg
	horizontal := t.BearingDeg - o.Heading()

	ppd := s.PixelsPerDegree()
	c := s.Center()
	return Point{
		X: c.X + horizontal*ppd,
		Y: c.Y - vertical*ppd,
	}
}

// RotatePoints rotates each point about center by -rollDeg so symbols stay
// level with the true horizon while the aircraft banks.
func RotatePoints(points []Point, rollDeg float64, center Point) []Point {
	out := make([]Point, len(points))
	if rollDeg == 0 {
		copy(out, points)
		return out
	}

	rad := -rollDeg * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	for i, p := range points {
		dx, dy := p.X-center.X, p.Y-center.Y
		out[i] = Point{
			X: center.X + cos*dx - sin*dy,
			Y: center.Y + sin*dx + cos*dy,
		}
	}
	return out
}
