package hud

import (
	"stratux-hud/internal/ahrs"
	"stratux-hud/internal/traffic"
)

const (
	TargetBugScale       = 0.02
	OnScreenReticleScale = 0.05
)

type ReticleKind string

const (
	ReticleAbove    ReticleKind = "above"
	ReticleBelow    ReticleKind = "below"
	ReticleOnScreen ReticleKind = "on_screen"
)

// Placement is where and how one contact is marked.
type Placement struct {
	Identifier string      `json:"identifier"`
	Kind       ReticleKind `json:"kind"`
	// Anchor is the projected position; rotated by roll when on screen.
	Anchor Point `json:"anchor"`
	// Reticle is a closed polygon.
	Reticle []Point `json:"reticle"`
	// Label is where the identifier text is centred.
	Label Point `json:"label"`
}

func (s Screen) reticleSize(scale float64) float64 {
	return float64(int(float64(s.Height) * scale))
}

// AboveReticle is a chevron pointing up, pinned to the top edge.
func (s Screen) AboveReticle(x, scale float64) []Point {
	size := s.reticleSize(scale)
	return []Point{
		{X: x - size, Y: size},
		{X: x, Y: 0},
		{X: x + size, Y: size},
	}
}

// BelowReticle is a chevron pointing down, pinned to the bottom edge.
func (s Screen) BelowReticle(x, scale float64) []Point {
	size := s.reticleSize(scale)
	h := float64(s.Height)
	return []Point{
		{X: x - size, Y: h - size},
		{X: x, Y: h},
		{X: x + size, Y: h - size},
	}
}

// OnScreenReticle is a diamond around center.
func (s Screen) OnScreenReticle(center Point, scale float64) []Point {
	size := s.reticleSize(scale)
	return []Point{
		{X: center.X, Y: center.Y - size},
		{X: center.X + size, Y: center.Y},
		{X: center.X, Y: center.Y + size},
		{X: center.X - size, Y: center.Y},
	}
}

// HeadingBugX is the strip position of bearing relative to heading.
func (s Screen) HeadingBugX(headingDeg, bearingDeg float64) float64 {
	rel := headingDeg - bearingDeg
	for rel < -180 {
		rel += 360
	}
	for rel > 180 {
		rel -= 360
	}
	return s.Center().X - rel*(float64(s.Width)/360.0)
}

// PlaceTraffic picks the reticle for a contact. Contacts beyond the top or
// bottom border get an edge chevron at the heading bug; everything else,
// including a contact exactly on a border, gets a diamond rotated with roll.
func (s Screen) PlaceTraffic(o ahrs.Snapshot, t traffic.Report) Placement {
	p := s.ProjectTraffic(o, t)
	out := Placement{Identifier: t.Identifier(), Anchor: p}

	switch {
	case p.Y < float64(s.TopBorder()):
		x := s.HeadingBugX(o.Heading(), t.BearingDeg)
		out.Kind = ReticleAbove
		out.Reticle = s.AboveReticle(x, TargetBugScale)
		out.Label = Point{X: x, Y: float64(s.TopBorder())}
	case p.Y > float64(s.BottomBorder()):
		x := s.HeadingBugX(o.Heading(), t.BearingDeg)
		out.Kind = ReticleBelow
		out.Reticle = s.BelowReticle(x, TargetBugScale)
		out.Label = Point{X: x, Y: float64(s.BottomBorder())}
	default:
		c := s.Center()
		out.Kind = ReticleOnScreen
		out.Reticle = RotatePoints(s.OnScreenReticle(p, OnScreenReticleScale), o.RollDeg, c)
		out.Anchor = RotatePoints([]Point{p}, o.RollDeg, c)[0]

		// Keep the label clear of the diamond, towards the screen center.
		gap := 2 * s.reticleSize(OnScreenReticleScale)
		out.Label = Point{X: out.Anchor.X, Y: out.Anchor.Y + gap}
		if out.Anchor.Y > c.Y {
			out.Label.Y = out.Anchor.Y - gap
		}
	}
	return out
}
