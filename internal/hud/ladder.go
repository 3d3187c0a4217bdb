package hud

import "math"

const (
	ladderStepDeg = 10
	// CardinalMarkProportion is the height of a heading strip tick.
	CardinalMarkProportion = 0.05
)

// LadderLine is one pitch reference line; Angle 0 is the horizon.
type LadderLine struct {
	Angle int `json:"angle"`
	Line
}

// PitchLadder returns reference lines every 10 degrees, shifted for pitch
// and tilted with roll. Lines entirely above or below the screen are dropped.
func (s Screen) PitchLadder(pitchDeg, rollDeg float64) []LadderLine {
	var out []LadderLine
	for angle := -DegreesOfPitch; angle <= DegreesOfPitch; angle += ladderStepDeg {
		l := s.ladderLine(pitchDeg, rollDeg, angle)
		h := float64(s.Height)
		if l.From.Y < 0 && l.To.Y < 0 {
			continue
		}
		if l.From.Y > h && l.To.Y > h {
			continue
		}
		out = append(out, LadderLine{Angle: angle, Line: l})
	}
	return out
}

func (s Screen) ladderLine(pitchDeg, rollDeg float64, angle int) Line {
	length := float64(s.Width) * 0.1
	if angle == 0 {
		length = float64(s.Width) * 0.2
	}

	c := s.Center()
	offset := s.PixelsPerDegree() * (-pitchDeg + float64(angle))

	roll := rollDeg * math.Pi / 180
	normal := (90 - rollDeg) * math.Pi / 180

	cx := int(c.X - offset*math.Cos(normal) + 0.5)
	cy := int(c.Y - offset*math.Sin(normal) + 0.5)
	xLen := int(length*math.Cos(roll) + 0.5)
	yLen := int(length*math.Sin(roll) + 0.5)

	return Line{
		From: Point{X: float64(cx - xLen>>1), Y: float64(cy + yLen>>1)},
		To:   Point{X: float64(cx + xLen>>1), Y: float64(cy - yLen>>1)},
	}
}

// HeadingMark is a cardinal tick on the heading strip.
type HeadingMark struct {
	Degrees int     `json:"degrees"`
	X       float64 `json:"x"`
}

// HeadingMarks places every multiple of 90 degrees within half a circle
// either side of heading.
func (s Screen) HeadingMarks(headingDeg float64) []HeadingMark {
	ppd := float64(s.Width) / 360.0
	c := s.Center()

	var out []HeadingMark
	seen := map[int]bool{}
	add := func(deg int, x float64) {
		deg = ((deg % 360) + 360) % 360
		if deg%90 != 0 || seen[deg] {
			return
		}
		seen[deg] = true
		out = append(out, HeadingMark{Degrees: deg, X: x})
	}
	for strip := 0; strip < 180; strip++ {
		offset := float64(int(ppd * float64(strip)))
		add(int(math.Floor(headingDeg-float64(strip)+0.5)), c.X-offset)
		add(int(math.Floor(headingDeg+float64(strip)+0.5)), c.X+offset)
	}
	return out
}

// LevelReference is the fixed waterline and the two edge ticks.
func (s Screen) LevelReference() []Line {
	w := float64(s.Width)
	cy := s.Center().Y
	edge := float64(int(w * 0.05))
	return []Line{
		{From: Point{X: float64(int(w * 0.4)), Y: cy}, To: Point{X: float64(int(w * 0.6)), Y: cy}},
		{From: Point{X: 0, Y: cy}, To: Point{X: edge, Y: cy}},
		{From: Point{X: w - edge, Y: cy}, To: Point{X: w, Y: cy}},
	}
}
