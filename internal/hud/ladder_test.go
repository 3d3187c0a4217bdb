package hud

import (
	"testing"
)

func TestPitchLadder_LevelFlight(t *testing.T) {
	s := Screen{Width: 640, Height: 480} // ~10.67 px per degree

	lines := s.PitchLadder(0, 0)
	// Only -20..20 fit in half a screen height.
	if len(lines) != 5 {
		t.Fatalf("lines=%d want 5: %+v", len(lines), lines)
	}

	var horizon *LadderLine
	for i := range lines {
		if lines[i].Angle == 0 {
			horizon = &lines[i]
		}
	}
	if horizon == nil {
		t.Fatalf("no horizon line")
	}
	want := Line{From: Point{X: 256, Y: 240}, To: Point{X: 384, Y: 240}}
	if horizon.Line != want {
		t.Fatalf("horizon=%+v want=%+v", horizon.Line, want)
	}

	for _, l := range lines {
		if l.Angle == 0 {
			continue
		}
		if got := l.To.X - l.From.X; got != 64 {
			t.Fatalf("angle %d width=%v want 64", l.Angle, got)
		}
		if l.Angle > 0 && l.From.Y >= 240 {
			t.Fatalf("angle %d should be above the horizon: y=%v", l.Angle, l.From.Y)
		}
		if l.Angle < 0 && l.From.Y <= 240 {
			t.Fatalf("angle %d should be below the horizon: y=%v", l.Angle, l.From.Y)
		}
	}
}

func TestPitchLadder_NoseUpShiftsLinesDown(t *testing.T) {
	s := Screen{Width: 640, Height: 480}
	for _, l := range s.PitchLadder(10, 0) {
		if l.Angle == 10 && l.From.Y != 240 {
			t.Fatalf("10 degree line y=%v want center with nose 10 up", l.From.Y)
		}
		if l.Angle == 0 && l.From.Y <= 240 {
			t.Fatalf("horizon y=%v should drop below center", l.From.Y)
		}
	}
}

func TestPitchLadder_RollTiltsHorizon(t *testing.T) {
	s := Screen{Width: 640, Height: 480}
	for _, l := range s.PitchLadder(0, 20) {
		if l.Angle != 0 {
			continue
		}
		if !(l.From.Y > l.To.Y) {
			t.Fatalf("right bank should raise the right end: %+v", l.Line)
		}
		return
	}
	t.Fatalf("no horizon line")
}

func TestHeadingMarks_Cardinals(t *testing.T) {
	s := Screen{Width: 720, Height: 480} // 2 px per degree, center 360

	got := s.HeadingMarks(0)
	want := map[int]float64{0: 360, 270: 180, 90: 540}
	if len(got) != len(want) {
		t.Fatalf("marks=%+v", got)
	}
	for _, m := range got {
		if x, ok := want[m.Degrees]; !ok || x != m.X {
			t.Fatalf("unexpected mark %+v", m)
		}
	}
}

func TestHeadingMarks_OffsetHeading(t *testing.T) {
	s := Screen{Width: 720, Height: 480}

	for _, m := range s.HeadingMarks(45) {
		switch m.Degrees {
		case 0:
			if m.X != 270 {
				t.Fatalf("north x=%v want 270", m.X)
			}
		case 90:
			if m.X != 450 {
				t.Fatalf("east x=%v want 450", m.X)
			}
		}
	}
}

func TestLevelReference(t *testing.T) {
	s := Screen{Width: 1000, Height: 500}
	got := s.LevelReference()
	if len(got) != 3 {
		t.Fatalf("lines=%d", len(got))
	}
	if got[0].From.X != 400 || got[0].To.X != 600 || got[0].From.Y != 250 {
		t.Fatalf("waterline=%+v", got[0])
	}
	if got[1].To.X != 50 || got[2].From.X != 950 {
		t.Fatalf("edge ticks=%+v %+v", got[1], got[2])
	}
}
