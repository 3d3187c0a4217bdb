package hud

import (
	"stratux-hud/internal/ahrs"
	"stratux-hud/internal/traffic"
)

// Frame is everything the renderer needs to draw one HUD frame. When
// Available is false only Cross is populated.
type Frame struct {
	Screen    Screen `json:"screen"`
	Available bool   `json:"available"`
	Cross     []Line `json:"cross,omitempty"`

	RollDeg float64 `json:"roll_deg"`

	Level        []Line        `json:"level,omitempty"`
	Ladder       []LadderLine  `json:"ladder,omitempty"`
	HeadingMarks []HeadingMark `json:"heading_marks,omitempty"`

	HeadingText  string `json:"heading_text,omitempty"`
	AltitudeText string `json:"altitude_text,omitempty"`
	GLoadText    string `json:"g_load_text,omitempty"`
	RollText     string `json:"roll_text,omitempty"`

	TrafficRows []string    `json:"traffic_rows,omitempty"`
	Targets     []Placement `json:"targets,omitempty"`
}

// Compose builds a frame. Reports without a valid position are skipped.
func Compose(s Screen, o ahrs.Snapshot, available bool, reports []traffic.Report, units DistanceUnits) Frame {
	f := Frame{Screen: s, Available: available}
	if !available {
		w, h := float64(s.Width), float64(s.Height)
		f.Cross = []Line{
			{From: Point{X: 0, Y: 0}, To: Point{X: w, Y: h}},
			{From: Point{X: 0, Y: h}, To: Point{X: w, Y: 0}},
		}
		return f
	}

	f.RollDeg = o.RollDeg
	f.Level = s.LevelReference()
	f.Ladder = s.PitchLadder(o.PitchDeg, o.RollDeg)
	f.HeadingMarks = s.HeadingMarks(o.Heading())
	f.HeadingText = HeadingText(o)
	f.AltitudeText = AltitudeText(o)
	f.GLoadText = GLoadText(o)
	f.RollText = RollText(o)

	positioned := make([]traffic.Report, 0, len(reports))
	for _, r := range reports {
		if r.PositionValid {
			positioned = append(positioned, r)
		}
	}
	f.TrafficRows = TrafficRows(o, positioned, units)
	for _, r := range positioned {
		f.Targets = append(f.Targets, s.PlaceTraffic(o, r))
	}
	return f
}
