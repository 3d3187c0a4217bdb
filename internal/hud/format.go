package hud

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"stratux-hud/internal/ahrs"
	"stratux-hud/internal/traffic"
)

type DistanceUnits string

const (
	UnitsStatute DistanceUnits = "statute"
	UnitsKnots   DistanceUnits = "knots"
	UnitsMetric  DistanceUnits = "metric"
)

const (
	feetPerNm    = 6076.12
	feetPerSm    = 5280.0
	feetPerKm    = 3280.84
	feetPerMeter = 3.28084

	// Below this, imperial distances are shown in feet.
	nearbyFeet = 3000.0
)

// DistanceText renders a distance in the configured units.
func DistanceText(feet float64, units DistanceUnits) string {
	if units == UnitsMetric {
		km := feet / feetPerKm
		if km > 0.5 {
			return fmt.Sprintf("%.1fkm", km)
		}
		return humanize.Comma(int64(math.Round(feet/feetPerMeter))) + "m"
	}
	if feet < nearbyFeet {
		return humanize.Comma(int64(math.Round(feet))) + "'"
	}
	if units == UnitsKnots {
		return fmt.Sprintf("%.1fNM", feet/feetPerNm)
	}
	return fmt.Sprintf("%.1fSM", feet/feetPerSm)
}

// AltitudeDeltaText is a signed feet difference, e.g. "+1,500'".
func AltitudeDeltaText(deltaFeet int) string {
	sign := ""
	if deltaFeet > 0 {
		sign = "+"
	}
	return sign + humanize.Comma(int64(deltaFeet)) + "'"
}

// TrafficRows lists contacts as aligned identifier, bearing, distance and
// altitude-delta columns.
func TrafficRows(o ahrs.Snapshot, reports []traffic.Report, units DistanceUnits) []string {
	if len(reports) == 0 {
		return nil
	}
	ownAlt := 0.0
	if o.AltitudeValid {
		ownAlt = o.AltitudeFeet
	}

	cells := make([][4]string, 0, len(reports))
	var widths [4]int
	for _, r := range reports {
		row := [4]string{
			r.Identifier(),
			fmt.Sprintf("%.0f", r.BearingDeg),
			DistanceText(r.DistanceFeet, units),
			AltitudeDeltaText(int(r.AltitudeFeet - ownAlt)),
		}
		for i, c := range row {
			widths[i] = max(widths[i], len(c))
		}
		cells = append(cells, row)
	}

	out := make([]string, 0, len(cells))
	for _, row := range cells {
		out = append(out, strings.Join([]string{
			padRight(row[0], widths[0]),
			padLeft(row[1], widths[1]),
			padLeft(row[2], widths[2]),
			padLeft(row[3], widths[3]),
		}, " "))
	}
	return out
}

// HeadingText is "compass / gps", with "---" for an unusable compass.
func HeadingText(o ahrs.Snapshot) string {
	compass := "---"
	if o.CompassValid() {
		compass = fmt.Sprintf("%d", int(o.CompassHeadingDeg))
	}
	return fmt.Sprintf("%s / %d", compass, int(o.GPSHeadingDeg))
}

func AltitudeText(o ahrs.Snapshot) string {
	if !o.AltitudeValid {
		return "---' MSL"
	}
	return humanize.Comma(int64(o.AltitudeFeet)) + "' MSL"
}

func GLoadText(o ahrs.Snapshot) string {
	return fmt.Sprintf("%.1fGs", o.GLoad)
}

// RollText is the bank magnitude in whole degrees.
func RollText(o ahrs.Snapshot) string {
	return fmt.Sprintf("%d", int(math.Abs(o.RollDeg)))
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}
