package traffic

import (
	"fmt"
	"strings"
	"time"
)

const feetPerMeter = 3.28084

// Report is one traffic contact as seen from ownship.
type Report struct {
	ICAO uint32
	Tail string

	LatDeg       float64
	LonDeg       float64
	AltitudeFeet float64
	TrackDeg     float64
	SpeedKt      float64

	// BearingDeg is true bearing from ownship; DistanceFeet is slant-free
	// ground distance. Both are meaningful only when PositionValid is set.
	BearingDeg    float64
	DistanceFeet  float64
	PositionValid bool

	SeenAt time.Time
}

// Identifier is the tail number when known, else the ICAO address in hex.
func (r Report) Identifier() string {
	if tail := strings.TrimSpace(r.Tail); tail != "" {
		return tail
	}
	return fmt.Sprintf("%06X", r.ICAO&0xFFFFFF)
}
