// Package ahrs acquires aircraft orientation from a live Stratux appliance or
// a simulator and publishes it as immutable snapshots for the render loop.
package ahrs

import (
	"math"
	"time"
)

// Snapshot is one complete orientation reading. Sources build a new value on
// every poll and replace the previous one whole.
type Snapshot struct {
	RollDeg  float64 `json:"roll_deg"`
	PitchDeg float64 `json:"pitch_deg"`

	CompassHeadingDeg float64 `json:"compass_heading_deg"`
	GPSHeadingDeg     float64 `json:"gps_heading_deg"`

	// AltitudeFeet is MSL; meaningless unless AltitudeValid.
	AltitudeFeet  float64 `json:"altitude_feet"`
	AltitudeValid bool    `json:"altitude_valid"`

	LatDeg           float64 `json:"lat_deg"`
	LonDeg           float64 `json:"lon_deg"`
	GroundSpeedKt    float64 `json:"ground_speed_kt"`
	VerticalSpeedFpm float64 `json:"vertical_speed_fpm"`
	GLoad            float64 `json:"g_load"`

	UpdatedAt time.Time `json:"updated_at"`
}

// CompassValid reports whether the magnetic/gyro heading is usable.
func (s Snapshot) CompassValid() bool {
	h := s.CompassHeadingDeg
	return !math.IsNaN(h) && h >= 0 && h <= 360
}

// Heading is the compass heading when valid, else the GPS track.
func (s Snapshot) Heading() float64 {
	if s.CompassValid() {
		return s.CompassHeadingDeg
	}
	return s.GPSHeadingDeg
}
