package traffic

import (
	"encoding/json"
	"strings"
	"time"
)

// trafficInfo is one message from the Stratux /traffic websocket. Pointer
// fields distinguish "absent" from zero.
type trafficInfo struct {
	IcaoAddr         uint32   `json:"Icao_addr"`
	Tail             *string  `json:"Tail"`
	PositionValid    bool     `json:"Position_valid"`
	Lat              *float64 `json:"Lat"`
	Lng              *float64 `json:"Lng"`
	Alt              *float64 `json:"Alt"`
	SpeedValid       bool     `json:"Speed_valid"`
	Speed            *float64 `json:"Speed"`
	Track            *float64 `json:"Track"`
	BearingDistValid bool     `json:"BearingDist_valid"`
	Bearing          *float64 `json:"Bearing"`
	// Distance is in meters.
	Distance *float64 `json:"Distance"`
}

// ParseTrafficInfo decodes one Stratux traffic message. A report counts as
// positioned only when Stratux supplied both a position and a bearing and
// distance from ownship.
func ParseTrafficInfo(raw []byte, now time.Time) (Report, bool) {
	var msg trafficInfo
	if err := json.Unmarshal(raw, &msg); err != nil {
		return Report{}, false
	}
	icao, ok := normalizeICAO(msg.IcaoAddr)
	if !ok {
		return Report{}, false
	}

	r := Report{ICAO: icao, SeenAt: now}
	if msg.Tail != nil {
		r.Tail = strings.ToUpper(strings.TrimSpace(*msg.Tail))
	}
	if msg.Alt != nil {
		r.AltitudeFeet = *msg.Alt
	}
	if msg.SpeedValid {
		if msg.Speed != nil {
			r.SpeedKt = *msg.Speed
		}
		if msg.Track != nil {
			r.TrackDeg = *msg.Track
		}
	}
	hasPosition := msg.PositionValid && msg.Lat != nil && msg.Lng != nil
	if hasPosition {
		r.LatDeg = *msg.Lat
		r.LonDeg = *msg.Lng
	}
	if msg.BearingDistValid && msg.Bearing != nil && msg.Distance != nil && *msg.Distance > 0 {
		r.BearingDeg = *msg.Bearing
		r.DistanceFeet = *msg.Distance * feetPerMeter
		r.PositionValid = hasPosition
	}
	return r, true
}

// normalizeICAO strips the Stratux non-ICAO flag bit and rejects the
// all-zero and all-ones sentinels.
func normalizeICAO(addr uint32) (uint32, bool) {
	if addr == 0 || addr == 0x07FFFFFF {
		return 0, false
	}
	addr &= 0x00FFFFFF
	if addr == 0 {
		return 0, false
	}
	return addr, true
}
