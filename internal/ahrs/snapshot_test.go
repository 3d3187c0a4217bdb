package ahrs

import (
	"math"
	"testing"
)

func TestSnapshot_HeadingFallsBackToGPS(t *testing.T) {
	cases := []struct {
		name    string
		compass float64
		want    float64
	}{
		{name: "Valid", compass: 123.4, want: 123.4},
		{name: "Zero", compass: 0, want: 0},
		{name: "ExactlyFullCircle", compass: 360, want: 360},
		{name: "Negative", compass: -1, want: 271},
		{name: "AboveRange", compass: 3276.7, want: 271},
		{name: "NaN", compass: math.NaN(), want: 271},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := Snapshot{CompassHeadingDeg: tc.compass, GPSHeadingDeg: 271}
			if got := s.Heading(); got != tc.want {
				t.Fatalf("got=%v want=%v", got, tc.want)
			}
			if got := s.CompassValid(); got != (tc.want != 271) {
				t.Fatalf("CompassValid=%v", got)
			}
		})
	}
}

func TestSnapshot_HeadingTracksFieldChanges(t *testing.T) {
	s := Snapshot{CompassHeadingDeg: 400, GPSHeadingDeg: 90}
	if got := s.Heading(); got != 90 {
		t.Fatalf("got=%v want=90", got)
	}
	s.CompassHeadingDeg = 45
	if got := s.Heading(); got != 45 {
		t.Fatalf("got=%v want=45", got)
	}
}
