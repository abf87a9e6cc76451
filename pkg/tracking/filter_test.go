package tracking

import (
	"testing"

	"github.com/lifeline-ops/ambutrack/pkg/geo"
)

func TestDistanceFilterFirstFixAlwaysAccepted(t *testing.T) {
	f := NewDistanceFilter(2.0)
	if !f.Accept(nil, geo.NewCoordinate(13.0827, 80.2707)) {
		t.Fatal("first fix of a session must always be accepted")
	}
}

func TestDistanceFilterThreshold(t *testing.T) {
	f := NewDistanceFilter(2.0)
	prev := geo.NewCoordinate(0, 0)

	testCases := []struct {
		name      string
		candidate geo.Coordinate
		want      bool
	}{
		// 0.00001 deg of longitude at the equator is ~1.1 m
		{name: "sub-threshold noise", candidate: geo.NewCoordinate(0, 0.00001), want: false},
		{name: "same point", candidate: geo.NewCoordinate(0, 0), want: false},
		// ~2.2 m, above the 2 m filter
		{name: "real movement", candidate: geo.NewCoordinate(0, 0.00002), want: true},
		{name: "large movement", candidate: geo.NewCoordinate(0.001, 0.001), want: true},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Accept(&prev, tt.candidate); got != tt.want {
				t.Errorf("Accept(%v) = %v, want %v", tt.candidate, got, tt.want)
			}
		})
	}
}

func TestDistanceFilterIsPure(t *testing.T) {
	f := NewDistanceFilter(2.0)
	prev := geo.NewCoordinate(0, 0)
	noise := geo.NewCoordinate(0, 0.00001)

	// repeated rejections never shift the reference point
	for i := 0; i < 10; i++ {
		if f.Accept(&prev, noise) {
			t.Fatal("sub-threshold fix must stay rejected on every call")
		}
	}
}
