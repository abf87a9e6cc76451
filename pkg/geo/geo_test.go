package geo

import (
	"math"
	"testing"
)

func TestHaversineDistanceEquator(t *testing.T) {
	// one degree of longitude at the equator is about 111.2 km
	a := NewCoordinate(0.0, 0.0)
	b := NewCoordinate(0.0, 1.0)

	got := HaversineDistance(a, b)
	want := 111195.0
	if math.Abs(got-want) > 50.0 {
		t.Errorf("HaversineDistance(%v, %v) = %v, want %v +- 50m", a, b, got, want)
	}
}

func TestHaversineDistanceSymmetric(t *testing.T) {
	a := NewCoordinate(13.0827, 80.2707)
	b := NewCoordinate(13.0500, 80.2500)

	ab := HaversineDistance(a, b)
	ba := HaversineDistance(b, a)
	if math.Abs(ab-ba) > 1e-9 {
		t.Errorf("distance not symmetric: %v vs %v", ab, ba)
	}
	if ab <= 0 {
		t.Errorf("distance between distinct points must be positive, got %v", ab)
	}
	if HaversineDistance(a, a) > 1e-9 {
		t.Errorf("distance to self must be zero")
	}
}

func TestBearingTo(t *testing.T) {
	testCases := []struct {
		name         string
		p1Lat, p1Lon float64
		p2Lat, p2Lon float64
		want         float64
		tolerance    float64
	}{
		{
			name:  "due east at equator",
			p1Lat: 0.0, p1Lon: 0.0,
			p2Lat: 0.0, p2Lon: 1.0,
			want:      90.0,
			tolerance: 1e-9,
		},
		{
			name:  "due north",
			p1Lat: 0.0, p1Lon: 0.0,
			p2Lat: 1.0, p2Lon: 0.0,
			want:      0.0,
			tolerance: 1e-9,
		},
		{
			name:  "due west at equator",
			p1Lat: 0.0, p1Lon: 1.0,
			p2Lat: 0.0, p2Lon: 0.0,
			want:      270.0,
			tolerance: 1e-9,
		},
		{
			name:  "south west",
			p1Lat: 1.0, p1Lon: 1.0,
			p2Lat: 0.0, p2Lon: 0.0,
			want:      225.0,
			tolerance: 0.5,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got := BearingTo(tt.p1Lat, tt.p1Lon, tt.p2Lat, tt.p2Lon)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("BearingTo = %v, want %v", got, tt.want)
			}
			if got < 0 || got >= 360.0 {
				t.Errorf("bearing %v not normalized to [0,360)", got)
			}
		})
	}
}

func TestNormalizeBearing(t *testing.T) {
	testCases := []struct {
		in   float64
		want float64
	}{
		{in: 0, want: 0},
		{in: 360, want: 0},
		{in: 361, want: 1},
		{in: -90, want: 270},
		{in: 720.5, want: 0.5},
	}
	for _, tt := range testCases {
		if got := NormalizeBearing(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("NormalizeBearing(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCoordinateValid(t *testing.T) {
	testCases := []struct {
		name string
		c    Coordinate
		want bool
	}{
		{name: "origin", c: NewCoordinate(0, 0), want: true},
		{name: "poles", c: NewCoordinate(90, 180), want: true},
		{name: "lat too big", c: NewCoordinate(90.01, 0), want: false},
		{name: "lon too small", c: NewCoordinate(0, -180.5), want: false},
		{name: "nan lat", c: NewCoordinate(math.NaN(), 0), want: false},
		{name: "inf lon", c: NewCoordinate(0, math.Inf(1)), want: false},
	}
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Valid(); got != tt.want {
				t.Errorf("Valid(%v) = %v, want %v", tt.c, got, tt.want)
			}
		})
	}
}

func TestInterpolateAlongSegment(t *testing.T) {
	from := NewCoordinate(0.0, 0.0)
	to := NewCoordinate(0.0, 1.0)

	mid := InterpolateAlongSegment(from, to, 0.5)
	if math.Abs(mid.Lat-0.0) > 1e-6 || math.Abs(mid.Lon-0.5) > 1e-6 {
		t.Errorf("midpoint = %v, want (0, 0.5)", mid)
	}

	if got := InterpolateAlongSegment(from, to, 0.0); got != from {
		t.Errorf("f=0 must return the segment start, got %v", got)
	}
	if got := InterpolateAlongSegment(from, to, 1.0); got != to {
		t.Errorf("f=1 must return the segment end, got %v", got)
	}
}

func TestGetDestinationPoint(t *testing.T) {
	// 111.195 km due east from the origin lands one degree of longitude away
	lat, lon := GetDestinationPoint(0.0, 0.0, 90.0, 111195.0)
	if math.Abs(lat-0.0) > 1e-3 || math.Abs(lon-1.0) > 1e-3 {
		t.Errorf("destination = (%v, %v), want (0, 1)", lat, lon)
	}
}
