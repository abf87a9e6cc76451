package geo

import (
	"github.com/golang/geo/s2"
)

// InterpolateAlongSegment returns the point at fraction f (0.0 to 1.0)
// along the great-circle segment (from, to).
func InterpolateAlongSegment(from, to Coordinate, f float64) Coordinate {
	if f <= 0 {
		return from
	}
	if f >= 1 {
		return to
	}

	fromS2 := s2.PointFromLatLng(s2.LatLngFromDegrees(from.Lat, from.Lon))
	toS2 := s2.PointFromLatLng(s2.LatLngFromDegrees(to.Lat, to.Lon))

	p := s2.Interpolate(f, fromS2, toS2)
	latLng := s2.LatLngFromPoint(p)
	return NewCoordinate(latLng.Lat.Degrees(), latLng.Lng.Degrees())
}
