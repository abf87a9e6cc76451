package tracking

import (
	"github.com/lifeline-ops/ambutrack/pkg/geo"
)

// stationaryEpsilonMeters is the movement below which two consecutive
// smoothed targets count as coincident. Guards the forward-azimuth
// formula, which is undefined for identical points, and keeps the marker
// from spinning while the vehicle idles.
const stationaryEpsilonMeters = 0.1

// BearingTracker derives the marker rotation from consecutive smoothed
// targets, holding the last valid bearing while the vehicle is stopped.
// Before any movement the bearing is 0 (north).
type BearingTracker struct {
	prevTarget *geo.Coordinate
	last       float64
}

func NewBearingTracker() *BearingTracker {
	return &BearingTracker{last: 0}
}

// Update records newTarget and returns the bearing to render.
func (b *BearingTracker) Update(newTarget geo.Coordinate) float64 {
	if b.prevTarget == nil {
		t := newTarget
		b.prevTarget = &t
		return b.last
	}

	if geo.HaversineDistance(*b.prevTarget, newTarget) < stationaryEpsilonMeters {
		t := newTarget
		b.prevTarget = &t
		return b.last
	}

	b.last = geo.BearingTo(b.prevTarget.Lat, b.prevTarget.Lon, newTarget.Lat, newTarget.Lon)
	t := newTarget
	b.prevTarget = &t
	return b.last
}

// Bearing returns the last computed bearing in degrees, [0,360).
func (b *BearingTracker) Bearing() float64 {
	return b.last
}
