package tracking

import (
	"github.com/lifeline-ops/ambutrack/pkg/geo"
)

// DistanceFilter rejects fixes that moved less than minMoveMeters from the
// last accepted fix. It is a pure predicate: the caller advances the
// reference point only on acceptance, so a run of sub-threshold moves can
// never drift the reference.
type DistanceFilter struct {
	minMoveMeters float64
}

func NewDistanceFilter(minMoveMeters float64) DistanceFilter {
	return DistanceFilter{minMoveMeters: minMoveMeters}
}

// Accept reports whether candidate represents real movement. The first fix
// of a session (previous == nil) is always accepted.
func (f DistanceFilter) Accept(previous *geo.Coordinate, candidate geo.Coordinate) bool {
	if previous == nil {
		return true
	}
	return geo.HaversineDistance(*previous, candidate) >= f.minMoveMeters
}
