package tracking

import (
	"github.com/lifeline-ops/ambutrack/pkg/geo"
)

// ExponentialSmoother suppresses residual jitter on accepted fixes with a
// per-axis exponential moving average. Its only state is the last smoothed
// value; it resets only when the owning controller is re-created.
type ExponentialSmoother struct {
	factor   float64
	smoothed *geo.Coordinate
}

func NewExponentialSmoother(factor float64) *ExponentialSmoother {
	return &ExponentialSmoother{factor: factor}
}

// Smooth blends the accepted fix with the previous smoothed value. The
// first accepted fix passes through unchanged (bootstrap identity).
func (s *ExponentialSmoother) Smooth(fix geo.Coordinate) geo.Coordinate {
	if s.smoothed == nil {
		out := fix
		s.smoothed = &out
		return out
	}

	out := geo.NewCoordinate(
		s.factor*fix.Lat+(1-s.factor)*s.smoothed.Lat,
		s.factor*fix.Lon+(1-s.factor)*s.smoothed.Lon,
	)
	s.smoothed = &out
	return out
}

// Last returns the current smoothed value, nil before the first fix.
func (s *ExponentialSmoother) Last() *geo.Coordinate {
	return s.smoothed
}
