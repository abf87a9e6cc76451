package tracking

import (
	"time"

	"github.com/lifeline-ops/ambutrack/pkg/geo"
)

// interpState is the animation state of the marker.
type interpState int

const (
	// stateIdle: no target has ever been set.
	stateIdle interpState = iota
	// stateAnimating: a frame loop is advancing the display position.
	stateAnimating
	// stateSettled: display position equals the current target, the frame
	// loop is stopped until the next retarget.
	stateSettled
)

// Interpolator animates the display position toward the latest smoothed
// target over a fixed window with ease-in-out timing. It is a plain state
// machine: the owning controller drives Step from timer ticks and
// serializes all access, so there is no locking here.
type Interpolator struct {
	duration time.Duration

	state     interpState
	display   geo.Coordinate
	start     geo.Coordinate
	target    geo.Coordinate
	startedAt time.Time
}

func NewInterpolator(duration time.Duration, initial geo.Coordinate) *Interpolator {
	return &Interpolator{
		duration: duration,
		display:  initial,
	}
}

// Retarget points the animation at a new target and reports whether a
// frame loop is now needed.
//
// The first target ever seen snaps the display position (no motion on the
// first fix). Any later retarget captures the current display position as
// the start of a fresh full-duration window, so a retarget mid-animation
// continues from the currently interpolated position instead of jumping
// back to the old start or forward to the old target.
func (it *Interpolator) Retarget(target geo.Coordinate, now time.Time) bool {
	switch it.state {
	case stateIdle:
		it.display = target
		it.target = target
		it.state = stateSettled
		return false

	case stateSettled:
		if target == it.display {
			return false
		}
	}

	it.start = it.display
	it.target = target
	it.startedAt = now
	it.state = stateAnimating
	return true
}

// Step advances the display position for the frame at time now. It returns
// the new display position and whether the animation has settled (the
// caller stops ticking on true).
func (it *Interpolator) Step(now time.Time) (geo.Coordinate, bool) {
	if it.state != stateAnimating {
		return it.display, true
	}

	t := float64(now.Sub(it.startedAt)) / float64(it.duration)
	if t >= 1.0 {
		// final frame lands on the target exactly
		it.display = it.target
		it.state = stateSettled
		return it.display, true
	}
	if t < 0 {
		t = 0
	}

	e := easeInOut(t)
	it.display = geo.NewCoordinate(
		it.start.Lat+e*(it.target.Lat-it.start.Lat),
		it.start.Lon+e*(it.target.Lon-it.start.Lon),
	)
	return it.display, false
}

// Display returns the current render-ready position.
func (it *Interpolator) Display() geo.Coordinate {
	return it.display
}

// Animating reports whether a frame loop should be running.
func (it *Interpolator) Animating() bool {
	return it.state == stateAnimating
}

// Target returns the current animation destination.
func (it *Interpolator) Target() geo.Coordinate {
	return it.target
}

// easeInOut is a monotonic cubic ease-in-out curve on [0,1] with
// eased(0)=0, eased(1)=1 and zero velocity at both endpoints.
func easeInOut(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}
