// Package clock abstracts wall-clock reads and timer scheduling so the
// interpolation frame loop and the route simulator can be driven by
// simulated time in tests instead of real timers.
package clock

import "time"

type Clock interface {
	Now() time.Time
	// AfterFunc runs fn on its own goroutine after d has elapsed.
	AfterFunc(d time.Duration, fn func()) Timer
}

type Timer interface {
	// Stop prevents the callback from firing. It reports whether the
	// timer was still pending; a callback already started cannot be
	// un-run, callers guard against that with their own state.
	Stop() bool
}

type systemClock struct{}

// System returns the real wall-clock backed by package time.
func System() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
