package tracking

import "time"

const (
	defaultDistanceFilterMeters   = 2.0
	defaultSmoothingFactor        = 0.5
	defaultInterpolationFrames    = 45
	defaultInterpolationDuration  = 200 * time.Millisecond
	defaultCameraThrottleInterval = 2000 * time.Millisecond
)

// Config is fixed at controller construction and never mutated afterwards.
type Config struct {
	// DistanceFilterMeters is the minimum movement relative to the last
	// accepted fix; anything closer is treated as GPS noise.
	DistanceFilterMeters float64

	// SmoothingFactor is the EMA weight of the newest accepted fix,
	// 0 < factor <= 1. 1 disables smoothing.
	SmoothingFactor float64

	// InterpolationFrameCount is the number of display samples per
	// animation window.
	InterpolationFrameCount int

	// InterpolationDuration is the length of one animation window.
	InterpolationDuration time.Duration

	// CameraThrottleInterval is the minimum spacing between two camera
	// recenter signals.
	CameraThrottleInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		DistanceFilterMeters:    defaultDistanceFilterMeters,
		SmoothingFactor:         defaultSmoothingFactor,
		InterpolationFrameCount: defaultInterpolationFrames,
		InterpolationDuration:   defaultInterpolationDuration,
		CameraThrottleInterval:  defaultCameraThrottleInterval,
	}
}

// withDefaults replaces unset or out-of-range fields with the documented
// defaults so a zero Config behaves like DefaultConfig().
func (c Config) withDefaults() Config {
	if c.DistanceFilterMeters <= 0 {
		c.DistanceFilterMeters = defaultDistanceFilterMeters
	}
	if c.SmoothingFactor <= 0 || c.SmoothingFactor > 1 {
		c.SmoothingFactor = defaultSmoothingFactor
	}
	if c.InterpolationFrameCount <= 0 {
		c.InterpolationFrameCount = defaultInterpolationFrames
	}
	if c.InterpolationDuration <= 0 {
		c.InterpolationDuration = defaultInterpolationDuration
	}
	if c.CameraThrottleInterval <= 0 {
		c.CameraThrottleInterval = defaultCameraThrottleInterval
	}
	return c
}

// FramePeriod is the tick spacing of the animation loop.
func (c Config) FramePeriod() time.Duration {
	return c.InterpolationDuration / time.Duration(c.InterpolationFrameCount)
}
