package tracking

import "time"

// CameraThrottler rate-limits camera recenter commands so the ~8 Hz marker
// update path cannot pan the map on every fix.
type CameraThrottler struct {
	interval time.Duration
	lastMove time.Time
	moved    bool
}

func NewCameraThrottler(interval time.Duration) *CameraThrottler {
	return &CameraThrottler{interval: interval}
}

// ShouldMoveCamera is called once per accepted fix. It returns true at most
// once per interval and records the move time when it does.
func (c *CameraThrottler) ShouldMoveCamera(now time.Time) bool {
	if c.moved && now.Sub(c.lastMove) < c.interval {
		return false
	}
	c.lastMove = now
	c.moved = true
	return true
}
