package tracking

import (
	"sync"

	"github.com/lifeline-ops/ambutrack/pkg/clock"
	"github.com/lifeline-ops/ambutrack/pkg/geo"
	"go.uber.org/zap"
)

// DisplayState is the externally observable marker state: the currently
// rendered position and the bearing in degrees, [0,360).
type DisplayState struct {
	Position geo.Coordinate `json:"position"`
	Bearing  float64        `json:"bearing"`
}

// Observer receives a DisplayState snapshot on every interpolation frame
// and on every accepted fix. Observers must not call back into the
// controller synchronously.
type Observer func(DisplayState)

// CameraFunc receives the throttled "recenter camera here" signal.
type CameraFunc func(geo.Coordinate)

// Controller turns noisy discrete fixes into a continuously smooth display
// position: fix -> distance filter -> EMA smoother -> bearing tracker ->
// interpolation frame loop -> observers. One Controller tracks one vehicle;
// track a fleet by instantiating one per vehicle.
//
// All mutation serializes on one mutex, mirroring a single event loop:
// UpdatePosition, frame ticks and Dispose never interleave mid-change.
type Controller struct {
	mu  sync.Mutex
	log *zap.Logger
	clk clock.Clock
	cfg Config

	filter   DistanceFilter
	smoother *ExponentialSmoother
	bearings *BearingTracker
	interp   *Interpolator
	camera   *CameraThrottler

	lastAccepted *geo.Coordinate
	bearing      float64

	frameTimer clock.Timer
	disposed   bool

	nextSubID int
	subs      map[int]Observer
	onCamera  CameraFunc
}

// NewController seeds the display state to initial with bearing 0 and
// applies documented defaults to any unset Config field.
func NewController(initial geo.Coordinate, cfg Config, clk clock.Clock, log *zap.Logger) *Controller {
	cfg = cfg.withDefaults()
	return &Controller{
		log:      log,
		clk:      clk,
		cfg:      cfg,
		filter:   NewDistanceFilter(cfg.DistanceFilterMeters),
		smoother: NewExponentialSmoother(cfg.SmoothingFactor),
		bearings: NewBearingTracker(),
		interp:   NewInterpolator(cfg.InterpolationDuration, initial),
		camera:   NewCameraThrottler(cfg.CameraThrottleInterval),
		subs:     make(map[int]Observer),
	}
}

// OnCameraMove registers the camera recenter sink. At most one is active.
func (c *Controller) OnCameraMove(fn CameraFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onCamera = fn
}

// Subscribe registers an observer of the display state and returns its
// unsubscribe function.
func (c *Controller) Subscribe(fn Observer) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return func() {}
	}

	id := c.nextSubID
	c.nextSubID++
	c.subs[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

// UpdatePosition feeds one raw fix through the pipeline. Malformed and
// sub-threshold fixes are discarded without observable effect; calls after
// Dispose are no-ops.
func (c *Controller) UpdatePosition(fix geo.Coordinate) {
	c.mu.Lock()

	if c.disposed {
		c.mu.Unlock()
		return
	}

	if !fix.Valid() {
		c.mu.Unlock()
		c.log.Warn("rejecting malformed fix",
			zap.Float64("lat", fix.Lat),
			zap.Float64("lon", fix.Lon))
		return
	}

	if !c.filter.Accept(c.lastAccepted, fix) {
		c.mu.Unlock()
		return
	}
	accepted := fix
	c.lastAccepted = &accepted

	now := c.clk.Now()
	target := c.smoother.Smooth(fix)
	c.bearing = c.bearings.Update(target)

	if c.interp.Retarget(target, now) && c.frameTimer == nil {
		c.frameTimer = c.clk.AfterFunc(c.cfg.FramePeriod(), c.frameTick)
	}

	moveCamera := c.camera.ShouldMoveCamera(now)
	state := DisplayState{Position: c.interp.Display(), Bearing: c.bearing}
	observers := c.observersLocked()
	cameraFn := c.onCamera
	c.mu.Unlock()

	for _, fn := range observers {
		fn(state)
	}
	if moveCamera && cameraFn != nil {
		cameraFn(target)
	}
}

// frameTick runs once per frame period while an animation is in flight.
// A new fix arriving mid-animation retargets without disturbing this
// cadence; the chain only stops when the animation settles or the
// controller is disposed.
func (c *Controller) frameTick() {
	c.mu.Lock()

	// A tick that fired before Dispose could stop it must not touch
	// disposed state.
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.frameTimer = nil

	pos, settled := c.interp.Step(c.clk.Now())
	if !settled {
		c.frameTimer = c.clk.AfterFunc(c.cfg.FramePeriod(), c.frameTick)
	}

	state := DisplayState{Position: pos, Bearing: c.bearing}
	observers := c.observersLocked()
	c.mu.Unlock()

	for _, fn := range observers {
		fn(state)
	}
}

func (c *Controller) observersLocked() []Observer {
	if len(c.subs) == 0 {
		return nil
	}
	out := make([]Observer, 0, len(c.subs))
	for _, fn := range c.subs {
		out = append(out, fn)
	}
	return out
}

// DisplayPosition returns the currently rendered position.
func (c *Controller) DisplayPosition() geo.Coordinate {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interp.Display()
}

// BearingDegrees returns the currently rendered bearing.
func (c *Controller) BearingDegrees() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bearing
}

// State returns the display position and bearing as one snapshot.
func (c *Controller) State() DisplayState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return DisplayState{Position: c.interp.Display(), Bearing: c.bearing}
}

// Dispose cancels the frame loop and drops all observers. It is idempotent,
// and once it returns no frame tick can mutate or publish state: ticks
// serialize on the controller mutex and check the disposed flag first.
func (c *Controller) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return
	}
	c.disposed = true

	if c.frameTimer != nil {
		c.frameTimer.Stop()
		c.frameTimer = nil
	}
	c.subs = nil
	c.onCamera = nil
}

// Disposed reports whether Dispose has been called.
func (c *Controller) Disposed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disposed
}
