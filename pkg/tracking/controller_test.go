package tracking

import (
	"testing"
	"time"

	"github.com/lifeline-ops/ambutrack/pkg/clock"
	"github.com/lifeline-ops/ambutrack/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestController(t *testing.T) (*Controller, *clock.Manual) {
	t.Helper()
	clk := clock.NewManual(time.Unix(0, 0))
	c := NewController(geo.NewCoordinate(0, 0), DefaultConfig(), clk, zap.NewNop())
	t.Cleanup(c.Dispose)
	return c, clk
}

func TestControllerFirstFixSnapsDisplay(t *testing.T) {
	c, _ := newTestController(t)

	fix := geo.NewCoordinate(13.0827, 80.2707)
	c.UpdatePosition(fix)

	assert.Equal(t, fix, c.DisplayPosition(), "first fix must seed the display without animation")
	assert.Equal(t, 0.0, c.BearingDegrees(), "bearing before any movement must stay north")
}

func TestControllerNoiseIsIdempotent(t *testing.T) {
	c, clk := newTestController(t)

	c.UpdatePosition(geo.NewCoordinate(0, 0))
	before := c.State()

	// ~1.1 m of jitter, under the 2 m filter
	for i := 0; i < 20; i++ {
		c.UpdatePosition(geo.NewCoordinate(0, 0.00001))
		clk.Advance(10 * time.Millisecond)
	}

	assert.Equal(t, before, c.State(), "sub-threshold fixes must produce no observable change")
}

func TestControllerMalformedFixRejected(t *testing.T) {
	c, _ := newTestController(t)

	c.UpdatePosition(geo.NewCoordinate(1, 1))
	before := c.State()

	c.UpdatePosition(geo.NewCoordinate(91.0, 0))
	c.UpdatePosition(geo.NewCoordinate(0, -181.0))

	assert.Equal(t, before, c.State(), "malformed fixes must leave the display state unchanged")
}

func TestControllerAnimatesTowardSmoothedTarget(t *testing.T) {
	c, clk := newTestController(t)

	c.UpdatePosition(geo.NewCoordinate(0, 0))
	c.UpdatePosition(geo.NewCoordinate(0, 0.0002))

	// smoothed target with factor 0.5 is halfway: lon 0.0001
	clk.Advance(DefaultConfig().InterpolationDuration + 20*time.Millisecond)

	got := c.DisplayPosition()
	assert.InDelta(t, 0.0001, got.Lon, 1e-12, "display must converge on the smoothed target exactly")
	assert.InDelta(t, 90.0, c.BearingDegrees(), 1e-6, "moving due east must rotate the marker to 90")
}

func TestControllerObserverSeesContinuousMotion(t *testing.T) {
	c, clk := newTestController(t)

	var frames []DisplayState
	c.Subscribe(func(s DisplayState) { frames = append(frames, s) })

	c.UpdatePosition(geo.NewCoordinate(0, 0))
	c.UpdatePosition(geo.NewCoordinate(0, 0.0002))
	clk.Advance(100 * time.Millisecond)

	// retarget mid-animation
	c.UpdatePosition(geo.NewCoordinate(0, 0.0004))
	clk.Advance(DefaultConfig().InterpolationDuration + 20*time.Millisecond)

	require.Greater(t, len(frames), 10, "observer must be notified per frame")

	cfg := DefaultConfig()
	windowMeters := geo.HaversineDistance(geo.NewCoordinate(0, 0), geo.NewCoordinate(0, 0.0004))
	maxFrameDelta := windowMeters * 1.5 / float64(cfg.InterpolationFrameCount) * 1.05
	for i := 1; i < len(frames); i++ {
		delta := geo.HaversineDistance(frames[i-1].Position, frames[i].Position)
		assert.LessOrEqualf(t, delta, maxFrameDelta,
			"frame %d teleported %.3f m", i, delta)
	}
}

func TestControllerUnsubscribeStopsNotifications(t *testing.T) {
	c, clk := newTestController(t)

	calls := 0
	unsubscribe := c.Subscribe(func(DisplayState) { calls++ })
	c.UpdatePosition(geo.NewCoordinate(0, 0))
	require.Equal(t, 1, calls)

	unsubscribe()
	c.UpdatePosition(geo.NewCoordinate(0, 0.001))
	clk.Advance(time.Second)
	assert.Equal(t, 1, calls, "no notification may arrive after unsubscribe")
}

func TestControllerCameraThrottled(t *testing.T) {
	c, clk := newTestController(t)

	var cameraMoves []geo.Coordinate
	c.OnCameraMove(func(p geo.Coordinate) { cameraMoves = append(cameraMoves, p) })

	// ~8 Hz accepted fixes for 5 seconds, all real movement
	lon := 0.0
	for i := 0; i < 40; i++ {
		lon += 0.0001
		c.UpdatePosition(geo.NewCoordinate(0, lon))
		clk.Advance(125 * time.Millisecond)
	}

	// 5 s window with a 2 s throttle allows at most floor(5/2)+1 moves
	require.NotEmpty(t, cameraMoves)
	assert.LessOrEqual(t, len(cameraMoves), 3, "camera signal must be throttled")
}

func TestControllerCameraScenario(t *testing.T) {
	// spec scenario: (0,0) -> (0,0.00002) -> (0,0.00005) in rapid
	// succession: both later fixes accepted, two EMA applications, one
	// camera move inside one throttle interval.
	c, clk := newTestController(t)

	var cameraMoves int
	c.OnCameraMove(func(geo.Coordinate) { cameraMoves++ })

	c.UpdatePosition(geo.NewCoordinate(0, 0))
	clk.Advance(10 * time.Millisecond)
	c.UpdatePosition(geo.NewCoordinate(0, 0.00002))
	clk.Advance(10 * time.Millisecond)
	c.UpdatePosition(geo.NewCoordinate(0, 0.00005))

	clk.Advance(time.Second)
	assert.InDelta(t, 0.00003, c.DisplayPosition().Lon, 1e-12,
		"two EMA applications with factor 0.5: 0.5*0.00005 + 0.5*0.00001")
	assert.Equal(t, 1, cameraMoves, "rapid fixes within one throttle interval move the camera once")
}

func TestControllerDisposeIsTerminal(t *testing.T) {
	c, clk := newTestController(t)

	var frames int
	c.Subscribe(func(DisplayState) { frames++ })

	c.UpdatePosition(geo.NewCoordinate(0, 0))
	c.UpdatePosition(geo.NewCoordinate(0, 0.001))
	clk.Advance(50 * time.Millisecond) // animation in flight

	before := c.State()
	framesBefore := frames

	c.Dispose()
	c.Dispose() // idempotent

	clk.Advance(time.Second) // pending frame timers must not run
	c.UpdatePosition(geo.NewCoordinate(1, 1))

	assert.Equal(t, before, c.State(), "post-dispose updates must be no-ops")
	assert.Equal(t, framesBefore, frames, "no frame callback may execute after Dispose returns")
	assert.True(t, c.Disposed())
}

func TestControllerZeroConfigGetsDefaults(t *testing.T) {
	clk := clock.NewManual(time.Unix(0, 0))
	c := NewController(geo.NewCoordinate(0, 0), Config{}, clk, zap.NewNop())
	defer c.Dispose()

	c.UpdatePosition(geo.NewCoordinate(0, 0))
	// ~1.1 m is under the default 2 m filter
	c.UpdatePosition(geo.NewCoordinate(0, 0.00001))
	assert.Equal(t, 0.0, c.DisplayPosition().Lon, "default distance filter must apply to a zero Config")
}
