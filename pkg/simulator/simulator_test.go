package simulator

import (
	"testing"
	"time"

	"github.com/lifeline-ops/ambutrack/pkg/clock"
	"github.com/lifeline-ops/ambutrack/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ~2.2 km straight line due east at the equator
func straightRoute() []geo.Coordinate {
	return []geo.Coordinate{
		geo.NewCoordinate(0, 0),
		geo.NewCoordinate(0, 0.01),
		geo.NewCoordinate(0, 0.02),
	}
}

func TestSimulatorEmitsFirstWaypointImmediately(t *testing.T) {
	clk := clock.NewManual(time.Unix(0, 0))
	sim, err := New(straightRoute(), Options{}, clk, zap.NewNop())
	require.NoError(t, err)

	var fixes []geo.Coordinate
	require.NoError(t, sim.Start(func(c geo.Coordinate) { fixes = append(fixes, c) }))
	defer sim.Stop()

	require.Len(t, fixes, 1)
	assert.Equal(t, geo.NewCoordinate(0, 0), fixes[0])
}

func TestSimulatorAdvancesAtConfiguredSpeed(t *testing.T) {
	clk := clock.NewManual(time.Unix(0, 0))
	sim, err := New(straightRoute(), Options{SpeedKmh: 36, StepInterval: time.Second}, clk, zap.NewNop())
	require.NoError(t, err)

	var fixes []geo.Coordinate
	require.NoError(t, sim.Start(func(c geo.Coordinate) { fixes = append(fixes, c) }))
	defer sim.Stop()

	// 36 km/h = 10 m/s, so 10 ticks cover ~100 m
	clk.Advance(10 * time.Second)

	require.Len(t, fixes, 11)
	traveled := geo.HaversineDistance(fixes[0], fixes[len(fixes)-1])
	assert.InDelta(t, 100.0, traveled, 1.0, "10 s at 10 m/s must cover ~100 m")

	// consecutive fixes are monotonic along the eastward route
	for i := 1; i < len(fixes); i++ {
		assert.GreaterOrEqual(t, fixes[i].Lon, fixes[i-1].Lon)
	}
}

func TestSimulatorCrossesWaypoints(t *testing.T) {
	clk := clock.NewManual(time.Unix(0, 0))
	// 1112 m per segment; 100 m per tick crosses the first waypoint
	// on the 12th tick
	sim, err := New(straightRoute(), Options{SpeedKmh: 360, StepInterval: time.Second}, clk, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, sim.Start(func(geo.Coordinate) {}))
	defer sim.Stop()

	clk.Advance(12 * time.Second)
	assert.Equal(t, 1, sim.State().RouteIndex, "simulator must hop to the next segment")
}

func TestSimulatorArrivesAndStops(t *testing.T) {
	clk := clock.NewManual(time.Unix(0, 0))

	arrived := false
	sim, err := New(straightRoute(),
		Options{SpeedKmh: 360, StepInterval: time.Second, OnArrive: func() { arrived = true }},
		clk, zap.NewNop())
	require.NoError(t, err)

	var last geo.Coordinate
	require.NoError(t, sim.Start(func(c geo.Coordinate) { last = c }))

	// route is ~2224 m; 100 m/tick arrives well within 30 ticks
	clk.Advance(30 * time.Second)

	assert.False(t, sim.Running(), "simulator must stop on arrival")
	assert.True(t, arrived, "OnArrive must fire once")
	assert.Equal(t, geo.NewCoordinate(0, 0.02), last, "arrival snaps to the destination")

	// no further fixes after arrival
	state := sim.State()
	clk.Advance(10 * time.Second)
	assert.Equal(t, state.Position, sim.State().Position)
	assert.Equal(t, 0.0, sim.State().SpeedKmh, "stopped simulator reports zero speed")
}

func TestSimulatorLoopWraps(t *testing.T) {
	clk := clock.NewManual(time.Unix(0, 0))
	sim, err := New(straightRoute(), Options{SpeedKmh: 360, StepInterval: time.Second, Loop: true}, clk, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, sim.Start(func(geo.Coordinate) {}))
	defer sim.Stop()

	// full circuit is ~4.4 km out and back; run well past one lap
	clk.Advance(60 * time.Second)
	assert.True(t, sim.Running(), "looping simulator never arrives")
}

func TestSimulatorStopPreventsFurtherFixes(t *testing.T) {
	clk := clock.NewManual(time.Unix(0, 0))
	sim, err := New(straightRoute(), Options{}, clk, zap.NewNop())
	require.NoError(t, err)

	var fixes int
	require.NoError(t, sim.Start(func(geo.Coordinate) { fixes++ }))
	clk.Advance(time.Second)
	sim.Stop()
	sim.Stop() // idempotent

	before := fixes
	clk.Advance(10 * time.Second)
	assert.Equal(t, before, fixes, "no fix may be emitted after Stop")
}

func TestSimulatorRejectsBadRoutes(t *testing.T) {
	clk := clock.NewManual(time.Unix(0, 0))

	_, err := New([]geo.Coordinate{geo.NewCoordinate(0, 0)}, Options{}, clk, zap.NewNop())
	assert.Error(t, err, "single-waypoint route")

	_, err = New([]geo.Coordinate{geo.NewCoordinate(0, 0), geo.NewCoordinate(0, 0)}, Options{}, clk, zap.NewNop())
	assert.Error(t, err, "zero-length route")

	_, err = New([]geo.Coordinate{geo.NewCoordinate(95, 0), geo.NewCoordinate(0, 0)}, Options{}, clk, zap.NewNop())
	assert.Error(t, err, "out-of-range waypoint")
}

func TestSimulatorDoubleStartConflicts(t *testing.T) {
	clk := clock.NewManual(time.Unix(0, 0))
	sim, err := New(straightRoute(), Options{}, clk, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, sim.Start(func(geo.Coordinate) {}))
	defer sim.Stop()
	assert.Error(t, sim.Start(func(geo.Coordinate) {}))
}

func TestRouteCatalog(t *testing.T) {
	names := RouteNames()
	require.NotEmpty(t, names)

	route, loop, err := RouteByName("default_city_loop")
	require.NoError(t, err)
	assert.True(t, loop)
	assert.Len(t, route, 7)

	_, _, err = RouteByName("no_such_route")
	assert.Error(t, err)
}

func TestRoutePolylineRoundTrip(t *testing.T) {
	route, _, err := RouteByName("hospital_to_center")
	require.NoError(t, err)

	decoded, err := DecodeRoute(EncodeRoute(route))
	require.NoError(t, err)
	require.Len(t, decoded, len(route))
	for i := range route {
		assert.InDelta(t, route[i].Lat, decoded[i].Lat, 1e-5)
		assert.InDelta(t, route[i].Lon, decoded[i].Lon, 1e-5)
	}
}

func TestDecodeRouteRejectsGarbage(t *testing.T) {
	_, err := DecodeRoute("!!!not-a-polyline")
	assert.Error(t, err)
}
