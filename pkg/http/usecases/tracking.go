package usecases

import (
	"sort"
	"time"

	"github.com/lifeline-ops/ambutrack/pkg/fleet"
	"github.com/lifeline-ops/ambutrack/pkg/geo"
	"github.com/lifeline-ops/ambutrack/pkg/simulator"
	"github.com/lifeline-ops/ambutrack/pkg/tracking"
	"github.com/lifeline-ops/ambutrack/pkg/util"
	"go.uber.org/zap"
)

type TrackingService struct {
	log   *zap.Logger
	fleet FleetManager
}

func NewTrackingService(log *zap.Logger, fleet FleetManager) *TrackingService {
	return &TrackingService{
		log:   log,
		fleet: fleet,
	}
}

// RouteInfo describes one entry of the built-in route catalog.
type RouteInfo struct {
	Name      string `json:"name"`
	Polyline  string `json:"polyline"`
	Waypoints int    `json:"waypoints"`
	Loop      bool   `json:"loop"`
}

func (ts *TrackingService) PushFix(id string, lat, lon float64) error {
	return ts.fleet.PushFix(id, geo.NewCoordinate(lat, lon))
}

// StartSimulation starts a route playback for the vehicle. Exactly one of
// routeName or encodedPolyline selects the route; a custom polyline never
// loops.
func (ts *TrackingService) StartSimulation(id, routeName, encodedPolyline string,
	speedKmh, stepSeconds float64) error {

	var (
		route []geo.Coordinate
		loop  bool
		err   error
	)
	switch {
	case routeName != "" && encodedPolyline != "":
		return util.WrapErrorf(nil, util.ErrBadParamInput,
			"route_name and polyline are mutually exclusive")
	case encodedPolyline != "":
		route, err = simulator.DecodeRoute(encodedPolyline)
	default:
		if routeName == "" {
			routeName = "default_city_loop"
		}
		route, loop, err = simulator.RouteByName(routeName)
	}
	if err != nil {
		return err
	}

	opts := simulator.Options{
		SpeedKmh:     speedKmh,
		StepInterval: time.Duration(stepSeconds * float64(time.Second)),
		Loop:         loop,
		OnArrive: func() {
			ts.log.Info("vehicle arrived at destination", zap.String("vehicle_id", id))
		},
	}
	return ts.fleet.StartSimulation(id, route, opts)
}

func (ts *TrackingService) StopSimulation(id string) error {
	return ts.fleet.StopSimulation(id)
}

func (ts *TrackingService) VehicleState(id string) (fleet.Snapshot, error) {
	return ts.fleet.State(id)
}

func (ts *TrackingService) VehiclesWithin(minLat, minLon, maxLat, maxLon float64) []fleet.Snapshot {
	return ts.fleet.Within(minLat, minLon, maxLat, maxLon)
}

func (ts *TrackingService) Routes() []RouteInfo {
	names := simulator.RouteNames()
	sort.Strings(names)

	out := make([]RouteInfo, 0, len(names))
	for _, name := range names {
		route, loop, err := simulator.RouteByName(name)
		if err != nil {
			continue
		}
		out = append(out, RouteInfo{
			Name:      name,
			Polyline:  simulator.EncodeRoute(route),
			Waypoints: len(route),
			Loop:      loop,
		})
	}
	return out
}

// RemoveVehicle tears down the vehicle's controller and simulation and
// drops it from the spatial index.
func (ts *TrackingService) RemoveVehicle(id string) error {
	return ts.fleet.Remove(id)
}

func (ts *TrackingService) Subscribe(id string, fn tracking.Observer) (func(), error) {
	return ts.fleet.Subscribe(id, fn)
}

func (ts *TrackingService) SubscribeCamera(id string, fn tracking.CameraFunc) (func(), error) {
	return ts.fleet.SubscribeCamera(id, fn)
}
