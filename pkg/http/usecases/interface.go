package usecases

import (
	"github.com/lifeline-ops/ambutrack/pkg/fleet"
	"github.com/lifeline-ops/ambutrack/pkg/geo"
	"github.com/lifeline-ops/ambutrack/pkg/simulator"
	"github.com/lifeline-ops/ambutrack/pkg/tracking"
)

type FleetManager interface {
	PushFix(id string, fix geo.Coordinate) error
	StartSimulation(id string, route []geo.Coordinate, opts simulator.Options) error
	StopSimulation(id string) error
	State(id string) (fleet.Snapshot, error)
	Within(minLat, minLon, maxLat, maxLon float64) []fleet.Snapshot
	Subscribe(id string, fn tracking.Observer) (func(), error)
	SubscribeCamera(id string, fn tracking.CameraFunc) (func(), error)
	Remove(id string) error
}
