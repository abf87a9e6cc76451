package controllers

import (
	"github.com/lifeline-ops/ambutrack/pkg/fleet"
	"github.com/lifeline-ops/ambutrack/pkg/http/usecases"
	"github.com/lifeline-ops/ambutrack/pkg/tracking"
)

type TrackingService interface {
	PushFix(id string, lat, lon float64) error
	StartSimulation(id, routeName, encodedPolyline string, speedKmh, stepSeconds float64) error
	StopSimulation(id string) error
	VehicleState(id string) (fleet.Snapshot, error)
	VehiclesWithin(minLat, minLon, maxLat, maxLon float64) []fleet.Snapshot
	Routes() []usecases.RouteInfo
	RemoveVehicle(id string) error
	Subscribe(id string, fn tracking.Observer) (func(), error)
	SubscribeCamera(id string, fn tracking.CameraFunc) (func(), error)
}
