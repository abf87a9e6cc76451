package controllers

import (
	"github.com/lifeline-ops/ambutrack/pkg/fleet"
	"github.com/lifeline-ops/ambutrack/pkg/tracking"
)

type pushFixRequest struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lon float64 `json:"lon" validate:"min=-180,max=180"`
}

type startSimulationRequest struct {
	RouteName   string  `json:"route_name" validate:"omitempty,max=64"`
	Polyline    string  `json:"polyline" validate:"omitempty,max=16384"`
	SpeedKmh    float64 `json:"speed_kmh" validate:"omitempty,gt=0,lte=300"`
	StepSeconds float64 `json:"step_seconds" validate:"omitempty,gt=0,lte=60"`
}

type viewportRequest struct {
	MinLat float64 `json:"min_lat" validate:"min=-90,max=90"`
	MinLon float64 `json:"min_lon" validate:"min=-180,max=180"`
	MaxLat float64 `json:"max_lat" validate:"min=-90,max=90,gtefield=MinLat"`
	MaxLon float64 `json:"max_lon" validate:"min=-180,max=180,gtefield=MinLon"`
}

type vehicleResponse struct {
	VehicleID  string            `json:"vehicle_id"`
	Lat        float64           `json:"lat"`
	Lon        float64           `json:"lon"`
	Bearing    float64           `json:"bearing"`
	Simulation *simulationStatus `json:"simulation,omitempty"`
}

type simulationStatus struct {
	Running          bool    `json:"is_running"`
	SpeedKmh         float64 `json:"speed_kmh"`
	RouteIndex       int     `json:"route_index"`
	DistanceTraveled float64 `json:"distance_traveled_meters"`
}

func NewVehicleResponse(snap fleet.Snapshot) vehicleResponse {
	resp := vehicleResponse{
		VehicleID: snap.VehicleID,
		Lat:       snap.Position.Lat,
		Lon:       snap.Position.Lon,
		Bearing:   snap.Bearing,
	}
	if snap.Simulation != nil {
		resp.Simulation = &simulationStatus{
			Running:          snap.Simulation.Running,
			SpeedKmh:         snap.Simulation.SpeedKmh,
			RouteIndex:       snap.Simulation.RouteIndex,
			DistanceTraveled: snap.Simulation.DistanceTraveled,
		}
	}
	return resp
}

func NewVehicleResponses(snaps []fleet.Snapshot) []vehicleResponse {
	out := make([]vehicleResponse, len(snaps))
	for i, snap := range snaps {
		out[i] = NewVehicleResponse(snap)
	}
	return out
}

// stream message types pushed over the WebSocket

type frameMessage struct {
	Type      string  `json:"type"`
	VehicleID string  `json:"vehicle_id"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Bearing   float64 `json:"bearing"`
}

func newFrameMessage(vehicleID string, state tracking.DisplayState) frameMessage {
	return frameMessage{
		Type:      "frame",
		VehicleID: vehicleID,
		Lat:       state.Position.Lat,
		Lon:       state.Position.Lon,
		Bearing:   state.Bearing,
	}
}

type cameraMessage struct {
	Type      string  `json:"type"`
	VehicleID string  `json:"vehicle_id"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
}
