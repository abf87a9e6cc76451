package simulator

import (
	"github.com/lifeline-ops/ambutrack/pkg/geo"
	"github.com/lifeline-ops/ambutrack/pkg/util"
	"github.com/twpayne/go-polyline"
)

// Built-in demo routes, keyed by name. Waypoints are ordered driving
// positions; the simulator interpolates between them.
var routes = map[string][]geo.Coordinate{
	"default_city_loop": {
		geo.NewCoordinate(13.0827, 80.2707),
		geo.NewCoordinate(13.0835, 80.2720),
		geo.NewCoordinate(13.0842, 80.2735),
		geo.NewCoordinate(13.0850, 80.2750),
		geo.NewCoordinate(13.0860, 80.2765),
		geo.NewCoordinate(13.0870, 80.2780),
		geo.NewCoordinate(13.0880, 80.2795),
	},
	"hospital_to_center": {
		geo.NewCoordinate(13.0500, 80.2500),
		geo.NewCoordinate(13.0550, 80.2550),
		geo.NewCoordinate(13.0600, 80.2600),
		geo.NewCoordinate(13.0650, 80.2650),
		geo.NewCoordinate(13.0700, 80.2700),
		geo.NewCoordinate(13.0750, 80.2720),
		geo.NewCoordinate(13.0800, 80.2740),
	},
}

// loopingRoutes are circuits: the vehicle wraps back to the first waypoint
// instead of arriving at the last one.
var loopingRoutes = map[string]bool{
	"default_city_loop": true,
}

// RouteByName returns the named built-in route.
func RouteByName(name string) ([]geo.Coordinate, bool, error) {
	route, ok := routes[name]
	if !ok {
		return nil, false, util.WrapErrorf(nil, util.ErrNotFound, "route %q not found", name)
	}
	return route, loopingRoutes[name], nil
}

// RouteNames lists the built-in route catalog.
func RouteNames() []string {
	names := make([]string, 0, len(routes))
	for name := range routes {
		names = append(names, name)
	}
	return names
}

// EncodeRoute encodes waypoints as a Google encoded polyline.
func EncodeRoute(route []geo.Coordinate) string {
	coords := make([][]float64, len(route))
	for i, c := range route {
		coords[i] = []float64{c.Lat, c.Lon}
	}
	return string(polyline.EncodeCoords(coords))
}

// DecodeRoute decodes an encoded polyline into waypoints, rejecting
// malformed input and out-of-range coordinates.
func DecodeRoute(encoded string) ([]geo.Coordinate, error) {
	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "invalid route polyline")
	}

	route := make([]geo.Coordinate, len(coords))
	for i, c := range coords {
		route[i] = geo.NewCoordinate(c[0], c[1])
		if !route[i].Valid() {
			return nil, util.WrapErrorf(nil, util.ErrBadParamInput,
				"route waypoint %d out of range: %v", i, route[i])
		}
	}
	return route, nil
}
