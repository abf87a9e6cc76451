package geo

import (
	"math"

	"github.com/lifeline-ops/ambutrack/pkg/util"
)

/*
BearingTo. initial bearing (forward azimuth) for the segment (p1,p2),
normalized to [0,360). Mathematically undefined for coincident points;
callers guard zero-distance pairs before calling.
https://www.movable-type.co.uk/scripts/latlong.html
*/
func BearingTo(p1Lat, p1Lon, p2Lat, p2Lon float64) float64 {

	dLon := util.DegreeToRadians(p2Lon - p1Lon)

	lat1 := util.DegreeToRadians(p1Lat)
	lat2 := util.DegreeToRadians(p2Lat)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) -
		math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	brng := math.Mod(util.RadiansToDegree(math.Atan2(y, x))+360, 360.0)

	return brng
}

// NormalizeBearing wraps an angle in degrees into [0,360).
func NormalizeBearing(deg float64) float64 {
	return math.Mod(math.Mod(deg, 360.0)+360.0, 360.0)
}
