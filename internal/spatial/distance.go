package spatial

import (
	"github.com/golang/geo/s2"
)

// EarthRadiusMeters is the mean Earth radius used for all distance math
const EarthRadiusMeters = 6371000.0

// HaversineDistance calculates the great-circle distance between two points in meters.
// s2.LatLng.Distance uses the haversine formula, so coincident points give 0 and
// antipodal points stay numerically stable.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}
