package spatial

import (
	"github.com/golang/geo/s2"
)

// CellLevel returns the finest S2 level whose cells are at least sizeM wide
func CellLevel(sizeM float64) int {
	return s2.MinWidthMetric.MaxLevel(sizeM / EarthRadiusMeters)
}

// CellToken returns the token of the S2 cell of roughly sizeM containing the point
func CellToken(lat, lon, sizeM float64) string {
	return s2.CellIDFromLatLng(s2.LatLngFromDegrees(lat, lon)).Parent(CellLevel(sizeM)).ToToken()
}
