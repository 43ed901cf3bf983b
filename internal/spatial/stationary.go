package spatial

import (
	"sort"

	"github.com/jengzang/guardian-backend-go/internal/models"
)

// Stationary detection defaults
const (
	DefaultStationaryWindow  = 10
	DefaultStationaryRadiusM = 15.0
)

// DetectStationary reports whether the most recent samples all lie within radiusM
// of the newest one, and for how long. Samples may arrive in any order; they are
// sorted by timestamp (stable, so duplicate timestamps keep insertion order).
// A single excursion outside the radius resets the signal to {false, 0}.
func DetectStationary(samples []models.PositionSample, maxWindow int, radiusM float64) models.StationaryResult {
	if maxWindow <= 0 {
		maxWindow = DefaultStationaryWindow
	}
	if radiusM <= 0 {
		radiusM = DefaultStationaryRadiusM
	}
	if len(samples) < 2 {
		return models.StationaryResult{}
	}

	ordered := make([]models.PositionSample, len(samples))
	copy(ordered, samples)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp < ordered[j].Timestamp
	})

	window := ordered
	if len(window) > maxWindow {
		window = window[len(window)-maxWindow:]
	}
	if len(window) < 2 {
		return models.StationaryResult{}
	}

	anchor := window[len(window)-1]
	for _, s := range window {
		if HaversineDistance(anchor.Latitude, anchor.Longitude, s.Latitude, s.Longitude) >= radiusM {
			return models.StationaryResult{}
		}
	}

	return models.StationaryResult{
		IsStationary:    true,
		DurationSeconds: anchor.Timestamp - window[0].Timestamp,
	}
}
