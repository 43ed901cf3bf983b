// Package clock classifies instants into local day and night under a fixed UTC offset.
package clock

import (
	"time"
)

// Local hours bounding the night window: [NightEndHour, NightStartHour) is day
const (
	NightStartHour = 20
	NightEndHour   = 6
)

// FixedZone returns a zone for a UTC offset in hours; fractional offsets such as +5.5 are kept
func FixedZone(tzOffsetHours float64) *time.Location {
	return time.FixedZone("", int(tzOffsetHours*3600))
}

// LocalHour returns the hour of day of t under the given offset
func LocalHour(t time.Time, tzOffsetHours float64) int {
	return t.In(FixedZone(tzOffsetHours)).Hour()
}

// IsNight reports whether the local hour is before 06:00 or at/after 20:00.
// No DST handling; the offset is fixed per deployment.
func IsNight(t time.Time, tzOffsetHours float64) bool {
	hour := LocalHour(t, tzOffsetHours)
	return hour < NightEndHour || hour >= NightStartHour
}
