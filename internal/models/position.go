package models

// PositionSample is a single location report from a subject's device
type PositionSample struct {
	ID             int64   `json:"id,omitempty" db:"id"`
	SubjectID      string  `json:"subjectId" db:"subject_id"`
	Timestamp      int64   `json:"timestamp" db:"ts"` // Unix timestamp in seconds
	Latitude       float64 `json:"latitude" db:"lat"`
	Longitude      float64 `json:"longitude" db:"lon"`
	AccuracyMeters float64 `json:"accuracyMeters" db:"acc"`
}

// StationaryResult is the derived stationary signal for a window of samples
type StationaryResult struct {
	IsStationary    bool  `json:"isStationary"`
	DurationSeconds int64 `json:"durationSeconds"`
}

// PoiDensity is the number of amenities near a coordinate.
// Fallback is set when the count is the conservative default after a failed lookup.
type PoiDensity struct {
	Count    int  `json:"count"`
	Fallback bool `json:"fallback,omitempty"`
}
