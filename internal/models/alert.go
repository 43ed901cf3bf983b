package models

// Alert types stored in the alerts table
const (
	AlertTypeSOS     = "SOS"
	AlertTypeAutoSOS = "AUTO_SOS"
	AlertTypeNotify  = "NOTIFY"
	AlertTypeVoice   = "VOICE"
	AlertTypeTest    = "TEST"
)

// Alert represents an alert row shown on the monitoring channel
type Alert struct {
	ID        int64    `json:"id" db:"id"`
	SubjectID string   `json:"subjectId" db:"subject_id"`
	Timestamp int64    `json:"timestamp" db:"ts"`
	Type      string   `json:"type" db:"type"`
	Summary   string   `json:"summary" db:"summary"`
	Evidence  string   `json:"evidence,omitempty" db:"evidence"`
	Latitude  *float64 `json:"latitude,omitempty" db:"lat"`
	Longitude *float64 `json:"longitude,omitempty" db:"lon"`
}
