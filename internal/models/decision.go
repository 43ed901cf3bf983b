package models

// Decision triggers
const (
	TriggerLocation = "location"
	TriggerVoice    = "voice"
	TriggerManual   = "manual"
	TriggerDirect   = "direct"
)

// DecisionRecord is one audited risk decision
type DecisionRecord struct {
	ID        string  `json:"id" db:"id"`
	SubjectID string  `json:"subjectId" db:"subject_id"`
	Timestamp int64   `json:"timestamp" db:"ts"`
	Trigger   string  `json:"trigger" db:"trigger_source"`
	Action    string  `json:"action" db:"action"`
	Reason    string  `json:"reason" db:"reason"`
	Evidence  string  `json:"evidence" db:"evidence"`
	Latitude  float64 `json:"latitude" db:"lat"`
	Longitude float64 `json:"longitude" db:"lon"`
	CreatedAt string  `json:"createdAt,omitempty" db:"created_at"`
}

// DecisionFilter represents filter parameters for querying decisions
type DecisionFilter struct {
	SubjectID string `form:"subject_id"`
	Action    string `form:"action"`
	StartTime int64  `form:"startTime"`
	EndTime   int64  `form:"endTime"`
	Page      int    `form:"page"`
	PageSize  int    `form:"pageSize"`
}

// DecisionsResponse represents a paginated response of decisions
type DecisionsResponse struct {
	Data       []DecisionRecord `json:"data"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	TotalPages int              `json:"totalPages"`
}
