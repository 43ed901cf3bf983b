package models

// Voice labels
const (
	VoiceLabelDistress = "distress"
	VoiceLabelNormal   = "normal"
)

// VoiceScore is the scorer's verdict on one audio clip
type VoiceScore struct {
	Probability float64 `json:"distress_prob"`
	Label       string  `json:"distress_label"`
}
