package risk

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jengzang/guardian-backend-go/internal/models"
)

// Action is the bounded outcome of one evaluation
type Action string

const (
	ActionNone    Action = "NONE"
	ActionNotify  Action = "NOTIFY"
	ActionAutoSOS Action = "AUTO_SOS"
)

// Valid reports whether a is one of the three actions
func (a Action) Valid() bool {
	switch a {
	case ActionNone, ActionNotify, ActionAutoSOS:
		return true
	}
	return false
}

// Severity orders actions so callers can compare them
func (a Action) Severity() int {
	switch a {
	case ActionNotify:
		return 1
	case ActionAutoSOS:
		return 2
	default:
		return 0
	}
}

// Reason is the code naming the rule that produced a decision
type Reason string

const (
	ReasonVoiceDistress         Reason = "voice_distress"
	ReasonStationaryNightLowPOI Reason = "stationary_night_low_poi"
	ReasonStationary            Reason = "stationary"
	ReasonPossibleVoice         Reason = "possible_voice"
	ReasonOK                    Reason = "ok"
	ReasonEngineFault           Reason = "engine_fault"
)

// Thresholds are fixed for the lifetime of an Engine
type Thresholds struct {
	VoiceDistress     float64 // voice_prob at or above this is distress
	WeakVoice         float64 // voice_prob above this is worth a notification
	StationarySeconds int64
	MaxIsolatedPOI    int // POI counts at or below this are isolated
	POIRadiusM        float64
	TZOffsetHours     float64
}

// DefaultThresholds returns the stock deployment thresholds
func DefaultThresholds() Thresholds {
	return Thresholds{
		VoiceDistress:     0.60,
		WeakVoice:         0.20,
		StationarySeconds: 180,
		MaxIsolatedPOI:    3,
		POIRadiusM:        200,
		TZOffsetHours:     5.5,
	}
}

// Input carries every signal available for one evaluation
type Input struct {
	SubjectID         string   `json:"subject_id"`
	Latitude          float64  `json:"lat"`
	Longitude         float64  `json:"lon"`
	StationarySeconds int64    `json:"stationary_seconds"`
	Timestamp         int64    `json:"ts"` // unix seconds, 0 means now
	VoiceProb         *float64 `json:"voice_prob,omitempty"`
}

// Evidence is the ordered list of facts behind a decision
type Evidence struct {
	facts []string
}

// Add appends key=value
func (e *Evidence) Add(key string, value interface{}) {
	e.facts = append(e.facts, fmt.Sprintf("%s=%v", key, value))
}

// Facts returns a copy of the recorded facts
func (e Evidence) Facts() []string {
	out := make([]string, len(e.facts))
	copy(out, e.facts)
	return out
}

// Empty reports whether no facts were recorded
func (e Evidence) Empty() bool {
	return len(e.facts) == 0
}

// String joins facts with ';' in recording order
func (e Evidence) String() string {
	return strings.Join(e.facts, ";")
}

// MarshalJSON encodes evidence as its audit string
func (e Evidence) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

// Decision is the sole output of the engine
type Decision struct {
	Action   Action   `json:"action"`
	Reason   Reason   `json:"reason"`
	Evidence Evidence `json:"evidence"`
}

// DensityProbe answers how many amenities surround a point. Implementations
// must not fail; lookup errors are already collapsed into a conservative count.
type DensityProbe interface {
	Density(ctx context.Context, lat, lon, radiusM float64) models.PoiDensity
}

// DensityFunc adapts a function to DensityProbe
type DensityFunc func(ctx context.Context, lat, lon, radiusM float64) models.PoiDensity

// Density calls f
func (f DensityFunc) Density(ctx context.Context, lat, lon, radiusM float64) models.PoiDensity {
	return f(ctx, lat, lon, radiusM)
}
