package risk

import (
	"context"
	"strconv"
	"time"

	"github.com/jengzang/guardian-backend-go/internal/clock"
	"github.com/jengzang/guardian-backend-go/internal/models"
)

// Rule is one entry of the priority cascade. The first rule whose Match
// returns true decides the action.
type Rule struct {
	Reason Reason
	Action Action
	Match  func(ev *evaluation) bool
	// DropEvidence discards accumulated facts when this rule decides
	DropEvidence bool
}

// buildRules returns the cascade in priority order
func buildRules(th Thresholds) []Rule {
	return []Rule{
		{
			Reason: ReasonVoiceDistress,
			Action: ActionAutoSOS,
			Match: func(ev *evaluation) bool {
				p, ok := ev.voice()
				return ok && p >= th.VoiceDistress
			},
		},
		{
			Reason: ReasonStationaryNightLowPOI,
			Action: ActionAutoSOS,
			Match: func(ev *evaluation) bool {
				if !ev.stationary() {
					return false
				}
				night, poi := ev.surroundings()
				return night && poi <= th.MaxIsolatedPOI
			},
		},
		{
			Reason: ReasonStationary,
			Action: ActionNotify,
			Match: func(ev *evaluation) bool {
				if !ev.stationary() {
					return false
				}
				ev.surroundings()
				return true
			},
		},
		{
			Reason: ReasonPossibleVoice,
			Action: ActionNotify,
			Match: func(ev *evaluation) bool {
				p, ok := ev.voice()
				return ok && p > th.WeakVoice
			},
		},
		{
			Reason:       ReasonOK,
			Action:       ActionNone,
			Match:        func(*evaluation) bool { return true },
			DropEvidence: true,
		},
	}
}

// evaluation holds the lazily computed signals of a single Evaluate call.
// Every signal is computed at most once and recorded to evidence on first use,
// so evidence order follows evaluation order.
type evaluation struct {
	ctx      context.Context
	th       Thresholds
	density  DensityProbe
	in       Input
	evidence Evidence

	stationaryChecked bool
	isStationary      bool

	nightKnown bool
	night      bool

	poiKnown bool
	poi      models.PoiDensity
}

func newEvaluation(ctx context.Context, th Thresholds, density DensityProbe, in Input) *evaluation {
	ev := &evaluation{ctx: ctx, th: th, density: density, in: in}
	if in.VoiceProb != nil {
		ev.evidence.Add("voice_prob", strconv.FormatFloat(*in.VoiceProb, 'f', 2, 64))
	}
	return ev
}

func (ev *evaluation) voice() (float64, bool) {
	if ev.in.VoiceProb == nil {
		return 0, false
	}
	return *ev.in.VoiceProb, true
}

func (ev *evaluation) stationary() bool {
	if !ev.stationaryChecked {
		ev.stationaryChecked = true
		ev.isStationary = ev.in.StationarySeconds >= ev.th.StationarySeconds
		if ev.isStationary {
			ev.evidence.Add("stationary", strconv.FormatInt(ev.in.StationarySeconds, 10)+"s")
		}
	}
	return ev.isStationary
}

// surroundings resolves night first, then POI density; both are always
// recorded so a stationary decision is fully explained by its evidence.
func (ev *evaluation) surroundings() (bool, int) {
	if !ev.nightKnown {
		ev.nightKnown = true
		ev.night = clock.IsNight(time.Unix(ev.in.Timestamp, 0), ev.th.TZOffsetHours)
		ev.evidence.Add("night", ev.night)
	}
	if !ev.poiKnown {
		ev.poiKnown = true
		ev.poi = ev.density.Density(ev.ctx, ev.in.Latitude, ev.in.Longitude, ev.th.POIRadiusM)
		ev.evidence.Add("poi_count", ev.poi.Count)
	}
	return ev.night, ev.poi.Count
}
