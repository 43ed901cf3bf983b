// Package risk implements the decision core: a priority-ordered rule cascade
// that fuses voice distress, stationary time, time of day and POI density into
// NONE, NOTIFY or AUTO_SOS with an evidence trail.
package risk

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Engine evaluates risk. It holds no mutable state and is safe for concurrent use.
type Engine struct {
	th      Thresholds
	density DensityProbe
	rules   []Rule
	now     func() time.Time
	logger  *zap.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the engine logger
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithNow sets the clock used when an input carries no timestamp
func WithNow(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an engine with fixed thresholds
func NewEngine(th Thresholds, density DensityProbe, opts ...Option) *Engine {
	e := &Engine{
		th:      th,
		density: density,
		rules:   buildRules(th),
		now:     time.Now,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Thresholds returns the engine's thresholds
func (e *Engine) Thresholds() Thresholds {
	return e.th
}

// Rules returns the cascade in priority order
func (e *Engine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Evaluate runs the cascade once. It never panics: an internal fault yields
// NONE with reason engine_fault so the caller's monitoring path keeps running.
func (e *Engine) Evaluate(ctx context.Context, in Input) (decision Decision) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Risk evaluation fault",
				zap.String("subject_id", in.SubjectID),
				zap.Any("panic", r),
			)
			decision = Decision{Action: ActionNone, Reason: ReasonEngineFault}
			decision.Evidence.Add("fault", fmt.Sprint(r))
		}
	}()

	if in.Timestamp == 0 {
		in.Timestamp = e.now().Unix()
	}

	ev := newEvaluation(ctx, e.th, e.density, in)
	for _, rule := range e.rules {
		if !rule.Match(ev) {
			continue
		}
		decision = Decision{Action: rule.Action, Reason: rule.Reason}
		if !rule.DropEvidence {
			decision.Evidence = ev.evidence
		}
		break
	}

	e.logger.Debug("Risk evaluated",
		zap.String("subject_id", in.SubjectID),
		zap.String("action", string(decision.Action)),
		zap.String("reason", string(decision.Reason)),
		zap.String("evidence", decision.Evidence.String()),
	)
	return decision
}
