package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jengzang/guardian-backend-go/internal/alert"
	"github.com/jengzang/guardian-backend-go/internal/history"
	"github.com/jengzang/guardian-backend-go/internal/models"
	"github.com/jengzang/guardian-backend-go/internal/repository"
	"github.com/jengzang/guardian-backend-go/internal/risk"
	"github.com/jengzang/guardian-backend-go/internal/spatial"
	"github.com/jengzang/guardian-backend-go/internal/voice"
	"go.uber.org/zap"
)

// ErrInvalidInput marks requests rejected before any side effect
var ErrInvalidInput = errors.New("invalid input")

// ReasonManualSOS is the audit reason for a user-initiated SOS
const ReasonManualSOS = "manual_sos"

// Dependencies wires a MonitorService
type Dependencies struct {
	History    history.Store
	Alerts     *repository.AlertRepository
	Decisions  *repository.DecisionRepository
	Engine     *risk.Engine
	Dispatcher alert.Dispatcher
	Scorer     voice.Scorer

	StationaryWindow  int
	StationaryRadiusM float64
}

// MonitorService runs the monitoring pipeline: ingest, detect, evaluate,
// dispatch and audit
type MonitorService struct {
	history    history.Store
	alerts     *repository.AlertRepository
	decisions  *repository.DecisionRepository
	engine     *risk.Engine
	dispatcher alert.Dispatcher
	scorer     voice.Scorer
	window     int
	radiusM    float64
	now        func() time.Time
	logger     *zap.Logger
}

// NewMonitorService creates a new monitor service
func NewMonitorService(deps Dependencies, logger *zap.Logger) *MonitorService {
	if deps.StationaryWindow <= 0 {
		deps.StationaryWindow = spatial.DefaultStationaryWindow
	}
	if deps.StationaryRadiusM <= 0 {
		deps.StationaryRadiusM = spatial.DefaultStationaryRadiusM
	}
	if deps.Dispatcher == nil {
		deps.Dispatcher = alert.NewLogDispatcher(logger)
	}

	return &MonitorService{
		history:    deps.History,
		alerts:     deps.Alerts,
		decisions:  deps.Decisions,
		engine:     deps.Engine,
		dispatcher: deps.Dispatcher,
		scorer:     deps.Scorer,
		window:     deps.StationaryWindow,
		radiusM:    deps.StationaryRadiusM,
		now:        time.Now,
		logger:     logger,
	}
}

// Outcome is the result of one evaluated request
type Outcome struct {
	Stationary models.StationaryResult `json:"stationary"`
	Decision   risk.Decision           `json:"decision"`
	DecisionID string                  `json:"decisionId,omitempty"`
}

// VoiceRequest is an audio clip to score for a subject
type VoiceRequest struct {
	SubjectID string
	Filename  string
	Audio     []byte
	Latitude  *float64
	Longitude *float64
}

// VoiceOutcome is the scorer verdict plus the resulting decision
type VoiceOutcome struct {
	models.VoiceScore
	Outcome
}

func validCoordinates(lat, lon float64) bool {
	return !math.IsNaN(lat) && !math.IsNaN(lon) &&
		lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// IngestLocation stores a position report and evaluates the subject. Only a
// failed append is returned as an error; every later problem degrades to NONE.
func (s *MonitorService) IngestLocation(ctx context.Context, sample models.PositionSample) (*Outcome, error) {
	if sample.SubjectID == "" {
		return nil, fmt.Errorf("%w: subject_id is required", ErrInvalidInput)
	}
	if !validCoordinates(sample.Latitude, sample.Longitude) {
		return nil, fmt.Errorf("%w: coordinates out of range", ErrInvalidInput)
	}
	if sample.Timestamp == 0 {
		sample.Timestamp = s.now().Unix()
	}

	if err := s.history.Append(ctx, &sample); err != nil {
		return nil, fmt.Errorf("failed to store position sample: %w", err)
	}

	stationary := s.stationary(ctx, sample.SubjectID)
	decision := s.engine.Evaluate(ctx, risk.Input{
		SubjectID:         sample.SubjectID,
		Latitude:          sample.Latitude,
		Longitude:         sample.Longitude,
		StationarySeconds: stationary.DurationSeconds,
		Timestamp:         sample.Timestamp,
	})

	out := &Outcome{Stationary: stationary, Decision: decision}
	s.act(ctx, sample.SubjectID, sample.Timestamp, &sample.Latitude, &sample.Longitude, decision)
	out.DecisionID = s.audit(ctx, models.TriggerLocation, sample.SubjectID, sample.Timestamp, sample.Latitude, sample.Longitude, decision)
	return out, nil
}

// ScoreVoice scores an audio clip, logs the inference and evaluates the
// subject with the resulting probability
func (s *MonitorService) ScoreVoice(ctx context.Context, req VoiceRequest) (*VoiceOutcome, error) {
	if req.SubjectID == "" {
		return nil, fmt.Errorf("%w: subject_id is required", ErrInvalidInput)
	}
	if len(req.Audio) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, voice.ErrEmptyAudio)
	}
	if s.scorer == nil {
		return nil, voice.ErrScorerUnavailable
	}

	p, err := s.scorer.Score(ctx, req.Filename, req.Audio)
	if err != nil {
		return nil, err
	}

	label := models.VoiceLabelNormal
	if p >= s.engine.Thresholds().VoiceDistress {
		label = models.VoiceLabelDistress
	}
	ts := s.now().Unix()

	samples := s.recent(ctx, req.SubjectID)
	stationary := spatial.DetectStationary(samples, s.window, s.radiusM)

	lat, lon := req.Latitude, req.Longitude
	if (lat == nil || lon == nil) && len(samples) > 0 {
		last := samples[len(samples)-1]
		lat, lon = &last.Latitude, &last.Longitude
	}

	s.recordAlert(ctx, &models.Alert{
		SubjectID: req.SubjectID,
		Timestamp: ts,
		Type:      models.AlertTypeVoice,
		Summary:   fmt.Sprintf("Voice inference for %s: %s (p=%.2f)", req.SubjectID, label, p),
		Latitude:  lat,
		Longitude: lon,
	})

	in := risk.Input{
		SubjectID:         req.SubjectID,
		StationarySeconds: stationary.DurationSeconds,
		Timestamp:         ts,
		VoiceProb:         &p,
	}
	if lat != nil && lon != nil {
		in.Latitude, in.Longitude = *lat, *lon
	}
	decision := s.engine.Evaluate(ctx, in)
	s.act(ctx, req.SubjectID, ts, lat, lon, decision)

	return &VoiceOutcome{
		VoiceScore: models.VoiceScore{Probability: p, Label: label},
		Outcome: Outcome{
			Stationary: stationary,
			Decision:   decision,
			DecisionID: s.audit(ctx, models.TriggerVoice, req.SubjectID, ts, in.Latitude, in.Longitude, decision),
		},
	}, nil
}

// TriggerSOS handles a manual SOS. It always alerts at AUTO_SOS severity.
func (s *MonitorService) TriggerSOS(ctx context.Context, subjectID string, lat, lon *float64) (*models.Alert, error) {
	if subjectID == "" {
		return nil, fmt.Errorf("%w: subject_id is required", ErrInvalidInput)
	}
	if lat != nil && lon != nil && !validCoordinates(*lat, *lon) {
		return nil, fmt.Errorf("%w: coordinates out of range", ErrInvalidInput)
	}

	ts := s.now().Unix()
	a := &models.Alert{
		SubjectID: subjectID,
		Timestamp: ts,
		Type:      models.AlertTypeSOS,
		Summary:   fmt.Sprintf("SOS from %s at %s (ts=%d).", subjectID, formatPosition(lat, lon), ts),
		Latitude:  lat,
		Longitude: lon,
	}
	if err := s.alerts.Create(ctx, a); err != nil {
		return nil, err
	}

	s.dispatch(ctx, alert.Alert{
		Severity:  alert.SeverityAutoSOS,
		SubjectID: subjectID,
		Summary:   a.Summary,
		Latitude:  lat,
		Longitude: lon,
		Timestamp: ts,
	})

	var auditLat, auditLon float64
	if lat != nil && lon != nil {
		auditLat, auditLon = *lat, *lon
	}
	s.writeAudit(ctx, &models.DecisionRecord{
		SubjectID: subjectID,
		Timestamp: ts,
		Trigger:   models.TriggerManual,
		Action:    string(risk.ActionAutoSOS),
		Reason:    ReasonManualSOS,
		Latitude:  auditLat,
		Longitude: auditLon,
	})
	return a, nil
}

// Evaluate runs the engine on caller-supplied signals. The decision is
// audited but not dispatched.
func (s *MonitorService) Evaluate(ctx context.Context, in risk.Input) (*Outcome, error) {
	if in.SubjectID == "" {
		return nil, fmt.Errorf("%w: subject_id is required", ErrInvalidInput)
	}
	if !validCoordinates(in.Latitude, in.Longitude) {
		return nil, fmt.Errorf("%w: coordinates out of range", ErrInvalidInput)
	}
	if in.StationarySeconds < 0 {
		return nil, fmt.Errorf("%w: stationary_seconds must not be negative", ErrInvalidInput)
	}
	if in.VoiceProb != nil && (*in.VoiceProb < 0 || *in.VoiceProb > 1) {
		return nil, fmt.Errorf("%w: voice_prob must be within [0,1]", ErrInvalidInput)
	}
	if in.Timestamp == 0 {
		in.Timestamp = s.now().Unix()
	}

	decision := s.engine.Evaluate(ctx, in)
	return &Outcome{
		Stationary: models.StationaryResult{IsStationary: in.StationarySeconds > 0, DurationSeconds: in.StationarySeconds},
		Decision:   decision,
		DecisionID: s.audit(ctx, models.TriggerDirect, in.SubjectID, in.Timestamp, in.Latitude, in.Longitude, decision),
	}, nil
}

// Stationary returns the detector result over the subject's recent history
func (s *MonitorService) Stationary(ctx context.Context, subjectID string) (models.StationaryResult, error) {
	samples, err := s.history.Recent(ctx, subjectID, s.window)
	if err != nil {
		return models.StationaryResult{}, fmt.Errorf("failed to read position history: %w", err)
	}
	return spatial.DetectStationary(samples, s.window, s.radiusM), nil
}

// RecentAlerts returns the newest alerts first
func (s *MonitorService) RecentAlerts(ctx context.Context, limit int) ([]models.Alert, error) {
	return s.alerts.ListRecent(ctx, limit)
}

// RecentDecisions returns audited decisions with filtering and pagination
func (s *MonitorService) RecentDecisions(ctx context.Context, filter models.DecisionFilter) ([]models.DecisionRecord, int64, error) {
	return s.decisions.List(ctx, filter)
}

// GetDecision returns one audited decision
func (s *MonitorService) GetDecision(ctx context.Context, id string) (*models.DecisionRecord, error) {
	return s.decisions.GetByID(ctx, id)
}

// ExportDecisions returns the decisions matching filter for export
func (s *MonitorService) ExportDecisions(ctx context.Context, filter models.DecisionFilter) ([]models.DecisionRecord, error) {
	return s.decisions.ListForExport(ctx, filter)
}

// TestAlert sends a test message through the dispatch chain. Unlike the
// pipeline paths it reports the dispatch error to the caller.
func (s *MonitorService) TestAlert(ctx context.Context) error {
	ts := s.now().Unix()
	a := alert.Alert{
		Severity:  alert.SeverityInfo,
		SubjectID: "system",
		Summary:   "✅ Test alert from guardian backend is working!",
		Timestamp: ts,
	}
	if err := s.dispatcher.Dispatch(ctx, a); err != nil {
		return fmt.Errorf("failed to dispatch test alert: %w", err)
	}
	s.recordAlert(ctx, &models.Alert{SubjectID: a.SubjectID, Timestamp: ts, Type: models.AlertTypeTest, Summary: a.Summary})
	return nil
}

func (s *MonitorService) recent(ctx context.Context, subjectID string) []models.PositionSample {
	samples, err := s.history.Recent(ctx, subjectID, s.window)
	if err != nil {
		s.logger.Warn("Position history unavailable",
			zap.String("subject_id", subjectID),
			zap.Error(err),
		)
		return nil
	}
	return samples
}

func (s *MonitorService) stationary(ctx context.Context, subjectID string) models.StationaryResult {
	return spatial.DetectStationary(s.recent(ctx, subjectID), s.window, s.radiusM)
}

// act records and dispatches an alert for any decision above NONE
func (s *MonitorService) act(ctx context.Context, subjectID string, ts int64, lat, lon *float64, d risk.Decision) {
	if d.Action == risk.ActionNone {
		return
	}

	summary := fmt.Sprintf("%s for %s: %s", d.Action, subjectID, d.Reason)
	alertType := models.AlertTypeNotify
	if d.Action == risk.ActionAutoSOS {
		alertType = models.AlertTypeAutoSOS
	}

	s.recordAlert(ctx, &models.Alert{
		SubjectID: subjectID,
		Timestamp: ts,
		Type:      alertType,
		Summary:   summary,
		Evidence:  d.Evidence.String(),
		Latitude:  lat,
		Longitude: lon,
	})
	s.dispatch(ctx, alert.Alert{
		Severity:  string(d.Action),
		SubjectID: subjectID,
		Summary:   summary,
		Evidence:  d.Evidence.String(),
		Latitude:  lat,
		Longitude: lon,
		Timestamp: ts,
	})
}

func (s *MonitorService) dispatch(ctx context.Context, a alert.Alert) {
	if err := s.dispatcher.Dispatch(ctx, a); err != nil {
		s.logger.Error("Alert dispatch failed",
			zap.String("subject_id", a.SubjectID),
			zap.String("severity", a.Severity),
			zap.Error(err),
		)
	}
}

func (s *MonitorService) recordAlert(ctx context.Context, a *models.Alert) {
	if err := s.alerts.Create(ctx, a); err != nil {
		s.logger.Error("Failed to record alert",
			zap.String("subject_id", a.SubjectID),
			zap.String("type", a.Type),
			zap.Error(err),
		)
	}
}

func (s *MonitorService) audit(ctx context.Context, trigger, subjectID string, ts int64, lat, lon float64, d risk.Decision) string {
	return s.writeAudit(ctx, &models.DecisionRecord{
		SubjectID: subjectID,
		Timestamp: ts,
		Trigger:   trigger,
		Action:    string(d.Action),
		Reason:    string(d.Reason),
		Evidence:  d.Evidence.String(),
		Latitude:  lat,
		Longitude: lon,
	})
}

// writeAudit stores the record and returns its ID, or "" when the write failed
func (s *MonitorService) writeAudit(ctx context.Context, rec *models.DecisionRecord) string {
	rec.ID = uuid.NewString()
	if err := s.decisions.Create(ctx, rec); err != nil {
		s.logger.Error("Failed to audit decision",
			zap.String("subject_id", rec.SubjectID),
			zap.String("action", rec.Action),
			zap.Error(err),
		)
		return ""
	}
	return rec.ID
}

func formatPosition(lat, lon *float64) string {
	if lat == nil || lon == nil {
		return "unknown position"
	}
	return fmt.Sprintf("%.6f,%.6f", *lat, *lon)
}
