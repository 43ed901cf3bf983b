// Package alert delivers risk alerts to the monitoring channel.
package alert

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Severities carried by an Alert
const (
	SeverityAutoSOS = "AUTO_SOS"
	SeverityNotify  = "NOTIFY"
	SeverityInfo    = "INFO"
)

// Alert is one message for the monitoring channel
type Alert struct {
	Severity  string   `json:"severity"`
	SubjectID string   `json:"subject_id"`
	Summary   string   `json:"summary"`
	Evidence  string   `json:"evidence,omitempty"`
	Latitude  *float64 `json:"lat,omitempty"`
	Longitude *float64 `json:"lon,omitempty"`
	Timestamp int64    `json:"ts"`
}

// Dispatcher sends alerts. Implementations must be safe for concurrent use.
type Dispatcher interface {
	Dispatch(ctx context.Context, a Alert) error
}

// MapLink returns an OpenStreetMap link for the alert position, or "" without one
func (a Alert) MapLink() string {
	if a.Latitude == nil || a.Longitude == nil {
		return ""
	}
	lat := strconv.FormatFloat(*a.Latitude, 'f', -1, 64)
	lon := strconv.FormatFloat(*a.Longitude, 'f', -1, 64)
	return fmt.Sprintf("https://www.openstreetmap.org/?mlat=%s&mlon=%s#map=18/%s/%s", lat, lon, lat, lon)
}

// Text renders the alert as a human-readable message
func (a Alert) Text() string {
	var b strings.Builder
	switch a.Severity {
	case SeverityAutoSOS:
		b.WriteString("🚨 ")
	case SeverityNotify:
		b.WriteString("⚠️ ")
	}
	b.WriteString(a.Summary)
	if a.Evidence != "" {
		b.WriteString("\nEvidence: ")
		b.WriteString(a.Evidence)
	}
	if link := a.MapLink(); link != "" {
		b.WriteString("\n")
		b.WriteString(link)
	}
	return b.String()
}

// Multi fans an alert out to every dispatcher and joins their errors
type Multi []Dispatcher

// Dispatch implements Dispatcher
func (m Multi) Dispatch(ctx context.Context, a Alert) error {
	var errs []error
	for _, d := range m {
		if err := d.Dispatch(ctx, a); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogDispatcher writes alerts to the log. It is the fallback when no
// delivery channel is configured.
type LogDispatcher struct {
	logger *zap.Logger
}

// NewLogDispatcher creates a log-only dispatcher
func NewLogDispatcher(logger *zap.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

// Dispatch implements Dispatcher
func (d *LogDispatcher) Dispatch(_ context.Context, a Alert) error {
	d.logger.Warn("Alert",
		zap.String("severity", a.Severity),
		zap.String("subject_id", a.SubjectID),
		zap.String("summary", a.Summary),
		zap.String("evidence", a.Evidence),
		zap.String("map", a.MapLink()),
	)
	return nil
}
