package alert

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordingDispatcher struct {
	got []Alert
	err error
}

func (r *recordingDispatcher) Dispatch(_ context.Context, a Alert) error {
	r.got = append(r.got, a)
	return r.err
}

func coords(lat, lon float64) (*float64, *float64) {
	return &lat, &lon
}

func TestAlert_Text(t *testing.T) {
	lat, lon := coords(12.9716, 77.5946)
	a := Alert{
		Severity: SeverityAutoSOS,
		Summary:  "AUTO_SOS for alice: stationary_night_low_poi",
		Evidence: "stationary=200s;night=true;poi_count=0",
		Latitude: lat, Longitude: lon,
	}

	assert.Equal(t,
		"🚨 AUTO_SOS for alice: stationary_night_low_poi\n"+
			"Evidence: stationary=200s;night=true;poi_count=0\n"+
			"https://www.openstreetmap.org/?mlat=12.9716&mlon=77.5946#map=18/12.9716/77.5946",
		a.Text())
}

func TestAlert_TextWithoutPosition(t *testing.T) {
	a := Alert{Severity: SeverityInfo, Summary: "Test alert"}
	assert.Equal(t, "Test alert", a.Text())
	assert.Empty(t, a.MapLink())
}

func TestMulti_FansOutAndJoinsErrors(t *testing.T) {
	ok := &recordingDispatcher{}
	bad := &recordingDispatcher{err: errors.New("broker down")}
	m := Multi{bad, ok}

	err := m.Dispatch(context.Background(), Alert{Severity: SeverityNotify, Summary: "x"})

	assert.ErrorContains(t, err, "broker down")
	assert.Len(t, ok.got, 1, "a failing dispatcher must not block the others")
	assert.Len(t, bad.got, 1)

	assert.NoError(t, Multi{ok}.Dispatch(context.Background(), Alert{}))
	assert.NoError(t, Multi{}.Dispatch(context.Background(), Alert{}))
}

func TestLogDispatcher(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	d := NewLogDispatcher(zap.New(core))

	assert.NoError(t, d.Dispatch(context.Background(), Alert{Severity: SeverityNotify, SubjectID: "alice", Summary: "stationary"}))

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "alice", entries[0].ContextMap()["subject_id"])
		assert.Equal(t, SeverityNotify, entries[0].ContextMap()["severity"])
	}
}
