package alert

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	topic   string
	qos     byte
	payload []byte
	err     error
}

func (f *fakePublisher) Publish(topic string, qos byte, _ bool, payload []byte) error {
	f.topic, f.qos, f.payload = topic, qos, payload
	return f.err
}

func TestMQTTDispatcher_PublishesJSON(t *testing.T) {
	pub := &fakePublisher{}
	d := NewMQTTDispatcher(pub, "guardian/alerts")
	lat, lon := coords(1.5, 2.5)

	err := d.Dispatch(context.Background(), Alert{
		Severity: SeverityAutoSOS, SubjectID: "alice", Summary: "sos",
		Latitude: lat, Longitude: lon, Timestamp: 1700000000,
	})
	require.NoError(t, err)

	assert.Equal(t, "guardian/alerts/AUTO_SOS", pub.topic)
	assert.Equal(t, byte(1), pub.qos)

	var decoded Alert
	require.NoError(t, json.Unmarshal(pub.payload, &decoded))
	assert.Equal(t, "alice", decoded.SubjectID)
	require.NotNil(t, decoded.Latitude)
	assert.Equal(t, 1.5, *decoded.Latitude)
}

func TestMQTTDispatcher_PropagatesPublishError(t *testing.T) {
	pub := &fakePublisher{err: errors.New("not connected")}
	err := NewMQTTDispatcher(pub, "p").Dispatch(context.Background(), Alert{Severity: SeverityNotify})
	assert.EqualError(t, err, "not connected")
}
