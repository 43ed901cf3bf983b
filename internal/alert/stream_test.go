package alert

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamDispatcher_AppendsEntry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	d := NewStreamDispatcher(client, "")
	require.NoError(t, d.Dispatch(context.Background(), Alert{Severity: SeverityAutoSOS, SubjectID: "alice", Summary: "sos"}))

	msgs, err := client.XRange(context.Background(), DefaultStream, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "AUTO_SOS", msgs[0].Values["severity"])
	assert.Equal(t, "alice", msgs[0].Values["subject_id"])
	assert.Contains(t, msgs[0].Values["data"], `"summary":"sos"`)
}

func TestStreamDispatcher_RedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	mr.Close()

	err := NewStreamDispatcher(client, "s").Dispatch(context.Background(), Alert{})
	assert.ErrorContains(t, err, "failed to publish alert to stream s")
}
