package alert

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// DefaultStream is the Redis stream alerts are appended to
const DefaultStream = "guardian:alerts"

// StreamDispatcher appends alerts to a Redis stream for downstream consumers
type StreamDispatcher struct {
	client *redis.Client
	stream string
}

// NewStreamDispatcher creates a stream dispatcher
func NewStreamDispatcher(client *redis.Client, stream string) *StreamDispatcher {
	if stream == "" {
		stream = DefaultStream
	}
	return &StreamDispatcher{client: client, stream: stream}
}

// Dispatch implements Dispatcher
func (d *StreamDispatcher) Dispatch(ctx context.Context, a Alert) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to encode alert: %w", err)
	}

	err = d.client.XAdd(ctx, &redis.XAddArgs{
		Stream: d.stream,
		Values: map[string]interface{}{
			"severity":   a.Severity,
			"subject_id": a.SubjectID,
			"data":       string(data),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to publish alert to stream %s: %w", d.stream, err)
	}
	return nil
}
