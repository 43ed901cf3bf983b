package history

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/jengzang/guardian-backend-go/internal/models"
)

// DefaultRedisMax is the per-subject cap used when none is configured
const DefaultRedisMax = 100

// RedisStore keeps each subject's history in a sorted set scored by timestamp.
// Members are prefixed with the zero-padded sample id, so samples sharing a
// timestamp sort by id just like the SQL store.
type RedisStore struct {
	client *redis.Client
	max    int
}

// NewRedisStore creates a Redis-backed store holding at most max samples per subject
func NewRedisStore(client *redis.Client, max int) *RedisStore {
	if max <= 0 {
		max = DefaultRedisMax
	}
	return &RedisStore{client: client, max: max}
}

func historyKey(subjectID string) string {
	return "history:" + subjectID
}

func sequenceKey(subjectID string) string {
	return "history:" + subjectID + ":seq"
}

func encodeMember(sample *models.PositionSample) (string, error) {
	data, err := json.Marshal(sample)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%019d|%s", sample.ID, data), nil
}

func decodeMember(member string) (models.PositionSample, error) {
	var sample models.PositionSample
	_, data, ok := strings.Cut(member, "|")
	if !ok {
		return sample, fmt.Errorf("malformed history member %q", member)
	}
	err := json.Unmarshal([]byte(data), &sample)
	return sample, err
}

// Append implements Store. The add and the trim run in one MULTI so readers
// never see the set above its cap.
func (s *RedisStore) Append(ctx context.Context, sample *models.PositionSample) error {
	id, err := s.client.Incr(ctx, sequenceKey(sample.SubjectID)).Result()
	if err != nil {
		return fmt.Errorf("failed to allocate sample id: %w", err)
	}
	sample.ID = id

	member, err := encodeMember(sample)
	if err != nil {
		return fmt.Errorf("failed to encode position sample: %w", err)
	}

	key := historyKey(sample.SubjectID)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, key, &redis.Z{Score: float64(sample.Timestamp), Member: member})
		pipe.ZRemRangeByRank(ctx, key, 0, int64(-s.max-1))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to append position sample: %w", err)
	}
	return nil
}

// Recent implements Store
func (s *RedisStore) Recent(ctx context.Context, subjectID string, n int) ([]models.PositionSample, error) {
	if n <= 0 {
		return nil, nil
	}

	members, err := s.client.ZRevRange(ctx, historyKey(subjectID), 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read position history: %w", err)
	}

	samples := make([]models.PositionSample, 0, len(members))
	for i := len(members) - 1; i >= 0; i-- {
		sample, err := decodeMember(members[i])
		if err != nil {
			return nil, fmt.Errorf("failed to decode position sample: %w", err)
		}
		samples = append(samples, sample)
	}
	return samples, nil
}
