package poi

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jengzang/guardian-backend-go/internal/models"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestProbe_PassesThroughCounts(t *testing.T) {
	probe := NewProbe(&stubLookup{count: 12}, time.Second, zap.NewNop())
	assert.Equal(t, models.PoiDensity{Count: 12}, probe.Density(context.Background(), 1, 2, 200))
}

func TestProbe_FailureDegradesToZero(t *testing.T) {
	lookup := &stubLookup{count: 9, err: errors.New("connection refused")}
	probe := NewProbe(lookup, time.Second, zap.NewNop())

	d := probe.Density(context.Background(), 1, 2, 200)

	assert.Equal(t, models.PoiDensity{Count: 0, Fallback: true}, d)
	assert.Equal(t, 1, lookup.calls, "no retry after a failure")
}

func TestProbe_HardTimeout(t *testing.T) {
	probe := NewProbe(blockingLookup{}, 50*time.Millisecond, zap.NewNop())

	start := time.Now()
	d := probe.Density(context.Background(), 1, 2, 200)

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.True(t, d.Fallback)
	assert.Equal(t, 0, d.Count)
}
