package history

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jengzang/guardian-backend-go/internal/database"
	"github.com/jengzang/guardian-backend-go/internal/models"
	"github.com/jengzang/guardian-backend-go/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSQLStore(t *testing.T) {
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "history.db")}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var store Store = NewSQLStore(repository.NewPositionRepository(db))
	ctx := context.Background()

	for _, ts := range []int64{3, 1, 2} {
		require.NoError(t, store.Append(ctx, &models.PositionSample{SubjectID: "alice", Timestamp: ts}))
	}

	samples, err := store.Recent(ctx, "alice", 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, timestamps(samples))
}

func TestSQLStore_EqualTimestampsOrderByID(t *testing.T) {
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "history.db")}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := NewSQLStore(repository.NewPositionRepository(db))
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, &models.PositionSample{SubjectID: "alice", Timestamp: 1000, Latitude: 1}))
	require.NoError(t, store.Append(ctx, &models.PositionSample{SubjectID: "alice", Timestamp: 1000, Latitude: 2}))

	samples, err := store.Recent(ctx, "alice", 10)
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Less(t, samples[0].ID, samples[1].ID)
	assert.Equal(t, 2.0, samples[1].Latitude)
}
