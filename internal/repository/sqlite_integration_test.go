package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/jengzang/guardian-backend-go/internal/database"
	"github.com/jengzang/guardian-backend-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPositionRepository_RecentIsAscendingWindow(t *testing.T) {
	repo := NewPositionRepository(openTestDB(t))
	ctx := context.Background()

	// inserted out of order
	for _, ts := range []int64{300, 100, 500, 200, 400} {
		s := &models.PositionSample{SubjectID: "alice", Timestamp: ts, Latitude: 1, Longitude: 2, AccuracyMeters: 5}
		require.NoError(t, repo.Insert(ctx, s))
		assert.NotZero(t, s.ID)
	}
	require.NoError(t, repo.Insert(ctx, &models.PositionSample{SubjectID: "bob", Timestamp: 999}))

	samples, err := repo.Recent(ctx, "alice", 3)
	require.NoError(t, err)

	var got []int64
	for _, s := range samples {
		got = append(got, s.Timestamp)
		assert.Equal(t, "alice", s.SubjectID)
	}
	assert.Equal(t, []int64{300, 400, 500}, got)

	none, err := repo.Recent(ctx, "nobody", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAlertRepository_CreateAndList(t *testing.T) {
	repo := NewAlertRepository(openTestDB(t))
	ctx := context.Background()

	lat, lon := 12.97, 77.59
	require.NoError(t, repo.Create(ctx, &models.Alert{SubjectID: "alice", Timestamp: 10, Type: models.AlertTypeVoice, Summary: "first"}))
	require.NoError(t, repo.Create(ctx, &models.Alert{SubjectID: "alice", Timestamp: 20, Type: models.AlertTypeSOS, Summary: "second", Latitude: &lat, Longitude: &lon}))

	alerts, err := repo.ListRecent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, "second", alerts[0].Summary)
	require.NotNil(t, alerts[0].Latitude)
	assert.Equal(t, 12.97, *alerts[0].Latitude)
	assert.Nil(t, alerts[1].Latitude)

	one, err := repo.ListRecent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, one, 1)
}

func TestDecisionRepository_RoundTrip(t *testing.T) {
	repo := NewDecisionRepository(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.DecisionRecord{
		ID: "a", SubjectID: "alice", Timestamp: 100, Trigger: models.TriggerVoice,
		Action: "AUTO_SOS", Reason: "voice_distress", Evidence: "voice_prob=0.91",
	}))
	require.NoError(t, repo.Create(ctx, &models.DecisionRecord{
		ID: "b", SubjectID: "alice", Timestamp: 200, Trigger: models.TriggerLocation,
		Action: "NONE", Reason: "ok",
	}))

	records, total, err := repo.List(ctx, models.DecisionFilter{Action: "AUTO_SOS"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, records, 1)
	assert.Equal(t, "voice_prob=0.91", records[0].Evidence)
	assert.NotEmpty(t, records[0].CreatedAt)

	// the CHECK constraint keeps actions bounded
	err = repo.Create(ctx, &models.DecisionRecord{ID: "c", SubjectID: "x", Action: "MAYBE", Reason: "?"})
	assert.Error(t, err)
}
