package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, HistorySQLite, cfg.History.Backend)
	assert.Equal(t, 5*time.Second, cfg.POI.Timeout)
	assert.False(t, cfg.RedisEnabled())

	th := cfg.Thresholds()
	assert.Equal(t, 0.60, th.VoiceDistress)
	assert.Equal(t, 0.20, th.WeakVoice)
	assert.Equal(t, int64(180), th.StationarySeconds)
	assert.Equal(t, 3, th.MaxIsolatedPOI)
	assert.Equal(t, 200.0, th.POIRadiusM)
	assert.Equal(t, 5.5, th.TZOffsetHours)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("VOICE_THRESHOLD", "0.75")
	t.Setenv("STATIONARY_THRESHOLD_SEC", "300")
	t.Setenv("POI_TIMEOUT", "2s")
	t.Setenv("HISTORY_BACKEND", "REDIS")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 0.75, cfg.Thresholds().VoiceDistress)
	assert.Equal(t, int64(300), cfg.Thresholds().StationarySeconds)
	assert.Equal(t, 2*time.Second, cfg.POI.Timeout)
	assert.Equal(t, HistoryRedis, cfg.History.Backend)
}

func TestLoad_CollectsParseErrors(t *testing.T) {
	t.Setenv("VOICE_THRESHOLD", "high")
	t.Setenv("POI_TIMEOUT", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VOICE_THRESHOLD")
	assert.Contains(t, err.Error(), "POI_TIMEOUT")
}

func TestLoad_Validation(t *testing.T) {
	t.Run("redis history without address", func(t *testing.T) {
		t.Setenv("HISTORY_BACKEND", "redis")
		_, err := Load()
		assert.ErrorContains(t, err, "REDIS_ADDR")
	})
	t.Run("auth without secret", func(t *testing.T) {
		t.Setenv("AUTH_ENABLED", "true")
		_, err := Load()
		assert.ErrorContains(t, err, "JWT_SECRET")
	})
	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("HISTORY_BACKEND", "mongo")
		_, err := Load()
		assert.ErrorContains(t, err, "unknown HISTORY_BACKEND")
	})
}
