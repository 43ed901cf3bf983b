package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/jengzang/guardian-backend-go/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestEvaluate_Offline(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")

	// 23:30 at +5.5
	out, err := execute(t, "evaluate", "--stationary", "200", "--ts", "1741975200", "--poi", "1")
	require.NoError(t, err)

	var decision map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &decision))
	assert.Equal(t, "AUTO_SOS", decision["action"])
	assert.Equal(t, "stationary_night_low_poi", decision["reason"])
	assert.Equal(t, "stationary=200s;night=true;poi_count=1", decision["evidence"])
}

func TestEvaluate_VoiceFlag(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")

	out, err := execute(t, "evaluate", "--voice", "0.3", "--poi", "0")
	require.NoError(t, err)
	assert.Contains(t, out, `"possible_voice"`)

	_, err = execute(t, "evaluate", "--voice", "1.3", "--poi", "0")
	assert.Error(t, err)
}

func TestEvaluate_ConfiguredThresholds(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("VOICE_THRESHOLD", "0.9")

	out, err := execute(t, "evaluate", "--voice", "0.7", "--poi", "0")
	require.NoError(t, err)
	assert.Contains(t, out, `"NOTIFY"`)
}

func TestRules(t *testing.T) {
	out, err := execute(t, "rules")
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.Greater(t, len(lines), 5)
	assert.Contains(t, lines[1], "voice_distress")
	assert.Contains(t, lines[5], "ok")
	assert.Contains(t, out, "voice_distress>=0.60")
}

func TestToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	out, err := execute(t, "token", "--subject", "alice")
	require.NoError(t, err)

	claims, err := auth.Parse("s3cret", strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)

	_, err = execute(t, "token")
	assert.Error(t, err)
}
