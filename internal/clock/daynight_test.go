package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func utc(hour, minute int) time.Time {
	return time.Date(2025, 3, 14, hour, minute, 0, 0, time.UTC)
}

func TestIsNight_UTC(t *testing.T) {
	cases := []struct {
		hour int
		want bool
	}{
		{0, true},
		{5, true},
		{6, false},
		{12, false},
		{19, false},
		{20, true},
		{23, true},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, IsNight(utc(c.hour, 30), 0), "hour %d", c.hour)
	}
}

func TestIsNight_FractionalOffset(t *testing.T) {
	// 14:45 UTC is 20:15 at +5.5
	assert.True(t, IsNight(utc(14, 45), 5.5))
	// 14:15 UTC is 19:45 at +5.5
	assert.False(t, IsNight(utc(14, 15), 5.5))
	// 00:20 UTC is 05:50 at +5.5, 06:20 at +6
	assert.True(t, IsNight(utc(0, 20), 5.5))
	assert.False(t, IsNight(utc(0, 20), 6))
}

func TestIsNight_NegativeOffset(t *testing.T) {
	// 03:00 UTC is 22:00 the previous day at -5
	assert.True(t, IsNight(utc(3, 0), -5))
	assert.Equal(t, 22, LocalHour(utc(3, 0), -5))
}

func TestIsNight_IgnoresSourceLocation(t *testing.T) {
	ist := time.FixedZone("IST", 19800)
	// 02:00 IST is 20:30 UTC the previous day
	at := time.Date(2025, 3, 14, 2, 0, 0, 0, ist)
	assert.True(t, IsNight(at, 0))
	assert.Equal(t, 20, LocalHour(at, 0))
	assert.Equal(t, 2, LocalHour(at, 5.5))
}
