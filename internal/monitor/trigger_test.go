package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyTrigger_FiresOncePerHourWindow(t *testing.T) {
	trig := NewDailyTrigger(9, time.UTC)
	nine := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

	assert.False(t, trig.Due(nine.Add(-time.Minute)))
	require.True(t, trig.Due(nine))
	trig.Fired(nine)

	assert.False(t, trig.Due(nine.Add(5*time.Minute)))
	assert.False(t, trig.Due(nine.Add(59*time.Minute)))
	assert.True(t, trig.Due(nine.Add(24*time.Hour)))
}

func TestDailyTrigger_UsesLocation(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	trig := NewDailyTrigger(9, tokyo)

	// 00:00 UTC is 09:00 in Tokyo.
	assert.True(t, trig.Due(time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)))
	assert.False(t, trig.Due(time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)))
}

func TestDailyTrigger_DefaultsToLocal(t *testing.T) {
	assert.Equal(t, time.Local, NewDailyTrigger(0, nil).Location)
}
