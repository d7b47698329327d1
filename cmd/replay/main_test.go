package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/space-weather-alerts/internal/domain"
)

func kpSeries(values ...float64) []domain.Reading {
	base := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	out := make([]domain.Reading, len(values))
	for i, v := range values {
		out[i] = domain.Reading{
			Category:  domain.CategoryGeomagnetic,
			Value:     v,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}
	}
	return out
}

func TestReplay_PrintsTransitions(t *testing.T) {
	var buf bytes.Buffer
	fired := replay(&buf, kpSeries(2, 5, 5, 6, 3, 5), true, false)

	assert.Equal(t, 4, fired)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "2026-10-18 00:01 UTC  none -> Minor  Geomagnetic Storm Alert", lines[0])
	assert.Equal(t, "2026-10-18 00:04 UTC  Moderate -> none  Geomagnetic Storm Alert Cleared", lines[2])
}

func TestReplay_BaselineFromFirstReading(t *testing.T) {
	var buf bytes.Buffer
	fired := replay(&buf, kpSeries(6, 6, 7), false, false)

	assert.Equal(t, 1, fired)
	assert.Contains(t, buf.String(), "Moderate -> Strong")
}

func TestReplay_TextIncludesWebhookBody(t *testing.T) {
	var buf bytes.Buffer
	replay(&buf, kpSeries(8), true, true)

	assert.Contains(t, buf.String(), "<!channel> 🚨 *Geomagnetic Storm Alert*")
}

func TestRun_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kp.json")
	body := `[{"time_tag":"2026-10-18T00:00:00","kp_index":1},{"time_tag":"2026-10-18T00:01:00","kp_index":"9"}]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	var buf bytes.Buffer
	require.NoError(t, run([]string{"-feed", "geomagnetic", "-file", path}, &buf))
	assert.Contains(t, buf.String(), "none -> Extreme")
	assert.Contains(t, buf.String(), "geomagnetic: 2 readings, 1 notifications")
}

func TestRun_Errors(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, run([]string{"-feed", "geomagnetic"}, &buf))
	assert.Error(t, run([]string{"-feed", "aurora", "-file", "x.json"}, &buf))
	assert.Error(t, run([]string{"-feed", "geomagnetic", "-file", filepath.Join(t.TempDir(), "missing.json")}, &buf))
}
