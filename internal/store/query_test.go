package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweets9/SOC-ThreatViz/internal/models"
)

func TestFilterTimeframe(t *testing.T) {
	now := time.Now()
	threats := []models.Threat{
		threatAt(now.Add(-10*time.Minute), "10min"),
		threatAt(now.Add(-2*time.Hour), "2h"),
		threatAt(now.Add(-25*time.Hour), "25h"),
		threatAt(now.Add(-10*24*time.Hour), "10d"),
	}

	got := FilterTimeframe(threats, 24*time.Hour, now)
	require.Len(t, got, 2)
	assert.Equal(t, "10min", got[0].EventName)
	assert.Equal(t, "2h", got[1].EventName)

	got = FilterTimeframe(threats, time.Hour, now)
	require.Len(t, got, 1)
	assert.Equal(t, "10min", got[0].EventName)

	got = FilterTimeframe(threats, 14*24*time.Hour, now)
	assert.Len(t, got, 4)
}

func TestFilterTimeframeSkipsUnparsable(t *testing.T) {
	now := time.Now()
	corrupt := sampleThreat(now)
	corrupt.Timestamp = "garbage"

	got := FilterTimeframe([]models.Threat{corrupt, threatAt(now, "good")}, time.Hour, now)
	require.Len(t, got, 1)
	assert.Equal(t, "good", got[0].EventName)
}

func TestFilterTimeframeEmpty(t *testing.T) {
	assert.Empty(t, FilterTimeframe(nil, time.Hour, time.Now()))
}
