package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweets9/SOC-ThreatViz/internal/models"
)

func threatAt(ts time.Time, name string) models.Threat {
	t := sampleThreat(ts)
	t.EventName = name
	return t
}

func TestApplyRetentionPrependsIncoming(t *testing.T) {
	now := time.Now()
	existing := []models.Threat{threatAt(now.Add(-2*time.Hour), "old-1"), threatAt(now.Add(-3*time.Hour), "old-2")}
	incoming := []models.Threat{threatAt(now, "new-1"), threatAt(now.Add(-time.Minute), "new-2")}

	kept, pruned := ApplyRetention(existing, incoming, now)

	require.Len(t, kept, 4)
	assert.Zero(t, pruned)
	// incoming as a block in front, relative order preserved in both groups
	assert.Equal(t, "new-1", kept[0].EventName)
	assert.Equal(t, "new-2", kept[1].EventName)
	assert.Equal(t, "old-1", kept[2].EventName)
	assert.Equal(t, "old-2", kept[3].EventName)
}

func TestApplyRetentionAgeFilter(t *testing.T) {
	now := time.Now()
	existing := []models.Threat{
		threatAt(now.Add(-6*24*time.Hour), "keep"),
		threatAt(now.Add(-8*24*time.Hour), "too-old"),
	}
	incoming := []models.Threat{threatAt(now, "fresh")}

	kept, pruned := ApplyRetention(existing, incoming, now)

	require.Len(t, kept, 2)
	assert.Equal(t, 1, pruned)
	for _, threat := range kept {
		ts, err := threat.Time()
		require.NoError(t, err)
		assert.False(t, ts.Before(now.Add(-MaxAge)))
	}
}

func TestApplyRetentionUnparsableTimestampDropped(t *testing.T) {
	now := time.Now()
	corrupt := sampleThreat(now)
	corrupt.Timestamp = "garbage"

	kept, pruned := ApplyRetention([]models.Threat{corrupt}, []models.Threat{threatAt(now, "good")}, now)

	require.Len(t, kept, 1)
	assert.Equal(t, "good", kept[0].EventName)
	assert.Equal(t, 1, pruned)
}

func TestApplyRetentionCap(t *testing.T) {
	now := time.Now()

	existing := make([]models.Threat, MaxEntries-50)
	for i := range existing {
		existing[i] = threatAt(now.Add(-time.Duration(i+100)*time.Second), fmt.Sprintf("existing-%d", i))
	}
	incoming := make([]models.Threat, 100)
	for i := range incoming {
		incoming[i] = threatAt(now.Add(-time.Duration(i)*time.Second), fmt.Sprintf("incoming-%d", i))
	}

	kept, pruned := ApplyRetention(existing, incoming, now)

	require.Len(t, kept, MaxEntries)
	assert.Equal(t, 50, pruned)

	// the cap evicts from the tail: all incoming survive, the oldest
	// existing records go
	assert.Equal(t, "incoming-0", kept[0].EventName)
	assert.Equal(t, "existing-0", kept[100].EventName)
	assert.Equal(t, fmt.Sprintf("existing-%d", MaxEntries-151), kept[MaxEntries-51].EventName)
	assert.Equal(t, fmt.Sprintf("existing-%d", MaxEntries-101), kept[MaxEntries-1].EventName)
}

func TestApplyRetentionEmptyInputs(t *testing.T) {
	kept, pruned := ApplyRetention(nil, nil, time.Now())
	assert.Empty(t, kept)
	assert.Zero(t, pruned)
}
