package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweets9/SOC-ThreatViz/internal/fs"
	"github.com/sweets9/SOC-ThreatViz/internal/models"
)

func newTestStore(t *testing.T) *ThreatStore {
	t.Helper()
	return NewThreatStore(filepath.Join(t.TempDir(), "data", "threats.csv"), false)
}

func TestBootstrapCreatesFileWithHeader(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Bootstrap())
	assert.True(t, fs.FileExists(st.Path()))

	threats, err := st.Load()
	require.NoError(t, err)
	assert.Empty(t, threats)

	// bootstrapping again leaves the file alone
	_, err = st.Append(sampleThreat(time.Now()))
	require.NoError(t, err)
	require.NoError(t, st.Bootstrap())

	threats, err = st.Load()
	require.NoError(t, err)
	assert.Len(t, threats, 1)
}

func TestAppendToMissingStore(t *testing.T) {
	st := newTestStore(t)

	result, err := st.Append(sampleThreat(time.Now()))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Added)
	assert.Zero(t, result.Pruned)

	threats, err := st.Load()
	require.NoError(t, err)
	assert.Len(t, threats, 1)
}

func TestAppendPrependsNewestFirst(t *testing.T) {
	st := newTestStore(t)
	now := time.Now()

	_, err := st.Append(threatAt(now.Add(-time.Hour), "first"))
	require.NoError(t, err)
	_, err = st.Append(threatAt(now, "second"))
	require.NoError(t, err)

	threats, err := st.Load()
	require.NoError(t, err)
	require.Len(t, threats, 2)
	assert.Equal(t, "second", threats[0].EventName)
	assert.Equal(t, "first", threats[1].EventName)
}

func TestAppendPrunesOldRecords(t *testing.T) {
	st := newTestStore(t)
	now := time.Now()

	pruneCalls := 0
	st.OnPrune = func(pruned int) { pruneCalls += pruned }

	_, err := st.Append(threatAt(now.Add(-8*24*time.Hour), "stale"))
	require.NoError(t, err)
	// the stale record was already outside the window when written
	assert.Equal(t, 1, pruneCalls)

	result, err := st.Append(threatAt(now, "fresh"))
	require.NoError(t, err)
	assert.Zero(t, result.Pruned)

	threats, err := st.Load()
	require.NoError(t, err)
	require.Len(t, threats, 1)
	assert.Equal(t, "fresh", threats[0].EventName)
}

func TestAppendBatchAndRead(t *testing.T) {
	st := newTestStore(t)
	now := time.Now()

	batch := []models.Threat{
		threatAt(now.Add(-10*time.Minute), "recent"),
		threatAt(now.Add(-2*time.Hour), "today"),
		threatAt(now.Add(-26*time.Hour), "yesterday"),
	}
	result, err := st.AppendBatch(batch)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Added)

	within24h, err := st.Read(24 * time.Hour)
	require.NoError(t, err)
	require.Len(t, within24h, 2)
	assert.Equal(t, "recent", within24h[0].EventName)
	assert.Equal(t, "today", within24h[1].EventName)

	all, err := st.Read(7 * 24 * time.Hour)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestEndToEndAppendRead(t *testing.T) {
	st := newTestStore(t)

	input := models.Threat{
		Timestamp:           time.Now().UTC().Format(time.RFC3339),
		EventName:           "X",
		SourceIP:            "1.2.3.4",
		DestinationIP:       "5.6.7.8",
		SourceLocation:      "10,10",
		DestinationLocation: "20,20",
		SourceCity:          models.DefaultLabel,
		SourceCountry:       models.DefaultLabel,
		DestinationCity:     models.DefaultLabel,
		DestinationCountry:  models.DefaultLabel,
		Volume:              75,
		Severity:            "critical",
		Category:            "Botnet Activity",
		DetectionSource:     models.DefaultLabel,
		Blocked:             true,
	}
	_, err := st.Append(input)
	require.NoError(t, err)

	got, err := st.Read(24 * time.Hour)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, input, got[0])
}

func TestConcurrentAppendsLoseNothing(t *testing.T) {
	st := newTestStore(t)
	now := time.Now()

	const writers = 8
	done := make(chan error, writers)
	for i := 0; i < writers; i++ {
		go func(i int) {
			_, err := st.Append(threatAt(now, time.Duration(i).String()))
			done <- err
		}(i)
	}
	for i := 0; i < writers; i++ {
		require.NoError(t, <-done)
	}

	threats, err := st.Load()
	require.NoError(t, err)
	assert.Len(t, threats, writers)
}

func TestStoreStats(t *testing.T) {
	st := newTestStore(t)

	stats, err := st.Stats()
	require.NoError(t, err)
	assert.Zero(t, stats.Entries)

	_, err = st.Append(sampleThreat(time.Now()))
	require.NoError(t, err)

	stats, err = st.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Entries)
	assert.Greater(t, stats.SizeBytes, int64(0))
}
