package store

import (
	"time"

	"github.com/sweets9/SOC-ThreatViz/internal/models"
)

// Retention caps. Both are enforced only at write time; the file can hold
// stale records between writes.
const (
	MaxEntries = 10000
	MaxAge     = 7 * 24 * time.Hour
)

// ApplyRetention merges incoming records into the existing set and enforces
// both retention caps:
//
//  1. incoming goes in front of existing as a block (newest-first on disk)
//  2. records older than now-7d are dropped; an unparsable timestamp counts
//     as too old, so corrupt rows cannot survive retention forever
//  3. the result is cut to the newest 10,000 records by truncating the tail
//
// Returns the set to persist and the number of records pruned.
func ApplyRetention(existing, incoming []models.Threat, now time.Time) ([]models.Threat, int) {
	merged := make([]models.Threat, 0, len(incoming)+len(existing))
	merged = append(merged, incoming...)
	merged = append(merged, existing...)

	cutoff := now.Add(-MaxAge)
	kept := merged[:0]
	for _, t := range merged {
		ts, err := t.Time()
		if err != nil || ts.Before(cutoff) {
			continue
		}
		kept = append(kept, t)
	}

	if len(kept) > MaxEntries {
		kept = kept[:MaxEntries]
	}

	return kept, len(merged) - len(kept)
}
