package store

import (
	"time"

	"github.com/sweets9/SOC-ThreatViz/internal/models"
)

// FilterTimeframe returns the records whose timestamp falls inside the
// trailing window ending at now, preserving input order. This window is the
// caller's display timeframe, independent of the 7-day retention window.
func FilterTimeframe(threats []models.Threat, window time.Duration, now time.Time) []models.Threat {
	cutoff := now.Add(-window)

	filtered := []models.Threat{}
	for _, t := range threats {
		ts, err := t.Time()
		if err != nil {
			continue
		}
		if !ts.Before(cutoff) {
			filtered = append(filtered, t)
		}
	}
	return filtered
}
