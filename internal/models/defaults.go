package models

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// ApplyDefaults fills in every documented default for fields that are absent
// or empty in the loosely typed input. It is total: it never fails, and it
// never fixes a malformed present value. That is validation's job - defaults
// run BEFORE validation on every ingestion path, so a record is only ever
// rejected for malformed presence, not for absence.
func ApplyDefaults(in map[string]any) map[string]any {
	out := make(map[string]any, len(in)+16)
	for k, v := range in {
		out[k] = v
	}

	defaultField(out, "timestamp", time.Now().UTC().Format(time.RFC3339))
	defaultField(out, "eventname", DefaultEventName)
	defaultField(out, "sourceip", DefaultIP)
	defaultField(out, "sourcelocation", DefaultSourceLocation)
	defaultField(out, "sourcecity", DefaultLabel)
	defaultField(out, "sourcecountry", DefaultLabel)
	defaultField(out, "destinationip", DefaultIP)
	defaultField(out, "destinationlocation", DefaultDestLocation)
	defaultField(out, "destinationcity", DefaultLabel)
	defaultField(out, "destinationcountry", DefaultLabel)
	defaultField(out, "severity", DefaultSeverity)
	defaultField(out, "category", DefaultCategory)
	defaultField(out, "detectionsource", DefaultDetectionSource)

	if empty(out["volume"]) {
		out["volume"] = DefaultVolume
	} else if i, ok := parseVolume(out["volume"]); ok {
		out["volume"] = i
	}
	// an unparsable volume keeps its raw value and fails validation instead

	out["blocked"] = ParseBool(out["blocked"], true)

	return out
}

// ParseBool coerces the common truthy and falsy spellings to a bool.
// Anything unrecognized falls back to the supplied default, it is not an error.
func ParseBool(v any, def bool) bool {
	switch b := v.(type) {
	case nil:
		return def
	case bool:
		return b
	}
	switch strings.ToLower(strings.TrimSpace(str(v))) {
	case "true", "yes", "1":
		return true
	case "false", "no", "0":
		return false
	default:
		return def
	}
}

func defaultField(m map[string]any, key string, def string) {
	if empty(m[key]) {
		m[key] = def
	}
}

func empty(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}
	return false
}

func parseVolume(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case string:
		s := strings.TrimSpace(n)
		if i, err := strconv.Atoi(s); err == nil {
			return i, true
		}
		// decimal volumes get truncated rather than rejected
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return int(f), true
	default:
		return 0, false
	}
}
