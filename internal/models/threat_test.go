package models

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaultsFillsAbsentFields(t *testing.T) {
	out := ApplyDefaults(map[string]any{})

	assert.Equal(t, DefaultEventName, out["eventname"])
	assert.Equal(t, DefaultIP, out["sourceip"])
	assert.Equal(t, DefaultIP, out["destinationip"])
	assert.Equal(t, DefaultSourceLocation, out["sourcelocation"])
	assert.Equal(t, DefaultDestLocation, out["destinationlocation"])
	assert.Equal(t, DefaultLabel, out["sourcecity"])
	assert.Equal(t, DefaultLabel, out["sourcecountry"])
	assert.Equal(t, DefaultLabel, out["destinationcity"])
	assert.Equal(t, DefaultLabel, out["destinationcountry"])
	assert.Equal(t, DefaultVolume, out["volume"])
	assert.Equal(t, DefaultSeverity, out["severity"])
	assert.Equal(t, DefaultCategory, out["category"])
	assert.Equal(t, DefaultDetectionSource, out["detectionsource"])
	assert.Equal(t, true, out["blocked"])

	// absent timestamp defaults to a parseable now
	_, err := ParseTimestamp(out["timestamp"].(string))
	assert.NoError(t, err)
}

func TestApplyDefaultsKeepsPresentFields(t *testing.T) {
	in := map[string]any{
		"timestamp": "2025-08-30T10:00:00Z",
		"eventname": "Port Scan Detected",
		"sourceip":  "1.2.3.4",
		"volume":    "75",
		"severity":  "critical",
		"blocked":   "no",
	}
	out := ApplyDefaults(in)

	assert.Equal(t, "Port Scan Detected", out["eventname"])
	assert.Equal(t, "1.2.3.4", out["sourceip"])
	assert.Equal(t, 75, out["volume"]) // numeric strings are normalized
	assert.Equal(t, "critical", out["severity"])
	assert.Equal(t, false, out["blocked"])
}

func TestApplyDefaultsIdempotent(t *testing.T) {
	inputs := []map[string]any{
		{},
		{"eventname": "X", "volume": 75, "blocked": true},
		{"volume": "not-a-number", "severity": "bogus"},
		{"timestamp": "2025-08-30T10:00:00Z", "blocked": "yes"},
	}

	for _, in := range inputs {
		once := ApplyDefaults(in)
		twice := ApplyDefaults(once)
		assert.True(t, reflect.DeepEqual(once, twice), "defaults not idempotent for %v", in)
	}
}

func TestApplyDefaultsNeverFixesMalformedPresence(t *testing.T) {
	out := ApplyDefaults(map[string]any{
		"sourcelocation": "999,999",
		"volume":         "NaN",
	})
	assert.Equal(t, "999,999", out["sourcelocation"])
	assert.Equal(t, "NaN", out["volume"])
	assert.False(t, IsValid(out))
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		in   any
		def  bool
		want bool
	}{
		{nil, true, true},
		{nil, false, false},
		{true, false, true},
		{false, true, false},
		{"true", false, true},
		{"TRUE", false, true},
		{"yes", false, true},
		{"1", false, true},
		{"false", true, false},
		{"No", true, false},
		{"0", true, false},
		{"maybe", true, true},
		{"maybe", false, false},
		{"", true, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseBool(tt.in, tt.def), "ParseBool(%v, %v)", tt.in, tt.def)
	}
}

func TestIsValidAfterDefaults(t *testing.T) {
	// defaulting fixes absence, so an empty input is always valid
	assert.True(t, IsValid(ApplyDefaults(map[string]any{})))

	tests := []struct {
		name  string
		in    map[string]any
		valid bool
	}{
		{"fully specified", map[string]any{
			"timestamp":           "2025-08-30T10:00:00Z",
			"eventname":           "X",
			"sourceip":            "1.2.3.4",
			"destinationip":       "5.6.7.8",
			"sourcelocation":      "10,10",
			"destinationlocation": "20,20",
			"volume":              75,
			"severity":            "critical",
			"category":            "Botnet Activity",
		}, true},
		{"email-address destination", map[string]any{
			"destinationip": "soc@example.com.au",
		}, true},
		{"malformed timestamp", map[string]any{
			"timestamp": "not-a-date",
		}, false},
		{"out of range latitude", map[string]any{
			"sourcelocation": "999,999",
		}, false},
		{"one coordinate only", map[string]any{
			"destinationlocation": "12.5",
		}, false},
		{"unparsable volume", map[string]any{
			"volume": "lots",
		}, false},
		{"unknown severity", map[string]any{
			"severity": "apocalyptic",
		}, false},
		{"severity case-insensitive", map[string]any{
			"severity": "CRITICAL",
		}, true},
		{"unknown category", map[string]any{
			"category": "Space Lasers",
		}, false},
		{"category is case-sensitive", map[string]any{
			"category": "botnet activity",
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValid(ApplyDefaults(tt.in)))
		})
	}
}

func TestIsValidRequiredFields(t *testing.T) {
	base := func() map[string]any {
		return map[string]any{
			"timestamp":           "2025-08-30T10:00:00Z",
			"eventname":           "X",
			"sourceip":            "1.2.3.4",
			"destinationip":       "5.6.7.8",
			"sourcelocation":      "10,10",
			"destinationlocation": "20,20",
			"volume":              50,
		}
	}
	require.True(t, IsValid(base()))

	for _, field := range []string{"timestamp", "eventname", "sourceip", "destinationip", "sourcelocation", "destinationlocation"} {
		m := base()
		m[field] = ""
		assert.False(t, IsValid(m), "missing %s should be invalid without defaults", field)
	}

	// severity/category checks are skipped entirely when the field is empty
	m := base()
	m["severity"] = ""
	m["category"] = ""
	assert.True(t, IsValid(m))
}

func TestValidLocation(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
	}{
		{"0,0", true},
		{"-25.0,133.0", true},
		{"90,180", true},
		{"-90,-180", true},
		{"90.1,0", false},
		{"0,180.1", false},
		{"999,999", false},
		{"10", false},
		{"10,20,30", false},
		{"abc,def", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.valid, ValidLocation(tt.in), "ValidLocation(%q)", tt.in)
	}
}

func TestFromMapRoundTrip(t *testing.T) {
	in := map[string]any{
		"timestamp":           "2025-08-30T10:00:00Z",
		"eventname":           "SQL Injection Attempt",
		"sourceip":            "1.2.3.4",
		"destinationip":       "5.6.7.8",
		"sourcelocation":      "10,10",
		"destinationlocation": "20,20",
		"volume":              75,
		"severity":            "critical",
		"category":            "Botnet Activity",
		"blocked":             false,
	}
	threat := FromMap(ApplyDefaults(in))

	assert.Equal(t, "SQL Injection Attempt", threat.EventName)
	assert.Equal(t, 75, threat.Volume)
	assert.False(t, threat.Blocked)

	again := FromMap(ApplyDefaults(threat.Map()))
	assert.Equal(t, threat, again)
}

func TestParseTimestamp(t *testing.T) {
	for _, ok := range []string{
		"2025-08-30T10:00:00Z",
		"2025-08-30T10:00:00.123Z",
		"2025-08-30T10:00:00+10:00",
		"2025-08-30T10:00:00",
		"2025-08-30 10:00:00",
		"2025-08-30",
	} {
		_, err := ParseTimestamp(ok)
		assert.NoError(t, err, "should parse %q", ok)
	}
	for _, bad := range []string{"", "yesterday", "30/08/2025"} {
		_, err := ParseTimestamp(bad)
		assert.Error(t, err, "should reject %q", bad)
	}
}

func TestThreatTime(t *testing.T) {
	threat := Threat{Timestamp: "2025-08-30T10:00:00Z"}
	ts, err := threat.Time()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 8, 30, 10, 0, 0, 0, time.UTC), ts.UTC())
}
