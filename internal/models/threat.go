package models

import (
	"strconv"
	"time"
)

// Threat is one observed security event: attacker -> target network activity
// as shown on the globe. Field names follow the CSV column names so the wire
// format, the on-disk format and the model stay aligned.
type Threat struct {
	Timestamp           string `json:"timestamp"`
	EventName           string `json:"eventname"`
	SourceIP            string `json:"sourceip"`
	SourceLocation      string `json:"sourcelocation"`
	SourceCity          string `json:"sourcecity"`
	SourceCountry       string `json:"sourcecountry"`
	DestinationIP       string `json:"destinationip"`
	DestinationLocation string `json:"destinationlocation"`
	DestinationCity     string `json:"destinationcity"`
	DestinationCountry  string `json:"destinationcountry"`
	DestinationPort     string `json:"destinationport,omitempty"`
	DestinationService  string `json:"destinationservice,omitempty"`
	Volume              int    `json:"volume"`
	Severity            string `json:"severity"`
	Category            string `json:"category"`
	DetectionSource     string `json:"detectionsource"`
	Blocked             bool   `json:"blocked"`
}

// Documented defaults for absent fields. The destination default is the
// centre of Australia since that is where the monitored sites are.
const (
	DefaultEventName       = "Unknown Event"
	DefaultIP              = "0.0.0.0"
	DefaultSourceLocation  = "0,0"
	DefaultDestLocation    = "-25.0,133.0"
	DefaultLabel           = "Unknown"
	DefaultVolume          = 50
	DefaultSeverity        = "medium"
	DefaultCategory        = "Scanning Activity"
	DefaultDetectionSource = "Unknown"
)

// Severities is the closed set of accepted severity values (case-insensitive)
var Severities = []string{"low", "medium", "high", "critical"}

// Categories is the closed set of accepted attack categories
var Categories = []string{
	"Phishing Emails",
	"Antivirus Malware",
	"Botnet Activity",
	"Scanning Activity",
	"Infiltration Attempts",
	"Web Gateway Threats",
}

// timestampLayouts are the accepted timestamp formats, tried in order.
// RFC3339 is what producers normally send.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses a record timestamp. Anything unparsable is treated by
// the callers as fail-closed: invalid at ingestion, "too old" at retention.
func ParseTimestamp(s string) (time.Time, error) {
	var err error
	var t time.Time
	for _, layout := range timestampLayouts {
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// FromMap builds a Threat from a defaulted field map. It is meant to be called
// after ApplyDefaults and IsValid, so the numeric fields are known to parse;
// anything that still does not falls back to the documented default.
func FromMap(m map[string]any) Threat {
	return Threat{
		Timestamp:           str(m["timestamp"]),
		EventName:           str(m["eventname"]),
		SourceIP:            str(m["sourceip"]),
		SourceLocation:      str(m["sourcelocation"]),
		SourceCity:          str(m["sourcecity"]),
		SourceCountry:       str(m["sourcecountry"]),
		DestinationIP:       str(m["destinationip"]),
		DestinationLocation: str(m["destinationlocation"]),
		DestinationCity:     str(m["destinationcity"]),
		DestinationCountry:  str(m["destinationcountry"]),
		DestinationPort:     str(m["destinationport"]),
		DestinationService:  str(m["destinationservice"]),
		Volume:              toInt(m["volume"], DefaultVolume),
		Severity:            str(m["severity"]),
		Category:            str(m["category"]),
		DetectionSource:     str(m["detectionsource"]),
		Blocked:             ParseBool(m["blocked"], true),
	}
}

// Map is the inverse of FromMap, used when a Threat has to re-enter the
// loosely typed ingestion path (and by the round-trip tests).
func (t Threat) Map() map[string]any {
	m := map[string]any{
		"timestamp":           t.Timestamp,
		"eventname":           t.EventName,
		"sourceip":            t.SourceIP,
		"sourcelocation":      t.SourceLocation,
		"sourcecity":          t.SourceCity,
		"sourcecountry":       t.SourceCountry,
		"destinationip":       t.DestinationIP,
		"destinationlocation": t.DestinationLocation,
		"destinationcity":     t.DestinationCity,
		"destinationcountry":  t.DestinationCountry,
		"volume":              t.Volume,
		"severity":            t.Severity,
		"category":            t.Category,
		"detectionsource":     t.DetectionSource,
		"blocked":             t.Blocked,
	}
	if t.DestinationPort != "" {
		m["destinationport"] = t.DestinationPort
	}
	if t.DestinationService != "" {
		m["destinationservice"] = t.DestinationService
	}
	return m
}

// Time parses the record timestamp
func (t Threat) Time() (time.Time, error) {
	return ParseTimestamp(t.Timestamp)
}

func str(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	default:
		return ""
	}
}

func toInt(v any, def int) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		if i, err := strconv.Atoi(n); err == nil {
			return i
		}
		return def
	default:
		return def
	}
}
