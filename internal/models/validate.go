package models

import (
	"strconv"
	"strings"
)

// IsValid decides whether a (normally already defaulted) candidate record is
// acceptable for storage. It fails closed: every check that cannot be
// positively confirmed rejects the record.
func IsValid(m map[string]any) bool {
	// required fields
	for _, key := range []string{"timestamp", "eventname", "sourceip", "destinationip", "sourcelocation", "destinationlocation"} {
		if empty(m[key]) {
			return false
		}
	}

	if _, err := ParseTimestamp(str(m["timestamp"])); err != nil {
		return false
	}

	if !ValidLocation(str(m["sourcelocation"])) || !ValidLocation(str(m["destinationlocation"])) {
		return false
	}

	if _, ok := parseVolume(m["volume"]); !ok {
		return false
	}

	// severity and category are only checked when present; a record missing
	// them is not rejected for that reason alone (defaults fill them first)
	if sev := str(m["severity"]); sev != "" && !validSeverity(sev) {
		return false
	}
	if cat := str(m["category"]); cat != "" && !validCategory(cat) {
		return false
	}

	return true
}

// ValidLocation reports whether a location string is a "lat,lon" pair with
// lat in [-90,90] and lon in [-180,180]
func ValidLocation(location string) bool {
	parts := strings.Split(location, ",")
	if len(parts) != 2 {
		return false
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return false
	}

	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func validSeverity(s string) bool {
	s = strings.ToLower(s)
	for _, v := range Severities {
		if s == v {
			return true
		}
	}
	return false
}

func validCategory(c string) bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}
