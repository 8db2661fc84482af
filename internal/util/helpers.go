package util

import (
	"fmt"
	"math"
	"time"
)

// ISOTimestamp returns the current time as an ISO-8601 / RFC3339 string in UTC,
// the same format the threat producers send.
func ISOTimestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// UnixMilliTimestamp returns the current time in milliseconds since the epoch
func UnixMilliTimestamp() int64 {
	return time.Now().UnixNano() / int64(time.Millisecond)
}

var byteUnits = []string{"B", "KB", "MB", "GB"}

// FormatBytes renders a byte count as a human readable string, e.g. "1.21 KB"
func FormatBytes(bytes int64) string {
	if bytes <= 0 {
		return "0 B"
	}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(byteUnits) {
		i = len(byteUnits) - 1
	}
	value := float64(bytes) / math.Pow(1024, float64(i))
	return fmt.Sprintf("%.2f %s", value, byteUnits[i])
}
