package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sweets9/SOC-ThreatViz/internal/models"
	"github.com/sweets9/SOC-ThreatViz/internal/util"
)

// Column order of the on-disk format. The two service columns are an optional
// schema extension; a single store file is always one or the other.
var (
	baseColumns = []string{
		"timestamp", "eventname",
		"sourceip", "sourcelocation", "sourcecity", "sourcecountry",
		"destinationip", "destinationlocation", "destinationcity", "destinationcountry",
		"volume", "severity", "category", "detectionsource", "blocked",
	}
	extendedColumns = []string{
		"timestamp", "eventname",
		"sourceip", "sourcelocation", "sourcecity", "sourcecountry",
		"destinationip", "destinationlocation", "destinationcity", "destinationcountry",
		"destinationport", "destinationservice",
		"volume", "severity", "category", "detectionsource", "blocked",
	}
)

// Stats describes a store file
type Stats struct {
	Entries      int       `json:"entries"`
	SizeBytes    int64     `json:"sizeBytes"`
	LastModified time.Time `json:"lastModified"`
}

// ReadThreats reads and parses a threat store file. A missing file is an empty
// store, not an error. Every row gets defaults applied and is validated; rows
// failing validation are dropped and counted, never fatal - the store is
// tolerant of partially corrupt historical data. Row order is preserved.
// Returns threats, the number of dropped rows, and any hard I/O error.
func ReadThreats(path string) ([]models.Threat, int, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			util.PrintWarningf("Store file not found: %s", path)
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("reading store %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("reading store header %s: %w", path, err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	threats := []models.Threat{}
	dropped := 0

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// malformed row, skip it
			dropped++
			continue
		}
		if blankRow(row) {
			continue
		}

		fields := make(map[string]any, len(header))
		for i, name := range header {
			if i < len(row) {
				fields[name] = strings.TrimSpace(row[i])
			}
		}

		candidate := models.ApplyDefaults(fields)
		if !models.IsValid(candidate) {
			dropped++
			continue
		}
		threats = append(threats, models.FromMap(candidate))
	}

	if dropped > 0 {
		util.PrintWarningf("Dropped %d invalid rows from %s", dropped, path)
	}
	return threats, dropped, nil
}

// WriteThreats rewrites the full store file with a header and the given
// records. Not an incremental append - callers serialize writes around it.
func WriteThreats(path string, threats []models.Threat, extended bool) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing store %s: %w", path, err)
	}
	defer file.Close()

	columns := baseColumns
	if extended {
		columns = extendedColumns
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("writing store header %s: %w", path, err)
	}
	for _, t := range threats {
		if err := writer.Write(row(t, columns)); err != nil {
			return fmt.Errorf("writing store row %s: %w", path, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing store %s: %w", path, err)
	}
	return nil
}

// FileStats probes a store file. A missing file yields a zeroed result.
func FileStats(path string) (Stats, error) {
	threats, _, err := ReadThreats(path)
	if err != nil {
		return Stats{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		// load already treated the file as empty
		return Stats{}, nil
	}

	return Stats{
		Entries:      len(threats),
		SizeBytes:    info.Size(),
		LastModified: info.ModTime(),
	}, nil
}

func row(t models.Threat, columns []string) []string {
	out := make([]string, 0, len(columns))
	for _, col := range columns {
		switch col {
		case "timestamp":
			out = append(out, t.Timestamp)
		case "eventname":
			out = append(out, t.EventName)
		case "sourceip":
			out = append(out, t.SourceIP)
		case "sourcelocation":
			out = append(out, t.SourceLocation)
		case "sourcecity":
			out = append(out, t.SourceCity)
		case "sourcecountry":
			out = append(out, t.SourceCountry)
		case "destinationip":
			out = append(out, t.DestinationIP)
		case "destinationlocation":
			out = append(out, t.DestinationLocation)
		case "destinationcity":
			out = append(out, t.DestinationCity)
		case "destinationcountry":
			out = append(out, t.DestinationCountry)
		case "destinationport":
			out = append(out, t.DestinationPort)
		case "destinationservice":
			out = append(out, t.DestinationService)
		case "volume":
			out = append(out, strconv.Itoa(t.Volume))
		case "severity":
			out = append(out, t.Severity)
		case "category":
			out = append(out, t.Category)
		case "detectionsource":
			out = append(out, t.DetectionSource)
		case "blocked":
			out = append(out, strconv.FormatBool(t.Blocked))
		}
	}
	return out
}

func blankRow(row []string) bool {
	for _, field := range row {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
