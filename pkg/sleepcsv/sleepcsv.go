// Package sleepcsv loads Sleep as Android CSV exports into session
// records and locates the newest export file by naming convention. It
// is a host-side collaborator: the analysis engine itself never touches
// the filesystem.
package sleepcsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/slumber/pkg/session"
)

// StampLayout matches the export's "07. 05. 2025 23:30" timestamps
// (day-first, dot separated). Unpadded components parse too.
const StampLayout = "2. 1. 2006 15:04"

// qualityColumns are the per-session quality metrics the export carries.
// Absent or unparseable cells simply leave the metric missing.
var qualityColumns = []string{"DeepSleep", "Cycles", "Snore", "Noise"}

// exportPatterns are tried in priority order when discovering the
// latest export in a data directory.
var exportPatterns = []string{
	"*_sleep-export_2025only.csv", // YYYYMMDD_sleep-export_2025only.csv (preferred)
	"*_sleep-export.csv",          // YYYYMMDD_sleep-export.csv (full dataset)
	"sleep-export_2025only_*.csv", // legacy: sleep-export_2025only_YYYYMMDD.csv
	"sleep-export_*.csv",          // legacy: sleep-export_YYYYMMDD.csv
	"sleep-export.csv",            // legacy: bare name
}

// Load reads an export file into session records.
func Load(path string) ([]session.Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening export: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	sessions, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return sessions, nil
}

// Parse reads export CSV data. The first row must be a header naming at
// least the From and To columns; Tz and quality metric columns are
// optional. Cell-level problems (unparseable timestamps or numbers) are
// left for the normalizer to diagnose rather than aborting the load.
func Parse(r io.Reader) ([]session.Session, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // exports pad rows unevenly

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	if _, ok := col["From"]; !ok {
		return nil, fmt.Errorf("export has no From column")
	}
	if _, ok := col["To"]; !ok {
		return nil, fmt.Errorf("export has no To column")
	}

	var sessions []session.Session
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", len(sessions)+2, err)
		}

		s := session.Session{
			Start:          parseStamp(cell(record, col, "From")),
			End:            parseStamp(cell(record, col, "To")),
			SourceTimezone: cell(record, col, "Tz"),
		}
		for _, name := range qualityColumns {
			raw := cell(record, col, name)
			if raw == "" {
				continue
			}
			if v, err := strconv.ParseFloat(raw, 64); err == nil {
				if s.Metrics == nil {
					s.Metrics = make(map[string]float64)
				}
				s.Metrics[name] = v
			}
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

func cell(record []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// parseStamp returns the zero time for unparseable cells; the
// normalizer excludes those records with an indexed diagnostic.
func parseStamp(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(StampLayout, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

// FindLatestExport locates the newest export in dir. New-format names
// carry their date as a YYYYMMDD prefix and sort by it; legacy names
// fall back to modification time.
func FindLatestExport(dir string) (string, error) {
	for _, pattern := range exportPatterns {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return "", fmt.Errorf("globbing %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			continue
		}

		if strings.HasPrefix(pattern, "*_sleep-export") {
			latest := matches[0]
			for _, m := range matches[1:] {
				if datePrefix(m) > datePrefix(latest) {
					latest = m
				}
			}
			return latest, nil
		}

		latest := matches[0]
		latestMod := modTime(latest)
		for _, m := range matches[1:] {
			if mt := modTime(m); mt.After(latestMod) {
				latest, latestMod = m, mt
			}
		}
		return latest, nil
	}
	return "", fmt.Errorf("no sleep export found in %s", dir)
}

func datePrefix(path string) string {
	name := filepath.Base(path)
	if len(name) < 8 {
		return name
	}
	return name[:8]
}

func modTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
