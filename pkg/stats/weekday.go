package stats

import (
	"time"

	"github.com/codeGROOVE-dev/slumber/pkg/aggregate"
)

// WeekdayStats describes how daily sleep totals vary on one weekday.
// StdDev, Range and CV are only meaningful when Available is true; a
// weekday observed fewer than the configured minimum number of times
// reports variability as unavailable instead of a spuriously precise
// figure.
type WeekdayStats struct {
	Weekday   time.Weekday `json:"weekday"`
	Count     int          `json:"count"`
	Mean      float64      `json:"mean"` // hours
	Min       float64      `json:"min"`
	Max       float64      `json:"max"`
	StdDev    float64      `json:"stddev"`
	Range     float64      `json:"range"`
	CV        float64      `json:"cv"` // stddev / mean
	Available bool         `json:"available"`
	HasCV     bool         `json:"has_cv"` // false when mean is zero
}

// WeekdayVariability groups daily totals by weekday and computes mean,
// sample standard deviation, range and coefficient of variation per
// weekday. The result always has seven entries ordered Monday through
// Sunday; weekdays with fewer than minObservations days keep their mean
// and count but mark variability unavailable.
func WeekdayVariability(daily []aggregate.Daily, minObservations int) []WeekdayStats {
	byDay := make(map[time.Weekday][]float64)
	for _, d := range daily {
		wd := d.Date.Weekday()
		byDay[wd] = append(byDay[wd], d.TotalDuration.Hours())
	}

	// Monday-first ordering, independent of time.Weekday's Sunday start.
	order := []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
		time.Friday, time.Saturday, time.Sunday,
	}

	result := make([]WeekdayStats, 0, len(order))
	for _, wd := range order {
		values := byDay[wd]
		ws := WeekdayStats{Weekday: wd, Count: len(values)}
		if len(values) > 0 {
			ws.Mean = mean(values)
			ws.Min, ws.Max = values[0], values[0]
			for _, v := range values[1:] {
				if v < ws.Min {
					ws.Min = v
				}
				if v > ws.Max {
					ws.Max = v
				}
			}
		}
		if len(values) >= minObservations && len(values) >= 2 {
			ws.Available = true
			ws.StdDev = sampleStdDev(values, ws.Mean)
			ws.Range = ws.Max - ws.Min
			if ws.Mean != 0 {
				ws.CV = ws.StdDev / ws.Mean
				ws.HasCV = true
			}
		}
		result = append(result, ws)
	}
	return result
}
