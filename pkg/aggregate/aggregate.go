// Package aggregate assigns normalized sleep sessions to calendar dates
// and sums them into per-date aggregates.
//
// Date assignment follows the wake-date rule: a session contained in one
// calendar day belongs to that day; a session crossing midnight belongs
// to the day it ended on. Assigning by start date instead would stack
// two consecutive overnight sleeps onto the same date whenever sessions
// chain across midnight on back-to-back nights.
package aggregate

import (
	"sort"
	"time"

	"github.com/codeGROOVE-dev/slumber/pkg/session"
)

// Daily is the aggregate of every session assigned to one calendar date.
// Immutable after construction.
type Daily struct {
	Date          Date                 `json:"date"`
	TotalDuration time.Duration        `json:"total_duration"`
	SessionCount  int                  `json:"session_count"`
	CrossMidnight int                  `json:"cross_midnight"` // constituents that crossed midnight
	Sessions      []session.Normalized `json:"sessions"`       // in input order, for auditability
	MetricTotals  map[string]float64   `json:"metric_totals,omitempty"`
	MetricCounts  map[string]int       `json:"metric_counts,omitempty"`
}

// MetricMean derives the average of a named quality metric over the
// sessions that carried it. The second return is false when no
// constituent session recorded the metric.
func (d Daily) MetricMean(name string) (float64, bool) {
	count := d.MetricCounts[name]
	if count == 0 {
		return 0, false
	}
	return d.MetricTotals[name] / float64(count), true
}

// AssignDate applies the wake-date rule to a normalized session.
// Only the start and end dates matter; a session spanning more than
// 24 hours is still assigned to its end date.
func AssignDate(n session.Normalized) Date {
	start := DateOf(n.Start)
	end := DateOf(n.End)
	if start == end {
		return start
	}
	return end
}

// Build groups sessions by assigned date and sums durations and metrics.
// Every session lands in exactly one aggregate; durations are summed,
// never averaged or deduplicated, so naps and split sessions each count
// once. Dates with no sessions get no entry. The result is ordered by
// date ascending.
func Build(sessions []session.Normalized) []Daily {
	byDate := make(map[Date]*Daily)

	for _, n := range sessions {
		date := AssignDate(n)
		d, ok := byDate[date]
		if !ok {
			d = &Daily{
				Date:         date,
				MetricTotals: make(map[string]float64),
				MetricCounts: make(map[string]int),
			}
			byDate[date] = d
		}

		d.TotalDuration += n.Duration()
		d.SessionCount++
		d.Sessions = append(d.Sessions, n)
		if DateOf(n.Start) != DateOf(n.End) {
			d.CrossMidnight++
		}
		for name, value := range n.Metrics {
			d.MetricTotals[name] += value
			d.MetricCounts[name]++
		}
	}

	daily := make([]Daily, 0, len(byDate))
	for _, d := range byDate {
		daily = append(daily, *d)
	}
	sort.Slice(daily, func(i, j int) bool { return daily[i].Date.Before(daily[j].Date) })
	return daily
}

// Summary condenses a daily series into the processing overview shown
// after aggregation.
type Summary struct {
	TotalSessions    int `json:"total_sessions"`
	UniqueDates      int `json:"unique_dates"`
	MultiSessionDays int `json:"multi_session_days"`
	CrossMidnight    int `json:"cross_midnight"`
}

// Summarize walks a daily series built by Build.
func Summarize(daily []Daily) Summary {
	var s Summary
	s.UniqueDates = len(daily)
	for _, d := range daily {
		s.TotalSessions += d.SessionCount
		s.CrossMidnight += d.CrossMidnight
		if d.SessionCount > 1 {
			s.MultiSessionDays++
		}
	}
	return s
}
