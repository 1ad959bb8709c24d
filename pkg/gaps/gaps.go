// Package gaps analyzes recording frequency over a daily aggregate
// series: how often sleep was actually recorded, where the missing-data
// periods are, and how sessions distribute across recorded days.
package gaps

import "github.com/codeGROOVE-dev/slumber/pkg/aggregate"

// Gap is a maximal run of consecutive calendar dates with no recorded
// session, bounded by the present dates on either side (exclusive).
type Gap struct {
	After       aggregate.Date `json:"after"`  // last recorded date before the gap
	Before      aggregate.Date `json:"before"` // first recorded date after the gap
	MissingDays int            `json:"missing_days"`
}

// Report summarizes recording frequency across the full date span.
type Report struct {
	First            aggregate.Date `json:"first"`
	Last             aggregate.Date `json:"last"`
	SpanDays         int            `json:"span_days"` // inclusive of both endpoints
	RecordedDays     int            `json:"recorded_days"`
	MissingDays      int            `json:"missing_days"`
	RecordingRate    float64        `json:"recording_rate"` // recorded / span, 0..1
	Gaps             []Gap          `json:"gaps,omitempty"`
	SessionsPerDay   map[int]int    `json:"sessions_per_day,omitempty"` // session count -> number of days
	MaxSessions      int            `json:"max_sessions"`
	MultiSessionDays int            `json:"multi_session_days"`
}

// Analyze walks the ordered dates that have at least one aggregate and
// classifies every difference of more than one calendar day between
// consecutive present dates as a gap. An empty series is degenerate,
// not an error: no gaps, rate zero.
func Analyze(daily []aggregate.Daily) Report {
	r := Report{SessionsPerDay: make(map[int]int)}
	if len(daily) == 0 {
		return r
	}

	r.First = daily[0].Date
	r.Last = daily[len(daily)-1].Date
	r.SpanDays = r.First.DaysUntil(r.Last) + 1
	r.RecordedDays = len(daily)
	r.MissingDays = r.SpanDays - r.RecordedDays
	r.RecordingRate = float64(r.RecordedDays) / float64(r.SpanDays)

	for i := 1; i < len(daily); i++ {
		diff := daily[i-1].Date.DaysUntil(daily[i].Date)
		if diff > 1 {
			r.Gaps = append(r.Gaps, Gap{
				After:       daily[i-1].Date,
				Before:      daily[i].Date,
				MissingDays: diff - 1,
			})
		}
	}

	for _, d := range daily {
		r.SessionsPerDay[d.SessionCount]++
		if d.SessionCount > r.MaxSessions {
			r.MaxSessions = d.SessionCount
		}
		if d.SessionCount > 1 {
			r.MultiSessionDays++
		}
	}

	return r
}
